package queries

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type GoalsQueries struct {
	DB *sql.DB
}

const goalColumns = `id, user_id, title, rule, target_days, difficulty, timezone, last_completed_at, next_deadline, red_since, current_status, created_at, updated_at`

func scanGoal(row interface{ Scan(dest ...any) error }) (models.Goal, error) {
	var g models.Goal
	var days pq.Int64Array
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Rule, &days, &g.Difficulty, &g.Timezone,
		&g.LastCompletedAt, &g.NextDeadline, &g.RedSince, &g.CurrentStatus, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return g, err
	}
	g.TargetDays = make([]int, 0, len(days))
	for _, d := range days {
		g.TargetDays = append(g.TargetDays, int(d))
	}
	return g, nil
}

func int64Days(days []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}

// CreateGoal inserts the goal and its zeroed streak row in one transaction, so
// no reader ever sees a goal without a streak aggregate.
func (q *GoalsQueries) CreateGoal(g *models.Goal) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return errors.New("unable to begin transaction, DB error")
	}

	query := `INSERT INTO goals (` + goalColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	if _, err := tx.Exec(query, g.ID, g.UserID, g.Title, g.Rule, int64Days(g.TargetDays), g.Difficulty, g.Timezone,
		g.LastCompletedAt, g.NextDeadline, g.RedSince, g.CurrentStatus, g.CreatedAt, g.UpdatedAt); err != nil {
		tx.Rollback()
		log.Printf("event=goal_create_failed goal=%s error=%v", g.ID, err)
		return errors.New("unable to create goal, DB error")
	}

	if _, err := tx.Exec(`INSERT INTO streaks (goal_id, user_id, current_streak, best_streak, break_count, milestones, updated_at) VALUES ($1, $2, 0, 0, 0, '[]'::jsonb, now())`,
		g.ID, g.UserID); err != nil {
		tx.Rollback()
		log.Printf("event=streak_init_failed goal=%s error=%v", g.ID, err)
		return errors.New("unable to initialize streak, DB error")
	}

	if err := tx.Commit(); err != nil {
		return errors.New("unable to commit goal creation, DB error")
	}
	return nil
}

func (q *GoalsQueries) GetGoalByID(id uuid.UUID) (models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	g, err := scanGoal(q.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return g, fmt.Errorf("%w: %s", habit.ErrGoalNotFound, id)
		}
		log.Printf("event=goal_get_failed goal=%s error=%v", id, err)
		return g, errors.New("unable to get goal, DB error")
	}
	return g, nil
}

func (q *GoalsQueries) GetGoalsByUser(userID uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at`
	rows, err := q.DB.Query(query, userID)
	if err != nil {
		log.Printf("event=goal_list_failed user=%s error=%v", userID, err)
		return goals, errors.New("unable to query goals")
	}
	defer rows.Close()
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return goals, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// UpdateStatusCache refreshes the display-only current_status column. Failures
// are logged and swallowed: the cache is a rendering hint, never load-bearing.
func (q *GoalsQueries) UpdateStatusCache(id uuid.UUID, color string) {
	if _, err := q.DB.Exec(`UPDATE goals SET current_status = $1, updated_at = now() WHERE id = $2`, color, id); err != nil {
		log.Printf("event=status_cache_update_failed goal=%s error=%v", id, err)
	}
}

// SetRedSince stamps the instant a goal was first observed overdue, once.
func (q *GoalsQueries) SetRedSince(id uuid.UUID, at time.Time) error {
	if _, err := q.DB.Exec(`UPDATE goals SET red_since = $1, updated_at = now() WHERE id = $2 AND red_since IS NULL`, at, id); err != nil {
		return errors.New("unable to set red_since, DB error")
	}
	return nil
}
