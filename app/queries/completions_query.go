package queries

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CompletionsQueries struct {
	DB    *sql.DB
	Clock habit.Clock
}

const uniqueViolation = "23505"

// RecordCompletion applies one completion in a single transaction: the goal
// row is locked FOR UPDATE so concurrent attempts for the same goal serialize,
// exactly one of two same-day attempts succeeds, and the goal's deadline and
// the streak aggregate never diverge.
func (q *CompletionsQueries) RecordCompletion(goalID, userID uuid.UUID, at time.Time, tz, note string) (models.StreakUpdateResult, error) {
	var result models.StreakUpdateResult

	loc, err := habit.LoadLocation(tz)
	if err != nil {
		return result, err
	}
	now := q.Clock.Now()
	localDate := habit.LocalDate(at, loc)

	tx, err := q.DB.Begin()
	if err != nil {
		return result, errors.New("unable to begin transaction, DB error")
	}

	g, err := scanGoal(tx.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2 FOR UPDATE`, goalID, userID))
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return result, fmt.Errorf("%w: %s", habit.ErrGoalNotFound, goalID)
		}
		log.Printf("event=completion_lock_failed goal=%s error=%v", goalID, err)
		return result, errors.New("unable to lock goal, DB error")
	}

	dates, err := activeDatesTx(tx, goalID)
	if err != nil {
		tx.Rollback()
		return result, err
	}

	if err := habit.ValidateCompletion(localDate, dates, now, loc); err != nil {
		tx.Rollback()
		return result, fmt.Errorf("%w: goal %s date %s", err, goalID, localDate)
	}

	prevDate := ""
	if len(dates) > 0 {
		prevDate = dates[len(dates)-1]
	}
	backdated := prevDate != "" && localDate < prevDate

	completion := models.Completion{
		ID:          uuid.New(),
		GoalID:      goalID,
		UserID:      userID,
		CompletedAt: at,
		Timezone:    tz,
		LocalDate:   localDate,
		Note:        note,
		Active:      true,
		CreatedAt:   now,
	}
	_, err = tx.Exec(`INSERT INTO completions (id, goal_id, user_id, completed_at, timezone, local_date, note, active, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		completion.ID, completion.GoalID, completion.UserID, completion.CompletedAt, completion.Timezone, completion.LocalDate, completion.Note, completion.Active, completion.CreatedAt)
	if err != nil {
		tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return result, fmt.Errorf("%w: goal %s date %s", habit.ErrAlreadyCompletedToday, goalID, localDate)
		}
		log.Printf("event=completion_insert_failed goal=%s error=%v", goalID, err)
		return result, errors.New("unable to insert completion, DB error")
	}

	streak, err := scanStreakTx(tx, goalID, true)
	if err != nil {
		tx.Rollback()
		return result, err
	}

	var state habit.StreakState
	var broke bool
	var crossed []habit.Milestone
	if backdated {
		// A backdated completion lands mid-history, where an incremental
		// advance has the wrong neighbor; replay the whole history (the new
		// row included) so a filled gap also heals its recorded break.
		history, _, _, histErr := activeHistoryTx(tx, goalID)
		if histErr != nil {
			tx.Rollback()
			return result, histErr
		}
		state = habit.ReplayStreak(g.Rule, habit.Weekdays(g.TargetDays), history, streak.Milestones)
		crossed = newMilestones(streak.Milestones, state.Milestones)
	} else {
		adv := habit.AdvanceStreak(streakState(streak), g.Rule, habit.Weekdays(g.TargetDays), prevDate, localDate, at)
		state = adv.State
		broke = adv.Broke
		crossed = adv.Crossed
	}
	streak.CurrentStreak = state.CurrentStreak
	streak.BestStreak = state.BestStreak
	streak.BreakCount = state.BreakCount
	streak.Milestones = state.Milestones
	streak.UpdatedAt = now

	if err := updateStreakTx(tx, streak); err != nil {
		tx.Rollback()
		return result, err
	}

	// Only a completion that advances the timeline moves the goal forward; a
	// backdated sync must not drag next_deadline behind obligations already
	// satisfied by a newer completion.
	deadline := g.NextDeadline
	if g.LastCompletedAt == nil || at.After(*g.LastCompletedAt) {
		deadline = habit.NextDeadline(g.Rule, habit.Weekdays(g.TargetDays), at, true, loc)
		status := habit.Classify(&at, deadline, now, loc)
		_, err = tx.Exec(`UPDATE goals SET last_completed_at = $1, next_deadline = $2, red_since = NULL, current_status = $3, updated_at = now() WHERE id = $4`,
			at, deadline, status.Color, goalID)
		if err != nil {
			tx.Rollback()
			return result, errors.New("unable to update goal, DB error")
		}
	}

	if err := tx.Commit(); err != nil {
		return result, errors.New("unable to commit completion, DB error")
	}

	result.Completion = completion
	result.Streak = streak
	result.StreakBroken = broke
	result.Crossed = crossed
	result.NextDeadline = deadline
	return result, nil
}

// newMilestones returns the milestones present in current but not in prior.
func newMilestones(prior, current []habit.Milestone) []habit.Milestone {
	var out []habit.Milestone
	for _, m := range current {
		seen := false
		for _, p := range prior {
			if p.Threshold == m.Threshold {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, m)
		}
	}
	return out
}

// RevertCompletion soft-deletes the completion and rebuilds the streak by
// replaying the remaining history inside the same transaction. A plain
// decrement is wrong whenever the reverted completion is not the most recent
// contiguous link, so reverts always replay.
func (q *CompletionsQueries) RevertCompletion(goalID, completionID, userID uuid.UUID) (models.Streak, error) {
	var streak models.Streak
	now := q.Clock.Now()

	tx, err := q.DB.Begin()
	if err != nil {
		return streak, errors.New("unable to begin transaction, DB error")
	}

	g, err := scanGoal(tx.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2 FOR UPDATE`, goalID, userID))
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return streak, fmt.Errorf("%w: %s", habit.ErrGoalNotFound, goalID)
		}
		return streak, errors.New("unable to lock goal, DB error")
	}

	res, err := tx.Exec(`UPDATE completions SET active = FALSE WHERE id = $1 AND goal_id = $2 AND user_id = $3 AND active = TRUE`, completionID, goalID, userID)
	if err != nil {
		tx.Rollback()
		return streak, errors.New("unable to revert completion, DB error")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		tx.Rollback()
		return streak, fmt.Errorf("%w: %s", habit.ErrCompletionNotFound, completionID)
	}

	history, lastAt, lastTz, err := activeHistoryTx(tx, goalID)
	if err != nil {
		tx.Rollback()
		return streak, err
	}

	prior, err := scanStreakTx(tx, goalID, true)
	if err != nil {
		tx.Rollback()
		return streak, err
	}

	state := habit.ReplayStreak(g.Rule, habit.Weekdays(g.TargetDays), history, prior.Milestones)
	streak = prior
	streak.CurrentStreak = state.CurrentStreak
	streak.BestStreak = state.BestStreak
	streak.BreakCount = state.BreakCount
	streak.Milestones = state.Milestones
	streak.UpdatedAt = now

	if err := updateStreakTx(tx, streak); err != nil {
		tx.Rollback()
		return streak, err
	}

	// Recompute the deadline as if the reverted completion never happened:
	// from the last surviving completion, or from now for a bare goal.
	var lastCompleted *time.Time
	var deadline time.Time
	if len(history) > 0 {
		loc, locErr := habit.LoadLocation(lastTz)
		if locErr != nil {
			tx.Rollback()
			return streak, locErr
		}
		lastCompleted = &lastAt
		deadline = habit.NextDeadline(g.Rule, habit.Weekdays(g.TargetDays), lastAt, true, loc)
	} else {
		loc, locErr := habit.LoadLocation(g.Timezone)
		if locErr != nil {
			tx.Rollback()
			return streak, locErr
		}
		deadline = habit.NextDeadline(g.Rule, habit.Weekdays(g.TargetDays), now, false, loc)
	}

	loc, locErr := habit.LoadLocation(g.Timezone)
	if locErr != nil {
		tx.Rollback()
		return streak, locErr
	}
	status := habit.Classify(lastCompleted, deadline, now, loc)
	_, err = tx.Exec(`UPDATE goals SET last_completed_at = $1, next_deadline = $2, current_status = $3, updated_at = now() WHERE id = $4`,
		lastCompleted, deadline, status.Color, goalID)
	if err != nil {
		tx.Rollback()
		return streak, errors.New("unable to update goal, DB error")
	}

	if err := tx.Commit(); err != nil {
		return streak, errors.New("unable to commit revert, DB error")
	}
	return streak, nil
}

// GetCompletionsByGoal returns the goal's active completions ordered by
// completion instant.
func (q *CompletionsQueries) GetCompletionsByGoal(goalID uuid.UUID) ([]models.Completion, error) {
	var completions []models.Completion
	query := `SELECT id, goal_id, user_id, completed_at, timezone, local_date, note, active, created_at FROM completions WHERE goal_id = $1 AND active = TRUE ORDER BY completed_at`
	rows, err := q.DB.Query(query, goalID)
	if err != nil {
		return completions, errors.New("unable to query completions")
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.GoalID, &c.UserID, &c.CompletedAt, &c.Timezone, &c.LocalDate, &c.Note, &c.Active, &c.CreatedAt); err != nil {
			return completions, err
		}
		completions = append(completions, c)
	}
	return completions, nil
}

func (q *CompletionsQueries) CountCompletions(goalID uuid.UUID) (int, error) {
	var cnt int
	if err := q.DB.QueryRow(`SELECT count(*) FROM completions WHERE goal_id = $1 AND active = TRUE`, goalID).Scan(&cnt); err != nil {
		return 0, errors.New("unable to count completions")
	}
	return cnt, nil
}

func streakState(s models.Streak) habit.StreakState {
	return habit.StreakState{
		CurrentStreak: s.CurrentStreak,
		BestStreak:    s.BestStreak,
		BreakCount:    s.BreakCount,
		Milestones:    s.Milestones,
	}
}

// activeDatesTx returns the goal's active completion dates in ascending order.
func activeDatesTx(tx *sql.Tx, goalID uuid.UUID) ([]string, error) {
	var dates []string
	rows, err := tx.Query(`SELECT local_date FROM completions WHERE goal_id = $1 AND active = TRUE ORDER BY local_date`, goalID)
	if err != nil {
		return nil, errors.New("unable to query completion dates")
	}
	defer rows.Close()
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func activeHistoryTx(tx *sql.Tx, goalID uuid.UUID) ([]habit.Completion, time.Time, string, error) {
	var history []habit.Completion
	var lastAt time.Time
	var lastTz string
	// Replay order is the local calendar, not insertion order, so a backdated
	// row slots into its proper place.
	rows, err := tx.Query(`SELECT completed_at, timezone, local_date FROM completions WHERE goal_id = $1 AND active = TRUE ORDER BY local_date`, goalID)
	if err != nil {
		return nil, lastAt, lastTz, errors.New("unable to query completion history")
	}
	defer rows.Close()
	for rows.Next() {
		var at time.Time
		var tz, localDate string
		if err := rows.Scan(&at, &tz, &localDate); err != nil {
			return nil, lastAt, lastTz, err
		}
		history = append(history, habit.Completion{LocalDate: localDate, At: at})
		lastAt, lastTz = at, tz
	}
	return history, lastAt, lastTz, nil
}

func scanStreakTx(tx *sql.Tx, goalID uuid.UUID, forUpdate bool) (models.Streak, error) {
	var s models.Streak
	var milestonesRaw []byte
	query := `SELECT goal_id, user_id, current_streak, best_streak, break_count, milestones, updated_at FROM streaks WHERE goal_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := tx.QueryRow(query, goalID).Scan(&s.GoalID, &s.UserID, &s.CurrentStreak, &s.BestStreak, &s.BreakCount, &milestonesRaw, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return s, fmt.Errorf("%w: goal %s", habit.ErrStreakNotFound, goalID)
		}
		return s, errors.New("unable to query streak, DB error")
	}
	if err := json.Unmarshal(milestonesRaw, &s.Milestones); err != nil {
		// Corrupt milestone state is not guessable; surface it so the caller
		// can trigger a full recompute instead of proceeding on bad data.
		return s, fmt.Errorf("%w: goal %s: %v", habit.ErrStreakIntegrity, goalID, err)
	}
	return s, nil
}

func updateStreakTx(tx *sql.Tx, s models.Streak) error {
	milestones, err := json.Marshal(s.Milestones)
	if err != nil {
		return fmt.Errorf("%w: goal %s: %v", habit.ErrStreakIntegrity, s.GoalID, err)
	}
	_, err = tx.Exec(`UPDATE streaks SET current_streak = $1, best_streak = $2, break_count = $3, milestones = $4, updated_at = $5 WHERE goal_id = $6`,
		s.CurrentStreak, s.BestStreak, s.BreakCount, milestones, s.UpdatedAt, s.GoalID)
	if err != nil {
		return errors.New("unable to update streak, DB error")
	}
	return nil
}
