package queries

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
)

type StreaksQueries struct {
	DB    *sql.DB
	Clock habit.Clock
}

func (q *StreaksQueries) GetStreakByGoal(goalID uuid.UUID) (models.Streak, error) {
	var s models.Streak
	var milestonesRaw []byte
	query := `SELECT goal_id, user_id, current_streak, best_streak, break_count, milestones, updated_at FROM streaks WHERE goal_id = $1`
	err := q.DB.QueryRow(query, goalID).Scan(&s.GoalID, &s.UserID, &s.CurrentStreak, &s.BestStreak, &s.BreakCount, &milestonesRaw, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return s, fmt.Errorf("%w: goal %s", habit.ErrStreakNotFound, goalID)
		}
		return s, errors.New("unable to query streak, DB error")
	}
	if err := json.Unmarshal(milestonesRaw, &s.Milestones); err != nil {
		return s, fmt.Errorf("%w: goal %s: %v", habit.ErrStreakIntegrity, goalID, err)
	}
	return s, nil
}

// RecordMiss zeroes the streak the first time a missed deadline is observed
// with no completion, counting the break at detection time. AdvanceStreak
// restarts a zeroed streak without counting a second break, so the next
// completion does not double-book it. The guard on current_streak makes the
// statement a no-op when the streak is already down.
func (q *StreaksQueries) RecordMiss(goalID uuid.UUID) error {
	_, err := q.DB.Exec(`UPDATE streaks SET current_streak = 0, break_count = break_count + 1, updated_at = now() WHERE goal_id = $1 AND current_streak > 0`, goalID)
	if err != nil {
		return errors.New("unable to record missed deadline, DB error")
	}
	return nil
}

// CelebrateMilestone flips the celebrated flag for one crossed threshold, so
// the client only fires the celebration animation once.
func (q *StreaksQueries) CelebrateMilestone(goalID, userID uuid.UUID, threshold int) (models.Streak, error) {
	var s models.Streak

	tx, err := q.DB.Begin()
	if err != nil {
		return s, errors.New("unable to begin transaction, DB error")
	}

	s, err = scanStreakTx(tx, goalID, true)
	if err != nil {
		tx.Rollback()
		return s, err
	}
	if s.UserID != userID {
		tx.Rollback()
		return s, fmt.Errorf("%w: goal %s", habit.ErrStreakNotFound, goalID)
	}

	found := false
	for i := range s.Milestones {
		if s.Milestones[i].Threshold == threshold {
			s.Milestones[i].Celebrated = true
			found = true
		}
	}
	if !found {
		tx.Rollback()
		return s, fmt.Errorf("%w: goal %s has no crossed milestone %d", habit.ErrStreakNotFound, goalID, threshold)
	}

	s.UpdatedAt = q.Clock.Now()
	if err := updateStreakTx(tx, s); err != nil {
		tx.Rollback()
		return s, err
	}
	if err := tx.Commit(); err != nil {
		return s, errors.New("unable to commit milestone update, DB error")
	}
	return s, nil
}
