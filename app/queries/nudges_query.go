package queries

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
)

type NudgesQueries struct {
	DB *sql.DB
}

// RecordSend starts a fresh cooldown for the (sender, goal) pair. The
// conditional upsert makes check-and-set a single atomic statement: it only
// replaces a cooldown whose expiry is already strictly before now, so two
// concurrent sends yield exactly one success.
func (q *NudgesQueries) RecordSend(senderID, goalID uuid.UUID, now time.Time) (time.Time, error) {
	expiry := habit.CooldownExpiry(now)
	query := `INSERT INTO nudge_cooldowns (sender_id, goal_id, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (sender_id, goal_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		WHERE nudge_cooldowns.expires_at < $4`
	res, err := q.DB.Exec(query, senderID, goalID, expiry, now)
	if err != nil {
		return time.Time{}, errors.New("unable to record nudge, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if rows == 0 {
		return time.Time{}, fmt.Errorf("%w: sender %s goal %s", habit.ErrNudgeCooldownActive, senderID, goalID)
	}
	return expiry, nil
}

// GetCooldown returns the pair's cooldown record; a missing row comes back
// with a zero expiry, which habit.CanSend treats as sendable.
func (q *NudgesQueries) GetCooldown(senderID, goalID uuid.UUID) (models.NudgeCooldown, error) {
	cd := models.NudgeCooldown{SenderID: senderID, GoalID: goalID}
	query := `SELECT expires_at FROM nudge_cooldowns WHERE sender_id = $1 AND goal_id = $2`
	err := q.DB.QueryRow(query, senderID, goalID).Scan(&cd.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return cd, nil
		}
		return cd, errors.New("unable to query nudge cooldown")
	}
	return cd, nil
}
