package models

import (
	"time"

	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
)

type Completion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GoalID      uuid.UUID `json:"goal_id" db:"goal_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
	Timezone    string    `json:"timezone" db:"timezone"`
	LocalDate   string    `json:"local_date" db:"local_date"`
	Note        string    `json:"note,omitempty" db:"note"`
	// Active is flipped off on revert; reverted completions never count.
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CompleteGoalRequest struct {
	GoalID   string `json:"goal_id" validate:"required,uuid"`
	Timezone string `json:"timezone" validate:"required,lte=64"`
	// CompletedAt lets a client sync an offline completion; empty means now.
	CompletedAt string `json:"completed_at" validate:"omitempty"`
	Note        string `json:"note" validate:"omitempty,lte=500"`
}

type RevertCompletionRequest struct {
	GoalID       string `json:"goal_id" validate:"required,uuid"`
	CompletionID string `json:"completion_id" validate:"required,uuid"`
}

type StreakUpdateResult struct {
	Completion   Completion        `json:"completion"`
	Streak       Streak            `json:"streak"`
	StreakBroken bool              `json:"streak_broken"`
	Crossed      []habit.Milestone `json:"milestones_crossed,omitempty"`
	NextDeadline time.Time         `json:"next_deadline"`
}
