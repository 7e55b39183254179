package models

import (
	"time"

	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
)

type Goal struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	Title           string     `json:"title" db:"title"`
	Rule            string     `json:"rule" db:"rule"`
	TargetDays      []int      `json:"target_days" db:"target_days"`
	Difficulty      string     `json:"difficulty" db:"difficulty"`
	Timezone        string     `json:"timezone" db:"timezone"`
	LastCompletedAt *time.Time `json:"last_completed_at" db:"last_completed_at"`
	NextDeadline    time.Time  `json:"next_deadline" db:"next_deadline"`
	RedSince        *time.Time `json:"red_since" db:"red_since"`
	// CurrentStatus is a display cache refreshed on list reads; classification
	// is always recomputed from now, never read back from this column.
	CurrentStatus string    `json:"current_status" db:"current_status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreateGoalRequest struct {
	Title      string `json:"title" validate:"required,lte=255"`
	Rule       string `json:"rule" validate:"required,oneof=daily weekly 3x_a_week"`
	TargetDays []int  `json:"target_days" validate:"omitempty,max=7,dive,min=0,max=6"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Timezone   string `json:"timezone" validate:"required,lte=64"`
}

// View / composite structs used by controllers
type GoalWithStatus struct {
	Goal   Goal         `json:"goal"`
	Status habit.Status `json:"status"`
}
