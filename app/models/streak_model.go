package models

import (
	"time"

	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/google/uuid"
)

type Streak struct {
	GoalID        uuid.UUID         `json:"goal_id" db:"goal_id"`
	UserID        uuid.UUID         `json:"user_id" db:"user_id"`
	CurrentStreak int               `json:"current_streak" db:"current_streak"`
	BestStreak    int               `json:"best_streak" db:"best_streak"`
	BreakCount    int               `json:"break_count" db:"break_count"`
	Milestones    []habit.Milestone `json:"milestones" db:"milestones"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

type CelebrateMilestoneRequest struct {
	GoalID    string `json:"goal_id" validate:"required,uuid"`
	Threshold int    `json:"threshold" validate:"required,min=1"`
}
