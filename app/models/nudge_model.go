package models

import (
	"time"

	"github.com/google/uuid"
)

type NudgeCooldown struct {
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	GoalID    uuid.UUID `json:"goal_id" db:"goal_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

type SendNudgeRequest struct {
	GoalID  string `json:"goal_id" validate:"required,uuid"`
	Message string `json:"message" validate:"omitempty,lte=280"`
}
