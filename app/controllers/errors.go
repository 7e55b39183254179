package controllers

import (
	"errors"

	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps engine errors to HTTP statuses. Anything outside the
// taxonomy is a server fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, habit.ErrAlreadyCompletedToday):
		return fiber.StatusConflict
	case errors.Is(err, habit.ErrFutureCompletion), errors.Is(err, habit.ErrInvalidTimezone):
		return fiber.StatusBadRequest
	case errors.Is(err, habit.ErrGoalNotFound), errors.Is(err, habit.ErrStreakNotFound), errors.Is(err, habit.ErrCompletionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, habit.ErrSelfNudge):
		return fiber.StatusForbidden
	case errors.Is(err, habit.ErrNudgeCooldownActive):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
