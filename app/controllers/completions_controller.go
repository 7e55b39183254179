package controllers

import (
	"log"
	"time"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/app/queries"
	"github.com/davedra/peerhabit-backend/pkg/database"
	"github.com/davedra/peerhabit-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CompleteGoal(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CompleteGoalRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := uuid.Parse(req.GoalID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal_id"})
	}

	at := clock.Now()
	if req.CompletedAt != "" {
		at, err = time.Parse(time.RFC3339, req.CompletedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid completed_at, use RFC3339"})
		}
	}

	cq := queries.CompletionsQueries{DB: database.DB, Clock: clock}
	result, err := cq.RecordCompletion(goalID, userID, at, req.Timezone, req.Note)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	for _, m := range result.Crossed {
		payload := fiber.Map{
			"event":     "milestone",
			"goal_id":   goalID,
			"threshold": m.Threshold,
		}
		if err := utils.DefaultNotifier.Send(userID, payload); err != nil {
			log.Printf("event=milestone_notify_skip goal=%s threshold=%d", goalID, m.Threshold)
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func UncompleteGoal(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.RevertCompletionRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := uuid.Parse(req.GoalID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal_id"})
	}
	completionID, err := uuid.Parse(req.CompletionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid completion_id"})
	}

	cq := queries.CompletionsQueries{DB: database.DB, Clock: clock}
	streak, err := cq.RevertCompletion(goalID, completionID, userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Completion reverted", "streak": streak})
}

func GetCompletions(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := uuid.Parse(c.Query("goal_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "goal_id query param required"})
	}

	gq := queries.GoalsQueries{DB: database.DB}
	g, err := gq.GetGoalByID(goalID)
	if err != nil || g.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Goal not found"})
	}

	cq := queries.CompletionsQueries{DB: database.DB, Clock: clock}
	completions, err := cq.GetCompletionsByGoal(goalID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get completions"})
	}

	return c.Status(fiber.StatusOK).JSON(completions)
}

func CelebrateMilestone(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CelebrateMilestoneRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := uuid.Parse(req.GoalID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal_id"})
	}

	sq := queries.StreaksQueries{DB: database.DB, Clock: clock}
	streak, err := sq.CelebrateMilestone(goalID, userID, req.Threshold)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Milestone celebrated", "streak": streak})
}
