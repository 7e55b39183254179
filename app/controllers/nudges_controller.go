package controllers

import (
	"log"
	"time"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/app/queries"
	"github.com/davedra/peerhabit-backend/pkg/database"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/davedra/peerhabit-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

func SendNudge(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	senderID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.SendNudgeRequest{}
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

	gq := queries.GoalsQueries{DB: database.DB}
	g, err := gq.GetGoalByID(goalID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": "Goal not found"})
	}

	if err := habit.CheckSender(senderID, g.UserID); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	// A goal the owner already completed today (or one comfortably ahead of
	// its deadline) is not nudge material.
	loc, locErr := habit.LoadLocation(g.Timezone)
	if locErr != nil {
		loc = time.UTC
	}
	now := clock.Now()
	if status := habit.Classify(g.LastCompletedAt, g.NextDeadline, now, loc); !status.NudgeEligible {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Goal is not nudge-eligible right now"})
	}

	nq := queries.NudgesQueries{DB: database.DB}
	expiry, err := nq.RecordSend(senderID, goalID, now)
	if err != nil {
		if cd, cdErr := nq.GetCooldown(senderID, goalID); cdErr == nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"error":             err.Error(),
				"remaining_minutes": habit.RemainingMinutes(cd.ExpiresAt, now),
			})
		}
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	payload := fiber.Map{
		"event":   "nudge",
		"goal_id": goalID,
		"from":    senderID,
		"message": req.Message,
	}
	if err := utils.DefaultNotifier.Send(g.UserID, payload); err != nil {
		log.Printf("event=nudge_notify_skip goal=%s owner=%s", goalID, g.UserID)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Nudge sent", "cooldown_expires_at": expiry})
}

func GetNudgeCooldown(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	senderID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := uuid.Parse(c.Query("goal_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "goal_id query param required"})
	}

	nq := queries.NudgesQueries{DB: database.DB}
	cd, err := nq.GetCooldown(senderID, goalID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get cooldown"})
	}

	now := clock.Now()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"can_send":          habit.CanSend(cd.ExpiresAt, now),
		"remaining_minutes": habit.RemainingMinutes(cd.ExpiresAt, now),
		"expires_at":        cd.ExpiresAt,
	})
}

// WsHandler registers the connection for nudge and milestone pushes. The token
// rides in as a query param since websocket clients cannot set headers.
func WsHandler(c *websocket.Conn) {
	token := c.Query("token")
	var userID uuid.UUID
	if token != "" {
		userID, _ = utils.ExtractUserIDFromHeader("Bearer " + token)
	}
	if userID == uuid.Nil {
		c.Close()
		return
	}

	utils.DefaultNotifier.Register(userID, c)
	defer utils.DefaultNotifier.Unregister(userID)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
