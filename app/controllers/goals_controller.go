package controllers

import (
	"log"
	"sort"
	"time"

	"github.com/davedra/peerhabit-backend/app/models"
	"github.com/davedra/peerhabit-backend/app/queries"
	"github.com/davedra/peerhabit-backend/pkg/database"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/davedra/peerhabit-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var clock = habit.SystemClock()

func CreateGoal(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CreateGoalRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Rule != habit.RuleDaily && len(req.TargetDays) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_days required for weekly rules"})
	}

	loc, err := habit.LoadLocation(req.Timezone)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid timezone"})
	}

	now := clock.Now()
	deadline := habit.NextDeadline(req.Rule, habit.Weekdays(req.TargetDays), now, false, loc)
	status := habit.Classify(nil, deadline, now, loc)

	g := &models.Goal{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         req.Title,
		Rule:          req.Rule,
		TargetDays:    req.TargetDays,
		Difficulty:    req.Difficulty,
		Timezone:      req.Timezone,
		NextDeadline:  deadline,
		CurrentStatus: status.Color,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	gq := queries.GoalsQueries{DB: database.DB}
	if err := gq.CreateGoal(g); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create goal"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Goal created", "goal": g, "status": status})
}

func GetGoals(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	gq := queries.GoalsQueries{DB: database.DB}
	goals, err := gq.GetGoalsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get goals"})
	}

	now := clock.Now()
	result := make([]models.GoalWithStatus, 0, len(goals))
	for _, g := range goals {
		loc, locErr := habit.LoadLocation(g.Timezone)
		if locErr != nil {
			log.Printf("event=goal_bad_timezone goal=%s tz=%s", g.ID, g.Timezone)
			loc = time.UTC
		}

		status := habit.Classify(g.LastCompletedAt, g.NextDeadline, now, loc)

		// First observation of an overdue goal stamps red_since for the
		// social shame feed and resets the streak, so the list never shows
		// a live streak on a goal whose deadline already passed.
		if status.Color == habit.ColorRed && now.After(g.NextDeadline) && g.RedSince == nil {
			if err := gq.SetRedSince(g.ID, now); err == nil {
				at := now
				g.RedSince = &at
				sq := queries.StreaksQueries{DB: database.DB, Clock: clock}
				if err := sq.RecordMiss(g.ID); err != nil {
					log.Printf("event=streak_miss_reset_failed goal=%s error=%v", g.ID, err)
				}
			}
		}
		if status.Color != g.CurrentStatus {
			gq.UpdateStatusCache(g.ID, status.Color)
			g.CurrentStatus = status.Color
		}

		result = append(result, models.GoalWithStatus{Goal: g, Status: status})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return habit.Less(result[i].Status, result[j].Status, result[i].Goal.NextDeadline, result[j].Goal.NextDeadline)
	})

	return c.Status(fiber.StatusOK).JSON(result)
}

func GetGoal(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	userID, err := utils.ExtractUserIDFromHeader(authHeader)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid goal id"})
	}

	gq := queries.GoalsQueries{DB: database.DB}
	g, err := gq.GetGoalByID(goalID)
	if err != nil || g.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Goal not found"})
	}

	loc, locErr := habit.LoadLocation(g.Timezone)
	if locErr != nil {
		loc = time.UTC
	}
	now := clock.Now()
	status := habit.Classify(g.LastCompletedAt, g.NextDeadline, now, loc)

	sq := queries.StreaksQueries{DB: database.DB, Clock: clock}
	if status.Color == habit.ColorRed && now.After(g.NextDeadline) && g.RedSince == nil {
		if err := gq.SetRedSince(g.ID, now); err == nil {
			at := now
			g.RedSince = &at
			if err := sq.RecordMiss(g.ID); err != nil {
				log.Printf("event=streak_miss_reset_failed goal=%s error=%v", g.ID, err)
			}
		}
	}

	streak, err := sq.GetStreakByGoal(goalID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": "Failed to get streak"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"goal": g, "status": status, "streak": streak})
}
