package controllers

import (
	"github.com/davedra/peerhabit-backend/app/queries"
	"github.com/davedra/peerhabit-backend/pkg/database"
	"github.com/davedra/peerhabit-backend/pkg/habit"
	"github.com/davedra/peerhabit-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// GetScores computes the caller's full scoreboard: per-habit scores normalized
// within each difficulty tier, recognition levels, and the overall account
// score. Nothing here is persisted; scores are always derived fresh.
func GetScores(c *fiber.Ctx) error {
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

	sq := queries.StreaksQueries{DB: database.DB, Clock: clock}
	cq := queries.CompletionsQueries{DB: database.DB, Clock: clock}

	var scores []habit.Score
	for _, g := range goals {
		streak, err := sq.GetStreakByGoal(g.ID)
		if err != nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{"error": "Failed to get streak"})
		}
		total, err := cq.CountCompletions(g.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count completions"})
		}
		scores = append(scores, habit.ScoreHabit(g.ID, streak.CurrentStreak, streak.BestStreak, total, g.Difficulty))
	}

	normalized := habit.Normalize(scores)
	habits := make([]fiber.Map, 0, len(normalized))
	for _, n := range normalized {
		habits = append(habits, fiber.Map{
			"score":      n.Score,
			"percentile": n.Percentile,
			"rank":       n.Rank,
			"level":      habit.Recognition(n),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"habits":  habits,
		"overall": habit.Overall(scores),
	})
}
