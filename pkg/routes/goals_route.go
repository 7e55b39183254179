package routes

import (
	"github.com/davedra/peerhabit-backend/app/controllers"
	"github.com/davedra/peerhabit-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterGoalsRoutes(app *fiber.App) {
	goal := app.Group("/goals", middleware.JWTProtected())
	goal.Post("/create", controllers.CreateGoal)
	goal.Get("/", controllers.GetGoals)
	goal.Get("/scores", controllers.GetScores)
	goal.Post("/complete", controllers.CompleteGoal)
	goal.Post("/uncomplete", controllers.UncompleteGoal)
	goal.Get("/completions", controllers.GetCompletions)
	goal.Post("/milestones/celebrate", controllers.CelebrateMilestone)
	goal.Get("/:id", controllers.GetGoal)
}
