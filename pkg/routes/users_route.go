package routes

import (
	"github.com/davedra/peerhabit-backend/app/controllers"
	"github.com/davedra/peerhabit-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterUserRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/signup", controllers.UserSignUp)
	auth.Post("/signin", controllers.UserSignIn)

	user := app.Group("/users", middleware.JWTProtected())
	user.Get("/me", controllers.UserProfile)
}
