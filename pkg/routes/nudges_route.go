package routes

import (
	"github.com/davedra/peerhabit-backend/app/controllers"
	"github.com/davedra/peerhabit-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterNudgesRoutes(app *fiber.App) {
	nudge := app.Group("/nudges", middleware.JWTProtected())
	nudge.Post("/send", controllers.SendNudge)
	nudge.Get("/cooldown", controllers.GetNudgeCooldown)

	// Websocket auth rides on a token query param, not the JWT middleware.
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		controllers.WsHandler(c)
	}))
}
