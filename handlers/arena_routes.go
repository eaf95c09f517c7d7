package handlers

import (
	"quietbridge-community/middleware"
	"quietbridge-community/services"

	"github.com/gofiber/fiber/v2"
)

// SetupArenaRoutes wires the Connect Four arena endpoints. Every route
// requires the gateway-forwarded user context.
func SetupArenaRoutes(app *fiber.App, arenaService *services.ArenaService) {
	arena := app.Group("/arena", middleware.UserContextMiddleware())

	arena.Get("/state", arenaService.GetState)
	arena.Post("/lobby/join", arenaService.JoinLobby)
	arena.Post("/lobby/leave", arenaService.LeaveLobby)
	arena.Post("/play", arenaService.PlayColumn)
	arena.Post("/rematch", arenaService.Rematch)
	arena.Post("/requeue", arenaService.Requeue)
}
