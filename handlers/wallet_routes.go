package handlers

import (
	"quietbridge-community/middleware"
	"quietbridge-community/services"

	"github.com/gofiber/fiber/v2"
)

// SetupWalletRoutes wires the wallet read endpoints.
func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService) {
	secured := app.Group("/wallet", middleware.UserContextMiddleware())

	secured.Get("/", walletService.GetWallet)
	secured.Get("/leaderboard", walletService.GetTrophyLeaderboard)
}
