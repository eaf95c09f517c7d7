package handlers

import (
	"quietbridge-community/middleware"
	"quietbridge-community/services"

	"github.com/gofiber/fiber/v2"
)

// SetupCommunityRoutes wires the chatroom, the question board and the
// daily mood check-ins.
func SetupCommunityRoutes(app *fiber.App, communityService *services.CommunityService, checkinService *services.CheckinService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/chat", communityService.ListChatMessages)
	secured.Post("/chat", communityService.PostChatMessage)

	secured.Get("/board", communityService.ListPosts)
	secured.Post("/board", communityService.CreatePost)
	secured.Get("/board/:id/replies", communityService.ListReplies)
	secured.Post("/board/:id/replies", communityService.CreateReply)

	secured.Post("/checkins", checkinService.CheckIn)
	secured.Get("/checkins", checkinService.GetHistory)
	secured.Get("/checkins/streak", checkinService.GetStreak)
}
