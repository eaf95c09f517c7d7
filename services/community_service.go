// services/community_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"quietbridge-community/models"
	"quietbridge-community/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Coin costs and rewards for the community query board.
const (
	PostCost        = 10
	ReplyCost       = 2
	ReplyReputation = 1

	chatPageSize = 20
)

// CommunityService covers the shared chatroom and the anonymous
// question board. Posting and replying spend coins; replies earn
// reputation.
type CommunityService struct {
	DB      *gorm.DB
	Wallets *WalletService
}

func NewCommunityService(db *gorm.DB, wallets *WalletService) *CommunityService {
	return &CommunityService{DB: db, Wallets: wallets}
}

// --- Chat ---

// PostChatMessage appends a message to the shared chatroom.
func (s *CommunityService) PostChatMessage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Body string `json:"body" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message body is required"})
	}

	msg := models.ChatMessage{
		ID:     uuid.NewString(),
		UserID: userID,
		Body:   body,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		log.Printf("DB Error creating chat message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to post message"})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// ListChatMessages returns the latest messages, oldest first, with
// display names attached.
func (s *CommunityService) ListChatMessages(c *fiber.Ctx) error {
	var messages []models.ChatMessage
	if err := s.DB.Order("created_at DESC").Limit(chatPageSize).Find(&messages).Error; err != nil {
		log.Printf("DB Error fetching chat messages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	// Reverse into chronological order for rendering.
	out := make([]fiber.Map, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		out = append(out, fiber.Map{
			"id":           m.ID,
			"display_name": utils.DisplayName(m.UserID),
			"body":         m.Body,
			"created_at":   m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"messages": out})
}

// --- Question board ---

// CreatePost publishes a question to the board. Costs PostCost coins.
func (s *CommunityService) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Title     string `json:"title" validate:"required"`
		Body      string `json:"body" validate:"required"`
		Anonymous *bool  `json:"anonymous"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and body are required"})
	}

	ok, err := s.Wallets.Spend(userID, PostCost)
	if err != nil {
		log.Printf("DB Error spending coins for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to charge coins"})
	}
	if !ok {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": fmt.Sprintf("not enough coins, posting costs %d", PostCost),
		})
	}

	anonymous := true
	if req.Anonymous != nil {
		anonymous = *req.Anonymous
	}

	post := models.BoardPost{
		ID:        uuid.NewString(),
		Slug:      slug.Make(req.Title) + "-" + uuid.NewString()[:8],
		AuthorID:  userID,
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		Anonymous: anonymous,
	}
	if err := s.DB.Create(&post).Error; err != nil {
		log.Printf("DB Error creating board post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create post"})
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListPosts returns board posts, newest first. Anonymous authors stay
// hidden.
func (s *CommunityService) ListPosts(c *fiber.Ctx) error {
	var posts []models.BoardPost
	if err := s.DB.Order("created_at DESC").Limit(50).Find(&posts).Error; err != nil {
		log.Printf("DB Error fetching board posts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch posts"})
	}

	out := make([]fiber.Map, 0, len(posts))
	for _, p := range posts {
		var replyCount int64
		s.DB.Model(&models.BoardReply{}).Where("post_id = ?", p.ID).Count(&replyCount)

		entry := fiber.Map{
			"id":          p.ID,
			"slug":        p.Slug,
			"title":       p.Title,
			"body":        p.Body,
			"anonymous":   p.Anonymous,
			"reply_count": replyCount,
			"created_at":  p.CreatedAt,
		}
		if !p.Anonymous {
			entry["display_name"] = utils.DisplayName(p.AuthorID)
		}
		out = append(out, entry)
	}
	return c.JSON(fiber.Map{"posts": out})
}

// CreateReply adds a reply to a post. Costs ReplyCost coins and earns
// the replier ReplyReputation.
func (s *CommunityService) CreateReply(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	postID := c.Params("id")

	var req struct {
		Body string `json:"body" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reply body is required"})
	}

	var post models.BoardPost
	if err := s.DB.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
		}
		log.Printf("DB Error fetching post %s: %v", postID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	ok, err := s.Wallets.Spend(userID, ReplyCost)
	if err != nil {
		log.Printf("DB Error spending coins for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to charge coins"})
	}
	if !ok {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": fmt.Sprintf("not enough coins, replying costs %d", ReplyCost),
		})
	}

	reply := models.BoardReply{
		ID:       uuid.NewString(),
		PostID:   post.ID,
		AuthorID: userID,
		Body:     req.Body,
	}
	if err := s.DB.Create(&reply).Error; err != nil {
		log.Printf("DB Error creating reply: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reply"})
	}

	if err := s.Wallets.AddReputation(userID, ReplyReputation); err != nil {
		log.Printf("DB Error adding reputation for %s: %v", userID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// ListReplies returns a post's replies, oldest first.
func (s *CommunityService) ListReplies(c *fiber.Ctx) error {
	postID := c.Params("id")

	var replies []models.BoardReply
	if err := s.DB.Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(50).
		Find(&replies).Error; err != nil {
		log.Printf("DB Error fetching replies for %s: %v", postID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch replies"})
	}

	out := make([]fiber.Map, 0, len(replies))
	for _, r := range replies {
		out = append(out, fiber.Map{
			"id":           r.ID,
			"display_name": utils.DisplayName(r.AuthorID),
			"body":         r.Body,
			"created_at":   r.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"replies": out})
}
