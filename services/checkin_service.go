// services/checkin_service.go
package services

import (
	"log"
	"strings"
	"time"

	"quietbridge-community/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// CheckinService records daily mood check-ins and pays out the streak
// coin bonus through the wallet service.
type CheckinService struct {
	DB      *gorm.DB
	Wallets *WalletService
}

func NewCheckinService(db *gorm.DB, wallets *WalletService) *CheckinService {
	return &CheckinService{DB: db, Wallets: wallets}
}

// CheckIn upserts today's check-in for the user and awards the daily
// streak coins at most once per day.
func (s *CheckinService) CheckIn(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Mood string `json:"mood" validate:"required"`
		Note string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if strings.TrimSpace(req.Mood) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mood is required"})
	}

	checkin := models.Checkin{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   time.Now().Format(dateLayout),
		Mood:   strings.TrimSpace(req.Mood),
		Note:   req.Note,
	}

	// One row per user per day; a second check-in updates the mood.
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"mood", "note", "updated_at"}),
	}).Create(&checkin).Error; err != nil {
		log.Printf("DB Error upserting checkin for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save check-in"})
	}

	streak, err := s.streakEndingToday(userID)
	if err != nil {
		log.Printf("DB Error computing streak for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute streak"})
	}

	earned, err := s.Wallets.AwardDailyCoins(userID, streak)
	if err != nil {
		// Check-in itself succeeded; report the award failure without
		// failing the request.
		log.Printf("DB Error awarding daily coins for %s: %v", userID, err)
		earned = 0
	}

	return c.JSON(fiber.Map{
		"checkin":      checkin,
		"streak":       streak,
		"coins_earned": earned,
	})
}

// GetStreak returns the user's current streak length.
func (s *CheckinService) GetStreak(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	streak, err := s.streakEndingToday(userID)
	if err != nil {
		log.Printf("DB Error computing streak for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute streak"})
	}
	return c.JSON(fiber.Map{"streak": streak})
}

// GetHistory lists the user's recent check-ins, newest first.
func (s *CheckinService) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	limit := c.QueryInt("limit", 30)
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	var checkins []models.Checkin
	if err := s.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&checkins).Error; err != nil {
		log.Printf("DB Error fetching checkins for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch check-ins"})
	}
	return c.JSON(checkins)
}

// streakEndingToday counts consecutive checked-in days walking back
// from today. No check-in today means streak 0.
func (s *CheckinService) streakEndingToday(userID string) (int, error) {
	var dates []string
	if err := s.DB.Model(&models.Checkin{}).
		Where("user_id = ?", userID).
		Pluck("date", &dates).Error; err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		seen[d] = true
	}

	streak := 0
	day := time.Now()
	for seen[day.Format(dateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}
