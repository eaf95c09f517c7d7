// services/wallet_service.go
package services

import (
	"errors"
	"log"
	"time"

	"quietbridge-community/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trophy settlement amounts for a decided arena game.
const (
	TrophiesWin  = 10
	TrophiesLoss = 4
)

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// GetOrCreate fetches the user's wallet, creating it with the starter
// balance (12 coins, 0 reputation, 0 trophies) on first access.
func (s *WalletService) GetOrCreate(userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{
		ID:     uuid.NewString(),
		UserID: userID,
		Coins:  12,
	}
	if err := s.DB.Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// AwardOutcome applies the trophy settlement for a decided game:
// winner +10, loser -4 floored at zero. Each wallet is persisted right
// after its mutation; a failed save is logged and NOT rolled back —
// durability here is best effort.
func (s *WalletService) AwardOutcome(winner, loser string) {
	w, err := s.GetOrCreate(winner)
	if err != nil {
		log.Printf("[WALLET] failed to load winner wallet %s: %v", winner, err)
		return
	}
	l, err := s.GetOrCreate(loser)
	if err != nil {
		log.Printf("[WALLET] failed to load loser wallet %s: %v", loser, err)
		return
	}

	w.Trophies += TrophiesWin
	if err := s.DB.Save(w).Error; err != nil {
		log.Printf("[WALLET] failed to persist trophies for %s: %v", winner, err)
	}

	l.Trophies -= TrophiesLoss
	if l.Trophies < 0 {
		l.Trophies = 0
	}
	if err := s.DB.Save(l).Error; err != nil {
		log.Printf("[WALLET] failed to persist trophies for %s: %v", loser, err)
	}
}

// Spend deducts cost coins from the user's wallet. Returns false with
// no deduction when the balance is insufficient.
func (s *WalletService) Spend(userID string, cost int) (bool, error) {
	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		return false, err
	}
	if wallet.Coins < cost {
		return false, nil
	}
	wallet.Coins -= cost
	if err := s.DB.Save(wallet).Error; err != nil {
		return false, err
	}
	return true, nil
}

// AddReputation credits reputation points.
func (s *WalletService) AddReputation(userID string, points int) error {
	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		return err
	}
	wallet.Reputation += points
	return s.DB.Save(wallet).Error
}

// AwardDailyCoins grants the streak coin bonus at most once per
// calendar day. Returns the coins awarded, 0 when already awarded
// today or the streak is empty.
func (s *WalletService) AwardDailyCoins(userID string, streak int) (int, error) {
	if streak <= 0 {
		return 0, nil
	}
	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		return 0, err
	}
	today := time.Now().Format("2006-01-02")
	if wallet.LastAwardDate == today {
		return 0, nil
	}

	earned := coinsForStreak(streak)
	wallet.Coins += earned
	wallet.LastAwardDate = today
	if err := s.DB.Save(wallet).Error; err != nil {
		return 0, err
	}
	return earned, nil
}

// 1 day -> 1 coin, 3+ -> 2 coins, 5+ -> 3 coins
func coinsForStreak(streak int) int {
	if streak >= 5 {
		return 3
	}
	if streak >= 3 {
		return 2
	}
	return 1
}

// --- Handlers ---

// GetWallet returns the authenticated user's wallet.
func (s *WalletService) GetWallet(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		log.Printf("DB Error fetching wallet for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch wallet"})
	}
	return c.JSON(wallet)
}

// GetTrophyLeaderboard returns the top wallets by trophy count.
func (s *WalletService) GetTrophyLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var wallets []models.Wallet
	if err := s.DB.Order("trophies DESC").Limit(limit).Find(&wallets).Error; err != nil {
		log.Printf("DB Error fetching leaderboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	entries := make([]fiber.Map, 0, len(wallets))
	for i, w := range wallets {
		entries = append(entries, fiber.Map{
			"rank":     i + 1,
			"user_id":  w.UserID,
			"trophies": w.Trophies,
		})
	}
	return c.JSON(fiber.Map{"leaderboard": entries, "count": len(entries)})
}
