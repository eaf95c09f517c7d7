package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateStarterWallet(t *testing.T) {
	s := NewWalletService(newTestDB(t))

	w, err := s.GetOrCreate("alice")
	require.NoError(t, err)
	require.Equal(t, 12, w.Coins)
	require.Equal(t, 0, w.Reputation)
	require.Equal(t, 0, w.Trophies)

	// Second access returns the same wallet, not another starter.
	require.NoError(t, s.AddReputation("alice", 5))
	again, err := s.GetOrCreate("alice")
	require.NoError(t, err)
	require.Equal(t, w.ID, again.ID)
	require.Equal(t, 5, again.Reputation)
}

func TestAwardOutcome(t *testing.T) {
	s := NewWalletService(newTestDB(t))

	s.AwardOutcome("winner", "loser")

	w, err := s.GetOrCreate("winner")
	require.NoError(t, err)
	require.Equal(t, TrophiesWin, w.Trophies)

	l, err := s.GetOrCreate("loser")
	require.NoError(t, err)
	require.Equal(t, 0, l.Trophies, "trophies never go negative")

	// A second decided game stacks on top.
	s.AwardOutcome("winner", "loser")
	w, err = s.GetOrCreate("winner")
	require.NoError(t, err)
	require.Equal(t, 2*TrophiesWin, w.Trophies)
}

func TestAwardOutcomeFloorsLoser(t *testing.T) {
	s := NewWalletService(newTestDB(t))

	// Build the loser up first so the deduction actually lands.
	for i := 0; i < 2; i++ {
		s.AwardOutcome("rich", "other")
	}
	s.AwardOutcome("other", "rich")

	rich, err := s.GetOrCreate("rich")
	require.NoError(t, err)
	require.Equal(t, 2*TrophiesWin-TrophiesLoss, rich.Trophies)
}

func TestSpend(t *testing.T) {
	s := NewWalletService(newTestDB(t))

	ok, err := s.Spend("bob", 10)
	require.NoError(t, err)
	require.True(t, ok)

	w, err := s.GetOrCreate("bob")
	require.NoError(t, err)
	require.Equal(t, 2, w.Coins)

	// Insufficient balance deducts nothing.
	ok, err = s.Spend("bob", 10)
	require.NoError(t, err)
	require.False(t, ok)

	w, err = s.GetOrCreate("bob")
	require.NoError(t, err)
	require.Equal(t, 2, w.Coins)
}

func TestCoinsForStreak(t *testing.T) {
	require.Equal(t, 1, coinsForStreak(1))
	require.Equal(t, 1, coinsForStreak(2))
	require.Equal(t, 2, coinsForStreak(3))
	require.Equal(t, 2, coinsForStreak(4))
	require.Equal(t, 3, coinsForStreak(5))
	require.Equal(t, 3, coinsForStreak(30))
}

func TestAwardDailyCoinsOncePerDay(t *testing.T) {
	s := NewWalletService(newTestDB(t))

	earned, err := s.AwardDailyCoins("carol", 5)
	require.NoError(t, err)
	require.Equal(t, 3, earned)

	w, err := s.GetOrCreate("carol")
	require.NoError(t, err)
	require.Equal(t, 15, w.Coins)
	require.Equal(t, time.Now().Format("2006-01-02"), w.LastAwardDate)

	// Same day, nothing more.
	earned, err = s.AwardDailyCoins("carol", 6)
	require.NoError(t, err)
	require.Zero(t, earned)

	w, err = s.GetOrCreate("carol")
	require.NoError(t, err)
	require.Equal(t, 15, w.Coins)
}

func TestAwardDailyCoinsNoStreak(t *testing.T) {
	s := NewWalletService(newTestDB(t))

	earned, err := s.AwardDailyCoins("dave", 0)
	require.NoError(t, err)
	require.Zero(t, earned)

	w, err := s.GetOrCreate("dave")
	require.NoError(t, err)
	require.Equal(t, 12, w.Coins)
	require.Empty(t, w.LastAwardDate)
}
