package services

import (
	"testing"
	"time"

	"quietbridge-community/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCheckin(t *testing.T, db *gorm.DB, userID string, daysAgo int) {
	t.Helper()
	row := models.Checkin{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   time.Now().AddDate(0, 0, -daysAgo).Format(dateLayout),
		Mood:   "calm",
	}
	require.NoError(t, db.Create(&row).Error)
}

func TestStreakEndingToday(t *testing.T) {
	db := newTestDB(t)
	s := NewCheckinService(db, NewWalletService(db))

	// No check-ins at all.
	streak, err := s.streakEndingToday("eve")
	require.NoError(t, err)
	require.Zero(t, streak)

	// Three consecutive days ending today.
	for daysAgo := 0; daysAgo < 3; daysAgo++ {
		seedCheckin(t, db, "eve", daysAgo)
	}
	streak, err = s.streakEndingToday("eve")
	require.NoError(t, err)
	require.Equal(t, 3, streak)

	// A gap further back does not extend the streak.
	seedCheckin(t, db, "eve", 5)
	streak, err = s.streakEndingToday("eve")
	require.NoError(t, err)
	require.Equal(t, 3, streak)
}

func TestStreakBrokenWithoutToday(t *testing.T) {
	db := newTestDB(t)
	s := NewCheckinService(db, NewWalletService(db))

	seedCheckin(t, db, "frank", 1)
	seedCheckin(t, db, "frank", 2)

	streak, err := s.streakEndingToday("frank")
	require.NoError(t, err)
	require.Zero(t, streak, "yesterday's run does not count until today's check-in")
}

func TestStreakIsPerUser(t *testing.T) {
	db := newTestDB(t)
	s := NewCheckinService(db, NewWalletService(db))

	seedCheckin(t, db, "grace", 0)
	seedCheckin(t, db, "heidi", 0)
	seedCheckin(t, db, "heidi", 1)

	streak, err := s.streakEndingToday("grace")
	require.NoError(t, err)
	require.Equal(t, 1, streak)

	streak, err = s.streakEndingToday("heidi")
	require.NoError(t, err)
	require.Equal(t, 2, streak)
}
