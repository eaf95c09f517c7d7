package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's virtual currency and standing. Created lazily
// on first access with the starter balance.
type Wallet struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	Coins      int `json:"coins" gorm:"default:12"`
	Reputation int `json:"reputation" gorm:"default:0"`
	Trophies   int `json:"trophies" gorm:"default:0"`

	// LastAwardDate guards the once-per-day streak coin award
	// (YYYY-MM-DD).
	LastAwardDate string `json:"last_award_date" gorm:"type:varchar(10)"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
