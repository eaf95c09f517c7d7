package models

// Checkin records one mood check-in per user per day. Date is a
// YYYY-MM-DD string so streaks can be walked without timezone math on
// stored timestamps.
type Checkin struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_checkin_user_date" json:"user_id"`
	Date   string `gorm:"type:varchar(10);not null;uniqueIndex:idx_checkin_user_date" json:"date"`

	// Mood is the user's chosen mood word; the taxonomy lives in the
	// presentation layer, the word is stored opaque here.
	Mood string `gorm:"type:varchar(64)" json:"mood"`
	Note string `json:"note"`

	Timestamps
}
