package models

import "time"

// MatchRecord archives one settled arena game. The live game lives in
// the in-memory registry; records are appended here by the archiver
// worker and never updated — a rematch produces a new row under the
// same MatchID.
type MatchRecord struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID string `gorm:"index;not null" json:"match_id"`

	// Game outcome
	WinnerID string `gorm:"index" json:"winner_id,omitempty"` // empty for draws
	LoserID  string `json:"loser_id,omitempty"`
	Result   string `json:"result" gorm:"type:varchar(16);check:result IN ('win','draw')"`
	Forfeit  bool   `json:"forfeit" gorm:"default:false"`
	Moves    int    `json:"moves" gorm:"default:0"`

	FinishedAt time.Time `json:"finished_at"`

	Timestamps
}
