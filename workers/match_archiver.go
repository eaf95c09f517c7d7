package workers

import (
	"context"
	"log"
	"time"

	"quietbridge-community/game"
	"quietbridge-community/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchiveOutcomes drains settled game outcomes from the registry and
// appends them to the match_records table. Archiving is best effort:
// a failed batch is requeued and retried on the next tick, and a
// crash between settle and drain loses at most the queued window.
func ArchiveOutcomes(ctx context.Context, db *gorm.DB, registry *game.Registry, interval time.Duration) {
	log.Println("Starting match outcome archiver...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Match outcome archiver stopped.")
			return
		case <-ticker.C:
			outcomes := registry.DrainOutcomes()
			if len(outcomes) == 0 {
				continue
			}

			records := make([]models.MatchRecord, 0, len(outcomes))
			for _, o := range outcomes {
				result := "win"
				if o.Draw {
					result = "draw"
				}
				records = append(records, models.MatchRecord{
					ID:         uuid.NewString(),
					MatchID:    o.MatchID,
					WinnerID:   o.Winner,
					LoserID:    o.Loser,
					Result:     result,
					Forfeit:    o.Forfeit,
					Moves:      o.Moves,
					FinishedAt: o.FinishedAt,
				})
			}

			if err := db.Create(&records).Error; err != nil {
				log.Printf("❌ Failed to archive %d match outcome(s): %v", len(records), err)
				// Put the batch back — retry same window next tick.
				registry.RequeueOutcomes(outcomes)
				continue
			}
			log.Printf("✅ Archived %d match outcome(s).", len(records))
		}
	}
}
