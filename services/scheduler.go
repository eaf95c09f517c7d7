// services/scheduler.go
package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartForfeitScheduler runs the AFK sweep on a fixed tick so idle
// games forfeit even when neither player is polling. The 2-second
// period matches the client's own refresh cadence.
func (s *ArenaService) StartForfeitScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(2*time.Second),
		gocron.NewTask(func() {
			s.Registry.SweepForfeits()
			s.settlePending()
		}),
	)
}
