// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the periodic housekeeping jobs: stale
// session sweeping and the leaderboard rebuild.
func StartMaintenanceScheduler(sessions *SessionService, leaderboard *LeaderboardService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 5 minutes: close sessions whose player walked away
	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if _, err := sessions.SweepStale(); err != nil {
				log.Printf("[Scheduler] Session sweep failed: %v", err)
			}
		}),
	)

	// Every 15 minutes: re-derive the redis leaderboard from Postgres
	_, _ = sched.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(func() {
			if err := leaderboard.Rebuild(); err != nil {
				log.Printf("[Scheduler] Leaderboard rebuild failed: %v", err)
			}
		}),
	)
}
