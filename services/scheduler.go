// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartExpiryScheduler runs the background expiry sweep on its configured
// period. Sweep errors are logged and the schedule keeps running.
func (s *PostStore) StartExpiryScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(s.cfg.SweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			removed, err := s.SweepExpired(ctx)
			if err != nil {
				log.Printf("[Sweeper] sweep error: %v", err)
				return
			}
			if removed > 0 {
				log.Printf("✅ [Sweeper] removed %d expired taken post(s)", removed)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return sched, nil
}
