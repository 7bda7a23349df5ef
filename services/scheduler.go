// services/scheduler.go
package services

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

// StartExpiryScheduler runs the premium expiry sweep once a day at 09:00.
// The sweep is a convenience pass over all users; premium reads self-heal
// on their own, so a missed run never extends anyone's entitlement.
func (s *PaymentService) StartExpiryScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Scheduler] init failed: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(func() {
			count, err := s.RunExpirySweep()
			if err != nil {
				log.Printf("[Scheduler] premium expiry sweep failed: %v", err)
				return
			}
			log.Printf("✅ Premium expiry sweep done (%d downgraded)", count)
		}),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to schedule expiry sweep: %v", err)
	}
}
