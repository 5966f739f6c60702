// Optional periodic execution. Each tick builds a fresh run so the
// fingerprint and day roll over naturally.

package schedule

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron around a run function.
type Scheduler struct {
	cron *cron.Cron
	spec string
	job  func()
}

// New creates a Scheduler with a cron spec like "@every 6h" or "@daily".
func New(spec string, job func()) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		spec: spec,
		job:  job,
	}
}

// Start registers the job and starts the scheduler, running one cycle
// immediately so the day's files exist without waiting for the first tick.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.job)
	if err != nil {
		return fmt.Errorf("schedule: cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("⏰ Scheduler started — spec: %s", s.spec)

	go s.job()
	return nil
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Scheduler stopped")
}
