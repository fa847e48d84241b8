// Package maintenance runs background housekeeping for the API server.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tablero-app/planner-backend/internal/storage/postgres"
)

// How long a soft-deleted document is kept before it is purged for good.
const retentionWindow = 30 * 24 * time.Hour

type Scheduler struct {
	store *postgres.RetentionStore
	cron  *cron.Cron
}

func NewScheduler(store *postgres.RetentionStore) *Scheduler {
	return &Scheduler{store: store}
}

// Start schedules the nightly purge (12:00 AM).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.RunPurge(context.Background())
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (purging deleted documents nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunPurge removes documents soft-deleted longer ago than the retention
// window.
func (s *Scheduler) RunPurge(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionWindow)

	n, err := s.store.PurgeDeleted(ctx, cutoff)
	if err != nil {
		log.Printf("Purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Purged %d deleted documents older than %s", n, cutoff.Format(time.RFC3339))
	}
}
