package scheduler

import (
	"context"
	"log"
	"time"

	"salescrm-backend/internal/mailbox/usecase"
)

// SyncScheduler triggers the recurring unread-only sync pass. The summary
// is only logged; nobody is waiting on a scheduled pass.
type SyncScheduler struct {
	coordinator *usecase.SyncCoordinator
	interval    time.Duration
	stopChan    chan struct{}
}

// NewSyncScheduler creates a new scheduler
func NewSyncScheduler(coordinator *usecase.SyncCoordinator, interval time.Duration) *SyncScheduler {
	return &SyncScheduler{
		coordinator: coordinator,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start() {
	log.Printf("[Scheduler] Starting mailbox sync scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runPass()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runPass()
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	close(s.stopChan)
}

func (s *SyncScheduler) runPass() {
	summary, err := s.coordinator.RunScheduledPass(context.Background())
	if err != nil {
		log.Printf("[Scheduler] Sync pass failed: %v", err)
		return
	}

	if len(summary.Accounts) == 0 {
		return
	}

	log.Printf("[Scheduler] Sync pass complete: processed=%d skipped=%d accounts=%d", summary.Processed, summary.Skipped, len(summary.Accounts))
	for _, acc := range summary.Accounts {
		if acc.Error != "" {
			log.Printf("[Scheduler] Account %s errored: %s", acc.Email, acc.Error)
		}
	}
}
