package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chensoul/interview-guide/internal/session"
	"github.com/chensoul/interview-guide/internal/store"
)

// SessionReaperJob completes interview sessions that sat idle past the
// cutoff, so an abandoned interview does not block its resume forever.
type SessionReaperJob struct {
	sessions *session.Manager
	store    store.SessionStore
	config   *ReaperConfig
	cron     *cron.Cron
}

// ReaperConfig contains configuration for the reaper job
type ReaperConfig struct {
	Schedule string        // Cron schedule (e.g., "*/30 * * * *" for every 30 minutes)
	MaxIdle  time.Duration // How long a session may sit untouched before it is completed
	Enabled  bool          // Whether to run the reaper
}

// NewSessionReaperJob creates a new reaper job
func NewSessionReaperJob(sessions *session.Manager, sessionStore store.SessionStore, config *ReaperConfig) *SessionReaperJob {
	return &SessionReaperJob{
		sessions: sessions,
		store:    sessionStore,
		config:   config,
		cron:     cron.New(),
	}
}

// Start begins the scheduled reaper
func (srj *SessionReaperJob) Start() error {
	if !srj.config.Enabled {
		log.Println("Session reaper is disabled, skipping scheduler")
		return nil
	}

	log.Printf("Starting session reaper with schedule: %s", srj.config.Schedule)

	_, err := srj.cron.AddFunc(srj.config.Schedule, func() {
		if err := srj.RunSweep(); err != nil {
			log.Printf("Reaper sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reaper job: %w", err)
	}

	srj.cron.Start()
	log.Println("Session reaper started successfully")

	return nil
}

// Stop stops the scheduled reaper
func (srj *SessionReaperJob) Stop() {
	if srj.cron != nil {
		srj.cron.Stop()
		log.Println("Session reaper stopped")
	}
}

// RunSweep performs a single sweep over idle sessions. Completion goes
// through the manager, so reaped sessions get reports, events and index
// cleanup like any other completion.
func (srj *SessionReaperJob) RunSweep() error {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-srj.config.MaxIdle)

	idle, err := srj.store.ListIdleUnfinished(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list idle sessions: %w", err)
	}

	if len(idle) == 0 {
		return nil
	}

	log.Printf("Found %d idle sessions to complete", len(idle))

	completed := 0
	for _, sess := range idle {
		if _, err := srj.sessions.CompleteInterview(ctx, sess.ID); err != nil {
			log.Printf("Failed to complete idle session %s: %v", sess.ID, err)
			continue
		}
		completed++
	}

	log.Printf("Reaper completed %d of %d idle sessions", completed, len(idle))
	return nil
}

// RunManual runs a sweep manually (for testing or on-demand cleanup)
func (srj *SessionReaperJob) RunManual() error {
	return srj.RunSweep()
}
