// Package jobs runs the background tasks (cron).
// scheduler.go wires the periodic snapshot backup.
package jobs

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/store"
)

// Scheduler manages the background jobs.
type Scheduler struct {
	cron       *cron.Cron
	store      *store.Store
	backupPath string
	cronSpec   string
}

// NewScheduler creates the job scheduler.
func NewScheduler(st *store.Store, backupPath, cronSpec string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		store:      st,
		backupPath: backupPath,
		cronSpec:   cronSpec,
	}
}

// Start registers and starts the background jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		log.Debug("[CRON] Snapshot backup")
		if err := s.store.SaveTo(s.backupPath); err != nil {
			log.WithError(err).Error("[CRON] Backup failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.WithField("spec", s.cronSpec).Info("Job scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}
