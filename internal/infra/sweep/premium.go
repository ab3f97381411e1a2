// Package sweep runs the periodic premium-expiry pass: a pure idempotent
// bulk update that clears boosts whose window has ended.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"gharbazaar/internal/domain/listing"
)

type PremiumSweep struct {
	cron     *cron.Cron
	repo     listing.Repository
	logger   *slog.Logger
	schedule string
}

// New builds a sweep with a cron schedule such as "@every 1h".
func New(repo listing.Repository, schedule string, logger *slog.Logger) *PremiumSweep {
	return &PremiumSweep{
		cron:     cron.New(),
		repo:     repo,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the job and runs one pass immediately so expired boosts do
// not linger until the first tick.
func (s *PremiumSweep) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Run(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	go s.Run(ctx)
	return nil
}

func (s *PremiumSweep) Stop() {
	s.cron.Stop()
}

// Run executes a single expiry pass.
func (s *PremiumSweep) Run(ctx context.Context) {
	cleared, err := s.repo.ExpirePremium(ctx, time.Now())
	if err != nil {
		if s.logger != nil {
			s.logger.Error("premium sweep failed", "error", err)
		}
		return
	}
	if cleared > 0 && s.logger != nil {
		s.logger.Info("premium boosts expired", "count", cleared)
	}
}
