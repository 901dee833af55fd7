package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/redinteligente/authcode/internal/pkg/goerror"
)

// CleanupExpired purges access codes whose expiry has passed at the moment of
// the sweep's read. Overlapping sweeps are suppressed; records still inside
// their validity window are never touched.
func (s *Usecase) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "CleanupExpired")
	defer span.End()

	if !s.sweeping.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "previous cleanup sweep still running, skipping")
		return 0, nil
	}
	defer s.sweeping.Store(false)

	includeUsed := s.cfg.GetBool("modules.auth.cleanup_include_used")

	deleted, err := s.repoDB.DeleteExpired(ctx, s.clock.Now(), includeUsed)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired access codes", "error", err)
		return 0, goerror.NewServer(err)
	}

	if deleted > 0 {
		s.sweptTotal.Add(deleted)
		slog.InfoContext(ctx, "purged expired access codes",
			"deleted", deleted, "total_since_start", s.sweptTotal.Load(), "include_used", includeUsed)
	}

	return deleted, nil
}

// RunSweeper blocks, running CleanupExpired on the configured interval until
// the context is canceled.
func (s *Usecase) RunSweeper(ctx context.Context) error {
	interval := s.cfg.GetMinute("modules.auth.cleanup_interval_minutes")
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "cleanup sweeper started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "cleanup sweeper stopped")
			return nil
		case <-ticker.C:
			if _, err := s.CleanupExpired(ctx); err != nil {
				slog.ErrorContext(ctx, "cleanup sweep failed", "error", err)
			}
		}
	}
}
