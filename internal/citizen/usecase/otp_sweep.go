package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

// SweepExpiredOTP marks every pending code past its expiry as Expired.
func (s *Usecase) SweepExpiredOTP(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "SweepExpiredOTP")
	defer span.End()

	n, err := s.repoDB.ExpirePendingOTP(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo expire pending otp", "error", err)
		return 0, goerror.NewServer(err)
	}

	if n > 0 && s.otpSwept != nil {
		s.otpSwept.Add(ctx, n)
	}
	return n, nil
}

// RunSweeper calls SweepExpiredOTP every interval until ctx is done.
func (s *Usecase) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "otp sweeper started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "otp sweeper stopped")
			return nil
		case <-ticker.C:
			n, err := s.SweepExpiredOTP(ctx)
			if err != nil {
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "otp sweeper expired pending codes", "count", n)
			}
		}
	}
}
