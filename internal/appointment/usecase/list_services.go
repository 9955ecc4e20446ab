package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

// ListServices returns the enabled service catalogue. The cache is read
// through; any cache failure falls back to the database.
func (s *Usecase) ListServices(ctx context.Context) ([]entity.Service, error) {
	ctx, span := s.startSpan(ctx, "ListServices")
	defer span.End()

	if s.repoCache != nil {
		cached, err := s.repoCache.GetServices(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to cache get services", "error", err)
		}
	}

	list, err := s.repoDB.ListEnabledServices(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list services", "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.repoCache != nil {
		if err := s.repoCache.SetServices(ctx, list, s.serviceCacheTTL()); err != nil {
			slog.WarnContext(ctx, "failed to cache set services", "error", err)
		}
	}

	return list, nil
}
