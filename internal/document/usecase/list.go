package usecase

import (
	"context"
	"log/slog"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

func (s *Usecase) ListMine(ctx context.Context) ([]entity.Document, error) {
	ctx, span := s.startSpan(ctx, "ListMine")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen)
	if err != nil {
		return nil, err
	}

	list, err := s.repoDB.ListDocumentsByCitizen(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list documents", "citizen_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return list, nil
}
