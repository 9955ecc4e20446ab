package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

type ReviewInput struct {
	DocumentID int64                 `validate:"required,gt=0"`
	Outcome    entity.DocumentStatus `validate:"required,oneof=Approved Rejected"`
	Note       string                `validate:"max=1000"`
}

// Review approves or rejects a submitted document.
func (s *Usecase) Review(ctx context.Context, in ReviewInput) (*entity.Document, error) {
	ctx, span := s.startSpan(ctx, "Review")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleOfficer, jwt.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Outcome == entity.DocumentStatusRejected && strings.TrimSpace(in.Note) == "" {
		return nil, goerror.NewInvalidInput(nil, "note", "is required when rejecting")
	}

	doc, err := s.visibleDocument(ctx, clm, in.DocumentID)
	if err != nil {
		return nil, err
	}

	from := doc.Status
	next, err := from.Apply(in.Outcome)
	if err != nil {
		return nil, goerror.NewBusiness("Document has already been reviewed", goerror.CodeInvalidState)
	}

	note := strings.TrimSpace(in.Note)
	doc.Status = next
	doc.ReviewerID = &clm.UserID
	doc.UpdatedAt = s.clock.Now()
	if note != "" {
		doc.ReviewNote = &note
	}

	won, err := s.repoDB.ReviewDocument(ctx, doc.ID, from, *doc)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo review document", "document_id", doc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !won {
		slog.WarnContext(ctx, "document reviewed concurrently", "document_id", doc.ID)
		return nil, goerror.NewBusiness("Document has already been reviewed", goerror.CodeInvalidState)
	}

	return doc, nil
}
