package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

type DownloadOutput struct {
	URL       string
	ExpiresAt time.Time
	Document  entity.Document
}

// Download hands out a time limited link to a document's bytes.
func (s *Usecase) Download(ctx context.Context, id int64) (*DownloadOutput, error) {
	ctx, span := s.startSpan(ctx, "Download")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen, jwt.RoleOfficer, jwt.RoleAdmin)
	if err != nil {
		return nil, err
	}

	doc, err := s.visibleDocument(ctx, clm, id)
	if err != nil {
		return nil, err
	}

	ttl := s.downloadTTL()
	url, err := s.store.PresignGet(ctx, doc.ObjectKey, ttl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign document", "document_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DownloadOutput{URL: url, ExpiresAt: s.clock.Now().Add(ttl), Document: *doc}, nil
}

// visibleDocument loads a document the caller may see.
func (s *Usecase) visibleDocument(ctx context.Context, clm *jwt.Claims, id int64) (*entity.Document, error) {
	doc, err := s.repoDB.GetDocument(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "document not found", "document_id", id)
		return nil, goerror.NewBusiness("Document not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get document", "document_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	switch clm.Role {
	case jwt.RoleAdmin:
		return doc, nil
	case jwt.RoleCitizen:
		if doc.CitizenID == clm.UserID {
			return doc, nil
		}
	case jwt.RoleOfficer:
		ok, err := s.repoDB.OfficerServesCitizen(ctx, clm.UserID, doc.CitizenID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo check officer scope", "officer_id", clm.UserID, "document_id", id, "error", err)
			return nil, goerror.NewServer(err)
		}
		if ok {
			return doc, nil
		}
	}

	slog.WarnContext(ctx, "document not visible to caller", "document_id", id, "user_id", clm.UserID, "role", clm.Role)
	return nil, goerror.NewBusiness("You are not allowed to access this document", goerror.CodeForbidden)
}
