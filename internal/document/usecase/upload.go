package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
)

const sniffLen = 512

type UploadInput struct {
	Kind          string `validate:"required,max=64"`
	AppointmentID int64  `validate:"gte=0"`
	Filename      string `validate:"required,max=255"`
	Size          int64  `validate:"gt=0"`
	Body          io.Reader
}

// Upload stores a citizen document and records it as Submitted. The content
// type is taken from the file bytes, not from the client.
func (s *Usecase) Upload(ctx context.Context, in UploadInput) (*entity.Document, error) {
	ctx, span := s.startSpan(ctx, "Upload")
	defer span.End()

	clm, err := caller(ctx, jwt.RoleCitizen)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Size > s.maxSize() {
		return nil, goerror.NewInvalidInput(nil, "file", "must not exceed "+strconv.FormatInt(s.maxSize(), 10)+" bytes")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		slog.ErrorContext(ctx, "failed to read upload", "citizen_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	head = head[:n]

	contentType, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	if !s.allowedType(contentType) {
		slog.WarnContext(ctx, "upload content type rejected", "citizen_id", clm.UserID, "content_type", contentType)
		return nil, goerror.NewInvalidInput(nil, "file", "file type "+contentType+" is not accepted")
	}

	if in.AppointmentID != 0 {
		owner, err := s.repoDB.AppointmentOwner(ctx, in.AppointmentID)
		if errors.Is(err, goerror.ErrNotFound) || (err == nil && owner != clm.UserID) {
			return nil, goerror.NewBusiness("Appointment not found", goerror.CodeNotFound)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get appointment owner", "appointment_id", in.AppointmentID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	now := s.clock.Now()
	doc := entity.Document{
		ID:          s.uid.Generate(),
		CitizenID:   clm.UserID,
		Kind:        strings.TrimSpace(in.Kind),
		Filename:    filepath.Base(in.Filename),
		ContentType: contentType,
		SizeBytes:   in.Size,
		ObjectKey:   "documents/" + strconv.FormatInt(clm.UserID, 10) + "/" + s.keys.Generate(),
		Status:      entity.DocumentStatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.AppointmentID != 0 {
		doc.AppointmentID = &in.AppointmentID
	}

	body := io.MultiReader(bytes.NewReader(head), in.Body)
	if err := s.store.Put(ctx, doc.ObjectKey, body, doc.SizeBytes, doc.ContentType); err != nil {
		slog.ErrorContext(ctx, "failed to store document object", "object_key", doc.ObjectKey, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateDocument(ctx, doc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create document", "object_key", doc.ObjectKey, "error", err)
		if delErr := s.store.Delete(context.WithoutCancel(ctx), doc.ObjectKey); delErr != nil {
			slog.WarnContext(ctx, "failed to delete orphan document object", "object_key", doc.ObjectKey, "error", delErr)
		}
		return nil, goerror.NewServer(err)
	}

	return &doc, nil
}
