package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return goerror.ErrConflict
		case "23503":
			return goerror.ErrNotFound
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("document.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

const documentColumns = `id, citizen_id, appointment_id, kind, filename, content_type, size_bytes, object_key,
	status, review_note, reviewer_id, created_at, updated_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	if err := row.Scan(&d.ID, &d.CitizenID, &d.AppointmentID, &d.Kind, &d.Filename, &d.ContentType, &d.SizeBytes, &d.ObjectKey,
		&d.Status, &d.ReviewNote, &d.ReviewerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DB) CreateDocument(ctx context.Context, d entity.Document) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDocument")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO documents (id, citizen_id, appointment_id, kind, filename, content_type, size_bytes, object_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.CitizenID, d.AppointmentID, d.Kind, d.Filename, d.ContentType, d.SizeBytes, d.ObjectKey, d.Status, d.CreatedAt, d.UpdatedAt)
	return s.mapError(err)
}

func (s *DB) GetDocument(ctx context.Context, id int64) (_ *entity.Document, err error) {
	ctx, span := s.startSpan(ctx, "GetDocument")
	defer func() { s.endSpan(span, err) }()

	d, err := scanDocument(s.conn.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return d, nil
}

func (s *DB) ListDocumentsByCitizen(ctx context.Context, citizenID int64) (_ []entity.Document, err error) {
	ctx, span := s.startSpan(ctx, "ListDocumentsByCitizen")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `SELECT `+documentColumns+` FROM documents
		WHERE citizen_id = $1 ORDER BY created_at DESC, id DESC`, citizenID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, s.mapError(err)
		}
		out = append(out, *d)
	}
	return out, s.mapError(rows.Err())
}

func (s *DB) AppointmentOwner(ctx context.Context, appointmentID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "AppointmentOwner")
	defer func() { s.endSpan(span, err) }()

	var citizenID int64
	err = s.conn.QueryRow(ctx, `SELECT citizen_id FROM appointments WHERE id = $1`, appointmentID).Scan(&citizenID)
	return citizenID, s.mapError(err)
}

func (s *DB) OfficerServesCitizen(ctx context.Context, officerID, citizenID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "OfficerServesCitizen")
	defer func() { s.endSpan(span, err) }()

	var ok bool
	err = s.conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM citizens c JOIN divisions d ON d.id = c.division_id
			WHERE c.id = $2 AND d.officer_id = $1
		) OR EXISTS (
			SELECT 1 FROM appointments WHERE citizen_id = $2 AND officer_id = $1
		)`, officerID, citizenID).Scan(&ok)
	return ok, s.mapError(err)
}

func (s *DB) ReviewDocument(ctx context.Context, id int64, from entity.DocumentStatus, d entity.Document) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ReviewDocument")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE documents SET status = $3, review_note = $4, reviewer_id = $5, updated_at = $6
		WHERE id = $1 AND status = $2`,
		id, from, d.Status, d.ReviewNote, d.ReviewerID, d.UpdatedAt)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
