package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxSizeBytes = 5 << 20
	defaultDownloadTTL  = 15 * time.Minute
)

var defaultAllowedTypes = []string{"application/pdf", "image/jpeg", "image/png"}

type repoDB interface {
	CreateDocument(ctx context.Context, d entity.Document) error
	GetDocument(ctx context.Context, id int64) (*entity.Document, error)
	ListDocumentsByCitizen(ctx context.Context, citizenID int64) ([]entity.Document, error)
	// AppointmentOwner returns the citizen of an appointment.
	AppointmentOwner(ctx context.Context, appointmentID int64) (int64, error)
	// OfficerServesCitizen reports whether the officer heads the citizen's
	// division or holds an appointment with them.
	OfficerServesCitizen(ctx context.Context, officerID, citizenID int64) (bool, error)
	// ReviewDocument records a review outcome when the document is still in
	// status from, and reports whether it did.
	ReviewDocument(ctx context.Context, id int64, from entity.DocumentStatus, d entity.Document) (bool, error)
}

type objectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type Usecase struct {
	repoDB    repoDB
	store     objectStore
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	keys      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Store      objectStore
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	ObjectKey  uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		store:     dep.Store,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		keys:      dep.ObjectKey,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("document.usecase").Start(ctx, name)
}

func (s *Usecase) maxSize() int64 {
	if n := s.cfg.GetInt("document.max_size_bytes"); n > 0 {
		return int64(n)
	}
	return defaultMaxSizeBytes
}

// MaxSize is the largest upload accepted, exposed for the request reader.
func (s *Usecase) MaxSize() int64 { return s.maxSize() }

func (s *Usecase) allowedType(contentType string) bool {
	allowed := s.cfg.GetArray("document.allowed_types")
	if len(allowed) == 0 {
		allowed = defaultAllowedTypes
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), contentType) {
			return true
		}
	}
	return false
}

func (s *Usecase) downloadTTL() time.Duration {
	if d := s.cfg.GetMinute("document.download_ttl_minutes"); d > 0 {
		return d
	}
	return defaultDownloadTTL
}

func caller(ctx context.Context, roles ...string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	for _, r := range roles {
		if clm.Role == r {
			return clm, nil
		}
	}
	return nil, goerror.NewBusiness("You are not allowed to perform this action", goerror.CodeForbidden)
}
