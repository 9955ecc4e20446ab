package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/idempotency"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/uid"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultServiceCacheTTL = 5 * time.Minute

type repoDB interface {
	GetRequester(ctx context.Context, citizenID int64) (*entity.Requester, error)
	GetServiceByCode(ctx context.Context, code string) (*entity.Service, error)
	GetServiceByID(ctx context.Context, id int64) (*entity.Service, error)
	ListEnabledServices(ctx context.Context) ([]entity.Service, error)
	// ResolveOfficer returns the officer of the citizen's division, or
	// goerror.ErrNotFound when the division has none.
	ResolveOfficer(ctx context.Context, citizenID int64) (*entity.Assignment, error)

	CreateAppointment(ctx context.Context, a entity.Appointment) error
	GetAppointment(ctx context.Context, id int64) (*entity.Appointment, error)
	GetAppointmentDetail(ctx context.Context, id int64) (*entity.AppointmentDetail, error)
	ListAppointmentsByCitizen(ctx context.Context, citizenID int64) ([]entity.Appointment, error)
	ListAppointmentsByOfficer(ctx context.Context, officerID int64, date time.Time) ([]entity.Appointment, error)

	// BookSlot locks the appointment, runs guard and claims the slot, in one
	// transaction.
	BookSlot(ctx context.Context, appointmentID, slotID int64, guard entity.Guard, at time.Time) (*entity.Transition, error)
	// CancelAppointment locks the appointment, runs guard and releases its
	// slot, in one transaction.
	CancelAppointment(ctx context.Context, appointmentID int64, reason string, guard entity.Guard, at time.Time) (*entity.Transition, error)

	ListAvailableSlots(ctx context.Context, officerID int64, date time.Time) ([]entity.TimeSlot, error)
	// CreateTimeSlots inserts slots, or fails with goerror.ErrConflict when one
	// overlaps an existing slot of the same officer.
	CreateTimeSlots(ctx context.Context, slots []entity.TimeSlot) error
}

type repoCache interface {
	GetServices(ctx context.Context) ([]entity.Service, error)
	SetServices(ctx context.Context, services []entity.Service, ttl time.Duration) error
}

// Publisher announces appointment lifecycle changes.
type Publisher interface {
	AppointmentConfirmed(ctx context.Context, d entity.AppointmentDetail) error
	AppointmentCancelled(ctx context.Context, d entity.AppointmentDetail) error
}

type runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Usecase struct {
	repoDB      repoDB
	repoCache   repoCache
	publisher   Publisher
	idempotency idempotency.Idempotency
	goroutine   runner
	validator   validator.Validator
	cfg         config.Config
	uid         uid.NumberID
	clock       clock.Clocker
	ins         instrument.Instrumentation

	booked metric.Int64Counter
}

type Dependency struct {
	RepoDB      repoDB
	RepoCache   repoCache
	Publisher   Publisher
	Idempotency idempotency.Idempotency
	Goroutine   runner
	Validator   validator.Validator
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	booked, _ := dep.Instrument.Meter("appointment.usecase").
		Int64Counter("appointment.booked", metric.WithDescription("Time slots claimed by appointments"))

	return &Usecase{
		repoDB:      dep.RepoDB,
		repoCache:   dep.RepoCache,
		publisher:   dep.Publisher,
		idempotency: dep.Idempotency,
		goroutine:   dep.Goroutine,
		validator:   dep.Validator,
		cfg:         dep.Config,
		uid:         dep.UID,
		clock:       dep.Clock,
		ins:         dep.Instrument,
		booked:      booked,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("appointment.usecase").Start(ctx, name)
}

func (s *Usecase) serviceCacheTTL() time.Duration {
	if d := s.cfg.GetSecond("appointment.service_cache_ttl_seconds"); d > 0 {
		return d
	}
	return defaultServiceCacheTTL
}

// today is the current calendar day of the portal clock.
func (s *Usecase) today() time.Time {
	return entity.DateOf(s.clock.Now())
}

// caller returns the authenticated claims when their role is one of roles.
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

// canAccess reports whether clm may see or change a.
func canAccess(clm *jwt.Claims, a entity.Appointment) bool {
	switch clm.Role {
	case jwt.RoleAdmin:
		return true
	case jwt.RoleOfficer:
		return a.OfficerID == clm.UserID
	default:
		return a.CitizenID == clm.UserID
	}
}

func parseDate(field, v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, goerror.NewInvalidInput(nil, field, "must be a date formatted as YYYY-MM-DD")
	}
	return t, nil
}

func (s *Usecase) resolveOfficer(ctx context.Context, citizenID int64) (*entity.Assignment, error) {
	asg, err := s.repoDB.ResolveOfficer(ctx, citizenID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no officer assigned to citizen division", "citizen_id", citizenID)
		return nil, goerror.NewBusiness("No officer is assigned to your division", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo resolve officer", "citizen_id", citizenID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return asg, nil
}

// announce publishes the appointment detail in the background. Delivery is
// best-effort and never fails the request that triggered it.
func (s *Usecase) announce(ctx context.Context, appointmentID int64, confirmed bool) {
	if s.publisher == nil || s.goroutine == nil {
		return
	}

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		detail, err := s.repoDB.GetAppointmentDetail(ctx, appointmentID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get appointment detail", "appointment_id", appointmentID, "error", err)
			return err
		}

		if confirmed {
			err = s.publisher.AppointmentConfirmed(ctx, *detail)
		} else {
			err = s.publisher.AppointmentCancelled(ctx, *detail)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to publish appointment event", "appointment_id", appointmentID, "confirmed", confirmed, "error", err)
			return err
		}
		return nil
	})
}

// isCoded reports whether err already carries a goerror code.
func isCoded(err error) bool {
	var gerr *goerror.Error
	return errors.As(err, &gerr)
}
