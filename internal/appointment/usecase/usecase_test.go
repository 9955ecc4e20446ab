package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/appointment/entity"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/idempotency"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	mu           sync.Mutex
	requesters   map[int64]*entity.Requester
	services     map[int64]*entity.Service
	assignments  map[int64]*entity.Assignment
	appointments map[int64]*entity.Appointment
	slots        map[int64]*entity.TimeSlot

	listServiceCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requesters:   map[int64]*entity.Requester{},
		services:     map[int64]*entity.Service{},
		assignments:  map[int64]*entity.Assignment{},
		appointments: map[int64]*entity.Appointment{},
		slots:        map[int64]*entity.TimeSlot{},
	}
}

func (f *fakeRepo) GetRequester(_ context.Context, citizenID int64) (*entity.Requester, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requesters[citizenID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetServiceByCode(_ context.Context, code string) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.services {
		if s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetServiceByID(_ context.Context, id int64) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) ListEnabledServices(context.Context) ([]entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listServiceCalls++
	var out []entity.Service
	for _, s := range f.services {
		if s.Enabled {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeRepo) ResolveOfficer(_ context.Context, citizenID int64) (*entity.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[citizenID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, a entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[a.ID]; ok {
		return goerror.ErrConflict
	}
	f.appointments[a.ID] = &a
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, id int64) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) GetAppointmentDetail(ctx context.Context, id int64) (*entity.AppointmentDetail, error) {
	a, err := f.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.AppointmentDetail{Appointment: *a, CitizenEmail: "nimal@example.lk", CitizenName: "Nimal Perera", OfficerName: "Kamala Silva"}, nil
}

func (f *fakeRepo) ListAppointmentsByCitizen(_ context.Context, citizenID int64) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.CitizenID == citizenID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedDate.Equal(out[j].RequestedDate) {
			return out[i].RequestedDate.After(out[j].RequestedDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeRepo) ListAppointmentsByOfficer(_ context.Context, officerID int64, date time.Time) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.OfficerID == officerID && a.RequestedDate.Equal(date) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// BookSlot holds the lock for the whole call, which is what the row lock
// plus conditional update give the real repository.
func (f *fakeRepo) BookSlot(_ context.Context, appointmentID, slotID int64, guard entity.Guard, at time.Time) (*entity.Transition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.appointments[appointmentID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	next, err := guard(*a)
	if err != nil {
		return nil, err
	}

	slot, ok := f.slots[slotID]
	switch {
	case !ok || slot.OfficerID != a.OfficerID:
		return nil, entity.ErrSlotNotFound
	case !slot.Date.Equal(a.RequestedDate):
		return nil, entity.ErrSlotDateMismatch
	case slot.Status != entity.SlotStatusAvailable:
		return nil, entity.ErrSlotTaken
	}

	slot.Status = entity.SlotStatusBooked
	slot.AppointmentID = &a.ID
	a.Status = next
	a.SlotID = &slot.ID
	a.UpdatedAt = at

	cs := *slot
	return &entity.Transition{Appointment: *a, Slot: &cs}, nil
}

func (f *fakeRepo) CancelAppointment(_ context.Context, appointmentID int64, reason string, guard entity.Guard, at time.Time) (*entity.Transition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.appointments[appointmentID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	next, err := guard(*a)
	if err != nil {
		return nil, err
	}

	a.Status = next
	a.CancelReason = &reason
	a.UpdatedAt = at

	tr := &entity.Transition{}
	if a.SlotID != nil {
		if slot, ok := f.slots[*a.SlotID]; ok && slot.AppointmentID != nil && *slot.AppointmentID == a.ID {
			slot.Status = entity.SlotStatusAvailable
			slot.AppointmentID = nil
			cs := *slot
			tr.Slot = &cs
		}
	}
	tr.Appointment = *a
	return tr, nil
}

func (f *fakeRepo) ListAvailableSlots(_ context.Context, officerID int64, date time.Time) ([]entity.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.TimeSlot
	for _, s := range f.slots {
		if s.OfficerID == officerID && s.Date.Equal(date) && s.Status == entity.SlotStatusAvailable {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeRepo) CreateTimeSlots(_ context.Context, slots []entity.TimeSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range slots {
		for _, s := range f.slots {
			if s.OfficerID == n.OfficerID && s.StartsAt.Before(n.EndsAt) && s.EndsAt.After(n.StartsAt) {
				return goerror.ErrConflict
			}
		}
	}
	for i := range slots {
		s := slots[i]
		f.slots[s.ID] = &s
	}
	return nil
}

func (f *fakeRepo) slot(id int64) entity.TimeSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.slots[id]
}

type fakeCache struct {
	mu       sync.Mutex
	services []entity.Service
	ttl      time.Duration
	err      error
}

func (c *fakeCache) GetServices(context.Context) ([]entity.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.services, c.err
}

func (c *fakeCache) SetServices(_ context.Context, services []entity.Service, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.services, c.ttl = services, ttl
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	confirmed []entity.AppointmentDetail
	cancelled []entity.AppointmentDetail
}

func (p *fakePublisher) AppointmentConfirmed(_ context.Context, d entity.AppointmentDetail) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, d)
	return nil
}

func (p *fakePublisher) AppointmentCancelled(_ context.Context, d entity.AppointmentDetail) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, d)
	return nil
}

// inlineRunner runs background work on the calling goroutine.
type inlineRunner struct{}

func (inlineRunner) Go(ctx context.Context, f func(ctx context.Context) error) { _ = f(ctx) }

type fakeIdempotency struct {
	mu      sync.Mutex
	results map[string][]byte
	busy    map[string]bool
}

func (i *fakeIdempotency) Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error), _ ...idempotency.Option) ([]byte, error) {
	i.mu.Lock()
	if i.results == nil {
		i.results, i.busy = map[string][]byte{}, map[string]bool{}
	}
	if r, ok := i.results[key]; ok {
		i.mu.Unlock()
		return r, nil
	}
	if i.busy[key] {
		i.mu.Unlock()
		return nil, idempotency.ErrAlreadyInProgress
	}
	i.busy[key] = true
	i.mu.Unlock()

	r, err := fn(ctx)

	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.busy, key)
	if err != nil {
		return nil, err
	}
	i.results[key] = r
	return r, nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return 1000 + s.n
}

const testConfig = `
appointment:
  service_cache_ttl_seconds: 120
`

const (
	citizenID = int64(1)
	officerID = int64(7)
)

var appointmentDay = time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

type harness struct {
	uc        *Usecase
	repo      *fakeRepo
	cache     *fakeCache
	publisher *fakePublisher
	idem      *fakeIdempotency
	clock     *clock.Fixed
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h := &harness{
		repo:      newFakeRepo(),
		cache:     &fakeCache{},
		publisher: &fakePublisher{},
		idem:      &fakeIdempotency{},
		clock:     clock.NewFixed(time.Date(2025, 8, 19, 9, 0, 0, 0, time.UTC)),
	}
	h.uc = New(Dependency{
		RepoDB:      h.repo,
		RepoCache:   h.cache,
		Publisher:   h.publisher,
		Idempotency: h.idem,
		Goroutine:   inlineRunner{},
		Validator:   v,
		Config:      cfg,
		UID:         &seqID{},
		Clock:       h.clock,
		Instrument:  instrument.NewNoop(),
	})

	division := int64(3)
	h.repo.requesters[citizenID] = &entity.Requester{ID: citizenID, Email: "nimal@example.lk", FullName: "Nimal Perera", EmailVerified: true, DivisionID: &division, Active: true}
	h.repo.assignments[citizenID] = &entity.Assignment{CitizenID: citizenID, DivisionID: division, OfficerID: officerID, OfficerName: "Kamala Silva"}
	h.repo.services[11] = &entity.Service{ID: 11, Code: "GNS001", Name: "Character certificate", Fee: decimal.RequireFromString("250.00"), Enabled: true}
	h.repo.services[12] = &entity.Service{ID: 12, Code: "GNS002", Name: "Residence certificate", Fee: decimal.Zero, Enabled: false}
	return h
}

// seedSlot opens a slot for the test officer on appointmentDay at hour.
func (h *harness) seedSlot(id int64, hour int) {
	start := appointmentDay.Add(time.Duration(hour) * time.Hour)
	h.repo.slots[id] = &entity.TimeSlot{
		ID: id, OfficerID: officerID, Date: appointmentDay,
		StartsAt: start, EndsAt: start.Add(30 * time.Minute), Status: entity.SlotStatusAvailable,
	}
}

func asCitizen(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, Role: jwt.RoleCitizen})
}

func asOfficer(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, Role: jwt.RoleOfficer})
}

func (h *harness) createPending(t *testing.T) *entity.Appointment {
	t.Helper()
	a, err := h.uc.CreateAppointment(asCitizen(citizenID), CreateAppointmentInput{ServiceCode: "GNS001", Date: "2025-08-20", Purpose: "Character certificate for employment"})
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}
	return a
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T: %v", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("code = %s, want %s (msg %q)", gerr.Code(), want, gerr.Msg())
	}
}
