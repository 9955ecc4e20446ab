package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/citizen/entity"
	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/config"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/passcode"
	"github.com/lankagov/gnportal/internal/pkg/validator"
)

type fakeRepo struct {
	mu        sync.Mutex
	citizens  map[int64]*entity.Citizen
	divisions map[string]*entity.Division
	otps      map[int64]*entity.OTPRecord
	tokens    map[string]*entity.RefreshToken

	errCreateOTP error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		citizens:  map[int64]*entity.Citizen{},
		divisions: map[string]*entity.Division{},
		otps:      map[int64]*entity.OTPRecord{},
		tokens:    map[string]*entity.RefreshToken{},
	}
}

func (f *fakeRepo) GetCitizenByID(_ context.Context, id int64) (*entity.Citizen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.citizens[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) GetCitizenByNIC(_ context.Context, nic string) (*entity.Citizen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.citizens {
		if c.NIC == nic {
			cp := *c
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetCitizenProfile(ctx context.Context, id int64) (*entity.Profile, error) {
	c, err := f.GetCitizenByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &entity.Profile{Citizen: *c}
	for _, d := range f.divisions {
		if c.DivisionID != nil && d.ID == *c.DivisionID {
			cp := *d
			p.Division = &cp
		}
	}
	return p, nil
}

func (f *fakeRepo) GetDivisionByCode(_ context.Context, code string) (*entity.Division, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.divisions[code]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) CreateCitizen(_ context.Context, c entity.Citizen) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.citizens {
		if e.NIC == c.NIC || e.Email == c.Email {
			return goerror.ErrConflict
		}
	}
	f.citizens[c.ID] = &c
	return nil
}

func (f *fakeRepo) MarkEmailVerified(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.citizens[id].EmailVerifiedAt = &at
	return nil
}

func (f *fakeRepo) ResetPassword(_ context.Context, id int64, h string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.citizens[id].PasswordHash = h
	for _, t := range f.tokens {
		if t.CitizenID == id && t.RevokedAt == nil {
			t.RevokedAt = &at
		}
	}
	return nil
}

func (f *fakeRepo) CountOTPSince(_ context.Context, citizenID int64, purpose entity.OTPPurpose, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.otps {
		if r.CitizenID == citizenID && r.Purpose == purpose && r.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateOTP(_ context.Context, rec entity.OTPRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCreateOTP != nil {
		return f.errCreateOTP
	}
	for _, r := range f.otps {
		if r.CitizenID == rec.CitizenID && r.Purpose == rec.Purpose && r.Status == entity.OTPStatusPending {
			r.Status = entity.OTPStatusExpired
		}
	}
	f.otps[rec.ID] = &rec
	return nil
}

func (f *fakeRepo) GetPendingOTP(_ context.Context, citizenID int64, purpose entity.OTPPurpose, codeHash string) (*entity.OTPRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.otps {
		if r.CitizenID == citizenID && r.Purpose == purpose && r.CodeHash == codeHash && r.Status == entity.OTPStatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) UpdateOTPStatus(_ context.Context, id int64, from, to entity.OTPStatus, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.otps[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if to == entity.OTPStatusVerified {
		r.VerifiedAt = &at
	}
	return true, nil
}

func (f *fakeRepo) ExpirePendingOTP(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.otps {
		if r.Status == entity.OTPStatusPending && !now.Before(r.ExpiresAt) {
			r.Status = entity.OTPStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, rt entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[rt.TokenHash] = &rt
	return nil
}

func (f *fakeRepo) GetRefreshToken(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[tokenHash]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) RotateRefreshToken(_ context.Context, oldID int64, next entity.RefreshToken, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.ID != oldID {
			continue
		}
		if t.RevokedAt != nil {
			return goerror.ErrConflict
		}
		t.RevokedAt = &at
		t.ReplacedBy = &next.ID
	}
	f.tokens[next.TokenHash] = &next
	return nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, tokenHash string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[tokenHash]; ok && t.RevokedAt == nil {
		t.RevokedAt = &at
	}
	return nil
}

func (f *fakeRepo) RevokeAllRefreshTokens(_ context.Context, citizenID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.CitizenID == citizenID && t.RevokedAt == nil {
			t.RevokedAt = &at
		}
	}
	return nil
}

// otpsOf returns the records of a citizen and purpose, oldest first.
func (f *fakeRepo) otpsOf(citizenID int64, purpose entity.OTPPurpose) []entity.OTPRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.OTPRecord
	for _, r := range f.otps {
		if r.CitizenID == citizenID && r.Purpose == purpose {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []entity.OTPMessage
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg entity.OTPMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) last(t *testing.T) entity.OTPMessage {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		t.Fatal("no code was sent")
	}
	return n.sent[len(n.sent)-1]
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

type fakeJWT struct{}

func (fakeJWT) Generate(sub jwt.Subject) (string, error) {
	return "access-" + sub.Role, nil
}

func (fakeJWT) GenerateChallenge(jwt.Subject) (string, error) { return "challenge", nil }

func (fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, jwt.ErrInvalidToken }

func (fakeJWT) VerifyChallenge(string) (jwt.Claims, error) { return jwt.Claims{}, jwt.ErrInvalidToken }

type harness struct {
	uc       *Usecase
	repo     *fakeRepo
	notifier *fakeNotifier
	clock    *clock.Fixed
	bcrypt   *hash.Bcrypt
}

const testConfig = `
otp:
  ttl_minutes: 10
  rate_limit:
    max: 3
    window_minutes: 15
jwt:
  refresh_ttl_days: 7
`

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
	pc, err := passcode.NewNumeric(6)
	if err != nil {
		t.Fatalf("passcode: %v", err)
	}

	h := &harness{
		repo:     newFakeRepo(),
		notifier: &fakeNotifier{},
		clock:    clock.NewFixed(time.Date(2025, 8, 19, 9, 0, 0, 0, time.UTC)),
		bcrypt:   hash.NewBcrypt(4, ""),
	}
	h.uc = New(Dependency{
		RepoDB:     h.repo,
		Notifier:   h.notifier,
		Validator:  v,
		Config:     cfg,
		Bcrypt:     h.bcrypt,
		HMAC:       hash.NewHMACSHA256("otp-secret"),
		Passcode:   pc,
		UID:        &seqID{},
		Clock:      h.clock,
		JWT:        fakeJWT{},
		Instrument: instrument.NewNoop(),
	})
	return h
}

// seedCitizen stores an active citizen with a verified email.
func (h *harness) seedCitizen(t *testing.T, id int64, nic, password string) *entity.Citizen {
	t.Helper()
	hashed, err := h.bcrypt.Hash(password)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	verified := h.clock.Now().Add(-24 * time.Hour)
	c := &entity.Citizen{
		ID:              id,
		NIC:             nic,
		FullName:        "Nimal Perera",
		Email:           "nimal@example.lk",
		PasswordHash:    string(hashed),
		Status:          entity.CitizenStatusActive,
		EmailVerifiedAt: &verified,
	}
	h.repo.citizens[id] = c
	return c
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := goerror.CodeOf(err); got != want {
		t.Fatalf("error code = %s, want %s (err=%v)", got, want, err)
	}
}
