package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lankagov/gnportal/internal/pkg/clock"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/hash"
	"github.com/lankagov/gnportal/internal/pkg/instrument"
	"github.com/lankagov/gnportal/internal/pkg/jwt"
	"github.com/lankagov/gnportal/internal/pkg/mfa"
	"github.com/lankagov/gnportal/internal/pkg/totp"
	"github.com/lankagov/gnportal/internal/pkg/validator"
	"github.com/lankagov/gnportal/internal/staff/entity"
)

type fakeRepo struct {
	mu        sync.Mutex
	staff     map[int64]*entity.Staff
	divisions map[string]int64
	officers  map[int64]int64 // division -> officer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		staff:     map[int64]*entity.Staff{},
		divisions: map[string]int64{"GN-COL-01": 3},
		officers:  map[int64]int64{},
	}
}

func (f *fakeRepo) GetStaffByEmail(_ context.Context, email string) (*entity.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.staff {
		if st.Email == email {
			cp := *st
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetStaffByID(_ context.Context, id int64) (*entity.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.staff[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeRepo) GetDivisionIDByCode(_ context.Context, code string) (int64, error) {
	id, ok := f.divisions[code]
	if !ok {
		return 0, goerror.ErrNotFound
	}
	return id, nil
}

func (f *fakeRepo) CreateStaff(_ context.Context, st entity.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.staff {
		if e.Email == st.Email {
			return goerror.ErrConflict
		}
	}
	f.staff[st.ID] = &st
	if st.Role == jwt.RoleOfficer && st.DivisionID != nil {
		f.officers[*st.DivisionID] = st.ID
	}
	return nil
}

func (f *fakeRepo) SaveTOTPSecret(_ context.Context, id int64, sealed []byte, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.staff[id]
	st.TOTPSecret = sealed
	st.UpdatedAt = at
	return nil
}

func (f *fakeRepo) EnableTOTP(_ context.Context, id int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.staff[id]
	if st.TOTPEnabled || st.TOTPSecret == nil {
		return false, nil
	}
	st.TOTPEnabled = true
	st.UpdatedAt = at
	return true, nil
}

// fakeJWT encodes the subject id in the token so challenges round-trip.
type fakeJWT struct{}

func (fakeJWT) Generate(sub jwt.Subject) (string, error) {
	return "access-" + sub.Role + "-" + strconv.FormatInt(sub.ID, 10), nil
}

func (fakeJWT) GenerateChallenge(sub jwt.Subject) (string, error) {
	return "challenge-" + strconv.FormatInt(sub.ID, 10), nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, jwt.ErrInvalidToken }

func (fakeJWT) VerifyChallenge(token string) (jwt.Claims, error) {
	raw, ok := strings.CutPrefix(token, "challenge-")
	if !ok {
		return jwt.Claims{}, jwt.ErrWrongKind
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: id, Kind: jwt.KindChallenge}, nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return 200 + s.n
}

type harness struct {
	uc     *Usecase
	repo   *fakeRepo
	clock  *clock.Fixed
	hasher hash.Hash
	totp   *totp.Authenticator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h := &harness{
		repo:   newFakeRepo(),
		clock:  clock.NewFixed(time.Date(2025, 8, 19, 9, 0, 0, 0, time.UTC)),
		hasher: hash.NewBcrypt(4, "pepper"),
		totp:   totp.New("GN Portal", 30, 1),
	}
	h.uc = New(Dependency{
		RepoDB:     h.repo,
		Validator:  v,
		Argon2:     h.hasher,
		TOTP:       h.totp,
		MFA:        mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: []byte("0123456789abcdef0123456789abcdef")}),
		JWT:        fakeJWT{},
		UID:        &seqID{},
		Clock:      h.clock,
		Instrument: instrument.NewNoop(),
	})
	return h
}

func (h *harness) seedStaff(t *testing.T, id int64, email, role, password string) *entity.Staff {
	t.Helper()
	hashed, err := h.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	st := &entity.Staff{
		ID:           id,
		Email:        email,
		FullName:     "Kamala Silva",
		Role:         role,
		PasswordHash: string(hashed),
		Status:       entity.StaffStatusActive,
	}
	h.repo.staff[id] = st
	return st
}

func as(id int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, Role: role})
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
