package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/internal/auth/store/drivers/sqlite"
	"github.com/smartoffice/authcore/pkg/cryptox"
	"github.com/smartoffice/authcore/pkg/jwtx"
	"github.com/smartoffice/authcore/pkg/totpx"
)

const testPassword = "Correct-Horse-9"

var testHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	return h
})

// Aligned to the start of a 30s TOTP step.
var testNow = time.Unix(1_700_000_010, 0)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	c, err := jwtx.NewCodec(jwtx.Config{
		Secret: []byte("test-secret-test-secret-test-sec"),
		TTL:    30 * time.Minute,
		Issuer: "smart-office-auth",
		Now:    func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return c
}

func newTestTOTP() *totpx.Manager {
	return totpx.New(totpx.Config{Now: func() time.Time { return testNow }})
}

func codeFor(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, at)
	require.NoError(t, err)
	return code
}

func seedUser(t *testing.T, s store.Store, id, email string, secret *string, active bool) domain.User {
	t.Helper()
	u := domain.User{
		ID:           id,
		Email:        email,
		Username:     id,
		PasswordHash: testHash(),
		TOTPSecret:   secret,
		IsActive:     active,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func ptr[T any](v T) *T { return &v }

// countingStore records how often the user repo is touched.
type countingStore struct {
	store.Store
	users *countingUsers
}

func newCountingStore(inner store.Store) *countingStore {
	return &countingStore{Store: inner, users: &countingUsers{Users: inner.Users()}}
}

func (s *countingStore) Users() store.Users { return s.users }

type countingUsers struct {
	store.Users
	reads  atomic.Int32
	writes atomic.Int32
	claims atomic.Int32

	// onRead runs after every successful read, e.g. to cancel a context
	// between the read and the write point.
	onRead func()
}

func (u *countingUsers) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u.reads.Add(1)
	user, err := u.Users.GetUserByID(ctx, id)
	if err == nil && u.onRead != nil {
		u.onRead()
	}
	return user, err
}

func (u *countingUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u.reads.Add(1)
	user, err := u.Users.GetUserByEmail(ctx, email)
	if err == nil && u.onRead != nil {
		u.onRead()
	}
	return user, err
}

func (u *countingUsers) SwapTOTPSecret(ctx context.Context, userID string, current, next *string) (bool, error) {
	u.writes.Add(1)
	return u.Users.SwapTOTPSecret(ctx, userID, current, next)
}

func (u *countingUsers) ClaimTOTPCounter(ctx context.Context, userID string, counter int64) (bool, error) {
	u.claims.Add(1)
	return u.Users.ClaimTOTPCounter(ctx, userID, counter)
}

var errStoreDown = errors.New("database is locked")

// brokenStore fails every user operation.
type brokenStore struct {
	store.Store
}

func (brokenStore) Users() store.Users { return brokenUsers{} }

func (brokenStore) WithTx(context.Context, func(store.Tx) error) error { return errStoreDown }

func (brokenStore) Ping(context.Context) error { return errStoreDown }

type brokenUsers struct{}

func (brokenUsers) GetUserByID(context.Context, string) (domain.User, error) {
	return domain.User{}, errStoreDown
}

func (brokenUsers) GetUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, errStoreDown
}

func (brokenUsers) CreateUser(context.Context, domain.User) error { return errStoreDown }

func (brokenUsers) SwapTOTPSecret(context.Context, string, *string, *string) (bool, error) {
	return false, errStoreDown
}

func (brokenUsers) ClaimTOTPCounter(context.Context, string, int64) (bool, error) {
	return false, errStoreDown
}

type guardFunc func(ctx context.Context, userID string, counter int64) (bool, error)

func (f guardFunc) Claim(ctx context.Context, userID string, counter int64) (bool, error) {
	return f(ctx, userID, counter)
}
