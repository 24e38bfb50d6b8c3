package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartoffice/authcore/internal/auth/domain"
	"github.com/smartoffice/authcore/internal/auth/store"
	"github.com/smartoffice/authcore/internal/auth/store/drivers/sqlite/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func testUser(id, email, username string) domain.User {
	return domain.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuuKQwPZ6pV6pxd0qB8a3v5nqE0u7rJZ1e",
		IsActive:     true,
	}
}

func TestDSN(t *testing.T) {
	require.Equal(t, "file:/tmp/a.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", DSN("/tmp/a.db"))
	require.Equal(t, "file:x.db?mode=ro", DSN("file:x.db?mode=ro"))
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, time.March, 1, 12, 0, 0, 123_000_000, time.UTC)

	u := testUser("u-1", "alice@example.com", "alice")
	u.CreatedAt = created
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)
	require.Equal(t, "alice", byID.Username)
	require.Equal(t, u.PasswordHash, byID.PasswordHash)
	require.True(t, byID.IsActive)
	require.Nil(t, byID.TOTPSecret)
	require.False(t, byID.TOTPEnabled())
	require.Equal(t, created, byID.CreatedAt)
	require.Equal(t, created, byID.UpdatedAt)

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, byID, byEmail)
}

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, testUser("u-1", "Alice@Example.com", "alice")))

	got, err := s.Users().GetUserByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	require.Equal(t, "u-1", got.ID)

	err = s.Users().CreateUser(ctx, testUser("u-2", "ALICE@example.com", "alice2"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_InactiveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("u-1", "bob@example.com", "bob")
	u.IsActive = false
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestUsers_CreateDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Users().CreateUser(ctx, testUser("u-1", "alice@example.com", "alice")))

	tests := []struct {
		name string
		user domain.User
	}{
		{"same id", testUser("u-1", "other@example.com", "other")},
		{"same email", testUser("u-2", "alice@example.com", "other")},
		{"same username", testUser("u-3", "other@example.com", "alice")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Users().CreateUser(ctx, tt.user)
			require.ErrorIs(t, err, store.ErrAlreadyExists)
		})
	}
}

func TestUsers_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	secret := "JBSWY3DPEHPK3PXP"
	_, err = s.Users().SwapTOTPSecret(ctx, "missing", nil, &secret)
	require.ErrorIs(t, err, store.ErrNotFound)
}

// enroll stores secret for a user that has none.
func enroll(t *testing.T, s *Store, userID, secret string) {
	t.Helper()
	ok, err := s.Users().SwapTOTPSecret(context.Background(), userID, nil, &secret)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUsers_SwapTOTPSecret(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Users().CreateUser(ctx, testUser("u-1", "alice@example.com", "alice")))

	secret := "JBSWY3DPEHPK3PXP"
	enroll(t, s, "u-1", secret)

	got, err := s.Users().GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got.TOTPSecret)
	require.Equal(t, secret, *got.TOTPSecret)
	require.True(t, got.TOTPEnabled())

	ok, err := s.Users().SwapTOTPSecret(ctx, "u-1", &secret, nil)
	require.NoError(t, err)
	require.True(t, ok)

	got, err = s.Users().GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	require.Nil(t, got.TOTPSecret)
}

func TestUsers_SwapTOTPSecret_StaleCurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Users().CreateUser(ctx, testUser("u-1", "alice@example.com", "alice")))

	stored := "JBSWY3DPEHPK3PXP"
	other := "GEZDGNBVGY3TQOJQ"
	enroll(t, s, "u-1", stored)

	tests := []struct {
		name    string
		current *string
		next    *string
	}{
		{"enable over an existing secret", nil, &other},
		{"disable with a different secret", &other, nil},
		{"replace with a different secret", &other, &other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Users().SwapTOTPSecret(ctx, "u-1", tt.current, tt.next)
			require.NoError(t, err)
			require.False(t, ok)

			got, err := s.Users().GetUserByID(ctx, "u-1")
			require.NoError(t, err)
			require.Equal(t, stored, *got.TOTPSecret)
		})
	}
}

func TestUsers_ClaimTOTPCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Users().CreateUser(ctx, testUser("u-1", "alice@example.com", "alice")))

	ok, err := s.Users().ClaimTOTPCounter(ctx, "u-1", 100)
	require.NoError(t, err)
	require.False(t, ok, "no secret enrolled")

	secret := "JBSWY3DPEHPK3PXP"
	enroll(t, s, "u-1", secret)

	tests := []struct {
		name    string
		counter int64
		want    bool
	}{
		{"first claim", 100, true},
		{"same counter replayed", 100, false},
		{"older counter", 99, false},
		{"newer counter", 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Users().ClaimTOTPCounter(ctx, "u-1", tt.counter)
			require.NoError(t, err)
			require.Equal(t, tt.want, ok)
		})
	}

	// Re-enrolling resets the counter.
	ok, err = s.Users().SwapTOTPSecret(ctx, "u-1", &secret, &secret)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.Users().ClaimTOTPCounter(ctx, "u-1", 50)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Users().ClaimTOTPCounter(ctx, "missing", 500)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUsers_ClaimTOTPCounter_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := testUser("u-1", "alice@example.com", "alice")
	secret := "JBSWY3DPEHPK3PXP"
	u.TOTPSecret = &secret
	require.NoError(t, s.Users().CreateUser(ctx, u))

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Users().ClaimTOTPCounter(ctx, "u-1", 777)
			if err == nil && ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), claimed.Load())
}

func TestWithTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, testUser("u-1", "alice@example.com", "alice"))
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByID(ctx, "u-1")
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, testUser("u-2", "bob@example.com", "bob")); err != nil {
				return err
			}
			return tx.Users().CreateUser(ctx, testUser("u-3", "alice@example.com", "carol"))
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Users().GetUserByID(ctx, "u-2")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nested tx rejected", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.Error(t, err)
	})
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.Migrations.ReadDir(".")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for _, e := range entries {
		name := e.Name()
		require.True(t, strings.HasSuffix(name, ".up.sql") || strings.HasSuffix(name, ".down.sql"), name)
	}
}
