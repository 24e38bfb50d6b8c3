package store

import (
	"context"
	"errors"

	"github.com/smartoffice/authcore/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this
// and expose sub-repositories so transactions can't be nested by accident.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the single read a login attempt performs. Emails
	// compare case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. A duplicate email or username returns
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// SwapTOTPSecret sets the TOTP secret to next (nil clears it) only while
	// the stored secret still equals current (nil meaning none), and resets
	// the replay counter. It reports false when the stored secret changed in
	// between. Unknown ids return ErrNotFound.
	SwapTOTPSecret(ctx context.Context, userID string, current, next *string) (bool, error)

	// ClaimTOTPCounter records counter as the last accepted TOTP time step for
	// the user. It reports false when counter is not newer than the recorded
	// one.
	ClaimTOTPCounter(ctx context.Context, userID string, counter int64) (bool, error)
}
