package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartoffice/authcore/internal/auth/domain"
)

const userColumns = `id, email, username, password_hash, totp_secret, is_active, created_at, updated_at`

type usersRepo struct {
	q   querier
	now func() time.Time
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := r.now()
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := u.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		mapOptionalString(u.TOTPSecret),
		boolToInt(u.IsActive),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *usersRepo) SwapTOTPSecret(ctx context.Context, userID string, current, next *string) (bool, error) {
	// IS compares NULL as a value, so one statement covers enable and disable.
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET totp_secret = ?, totp_last_counter = NULL, updated_at = ?
		 WHERE id = ? AND totp_secret IS ?`,
		mapOptionalString(next),
		toMillis(r.now()),
		userID,
		mapOptionalString(current),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	var exists int
	err = r.q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
	if err != nil {
		return false, mapNotFound(err)
	}
	return false, nil
}

func (r *usersRepo) ClaimTOTPCounter(ctx context.Context, userID string, counter int64) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET totp_last_counter = ?
		 WHERE id = ?
		   AND totp_secret IS NOT NULL
		   AND (totp_last_counter IS NULL OR totp_last_counter < ?)`,
		counter,
		userID,
		counter,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		secret    sql.NullString
		isActive  int64
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &secret, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.TOTPSecret = mapNullStringPtr(secret)
	u.IsActive = isActive != 0
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}
