// Package replay keeps an accepted TOTP code from being accepted twice.
package replay

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("replay: guard unavailable")

// Guard records that a user's TOTP time step has been consumed. Claim reports
// false when the step was already claimed.
type Guard interface {
	Claim(ctx context.Context, userID string, counter int64) (bool, error)
}
