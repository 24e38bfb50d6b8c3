package service

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks infrastructure failures (store, replay guard) so
// callers can tell a broken system apart from rejected credentials.
var ErrUnavailable = errors.New("service unavailable")

// ErrUserNotFound is returned when an authenticated caller's record is gone.
var ErrUserNotFound = errors.New("user not found")

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
