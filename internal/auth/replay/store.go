package replay

import (
	"context"
	"fmt"

	"github.com/smartoffice/authcore/internal/auth/store"
)

// StoreGuard keeps the last accepted counter on the user row. Counters must
// strictly increase, so an older code inside the drift window is refused too.
type StoreGuard struct {
	store store.Store
}

var _ Guard = (*StoreGuard)(nil)

func NewStoreGuard(s store.Store) *StoreGuard {
	return &StoreGuard{store: s}
}

func (g *StoreGuard) Claim(ctx context.Context, userID string, counter int64) (bool, error) {
	ok, err := g.store.Users().ClaimTOTPCounter(ctx, userID, counter)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}
