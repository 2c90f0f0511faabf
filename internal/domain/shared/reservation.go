package shared

import (
	"context"
	"time"
)

// ReservationStore atomically reserves one-shot actions, such as
// sending the single notification an alert is allowed. A successful
// Reserve means the caller won the right to perform the action;
// everyone else sees false until the TTL lapses. A winner whose action
// failed calls Release so the next attempt does not wait out the TTL.
type ReservationStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsReserved(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
