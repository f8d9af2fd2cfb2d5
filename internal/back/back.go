package back

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"tennistinder/internal/rating"
)

type Back struct {
	store   Store
	kFactor int

	// notifications is written to after commits, never read by the Back.
	notifications chan Notification

	randMu sync.Mutex
	rand   *rand.Rand
}

// New creates a Back using the given store, a non-positive kFactor uses the
// default one.
func New(store Store, kFactor int) *Back {
	if kFactor <= 0 {
		kFactor = rating.DefaultKFactor
	}

	return &Back{
		store:         store,
		kFactor:       kFactor,
		notifications: make(chan Notification, 32),
		rand:          rand.New(rand.NewSource(time.Now().UnixNano())), // nolint:gosec
	}
}

// SetRandSource replaces the source used to generate matchups, tests use it
// to get reproducible draws.
func (b *Back) SetRandSource(src rand.Source) {
	b.randMu.Lock()
	defer b.randMu.Unlock()
	b.rand = rand.New(src) // nolint:gosec
}

// GetNotificationsChan returns the channel on which the Back publishes
// events, it is never closed.
func (b *Back) GetNotificationsChan() <-chan Notification {
	return b.notifications
}

// transaction runs cb in a store transaction and turns storage failures into
// PersistenceError. Domain errors returned by cb are passed through as-is.
func (b *Back) transaction(ctx context.Context, op string, cb func(Tx) error) error {
	err := b.store.Transaction(ctx, cb)
	if err == nil {
		return nil
	}

	if isDomainError(err) {
		return err
	}

	return &PersistenceError{Op: op, Err: err}
}
