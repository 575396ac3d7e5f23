package session

import (
	"context"
	"sync/atomic"
	"time"

	"maale/internal/domain"
	"maale/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStore serves sessions from the primary store and falls back to a
// secondary one when the primary is unreachable, probing for recovery after
// a minute. Sessions created during an outage live only in the fallback.
// The store is shared by concurrent request handlers, so the outage state
// is kept in atomics.
type FailoverStore struct {
	primary   domain.SessionStore
	fallback  domain.SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed primary attempt
}

func NewFailoverStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverStore) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary session store failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().UnixNano())
}

func (f *FailoverStore) Put(ctx context.Context, token string, actor models.Actor) error {
	if !f.isDown.Load() {
		err := f.primary.Put(ctx, token, actor)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.Put(ctx, token, actor)
}

func (f *FailoverStore) Get(ctx context.Context, token string) (*models.Actor, error) {
	if !f.isDown.Load() {
		actor, err := f.primary.Get(ctx, token)
		if err == nil {
			return actor, nil
		}
		f.markDown(err)
	}

	// Probe for recovery after a minute
	last := f.lastCheck.Load()
	if f.isDown.Load() && time.Since(time.Unix(0, last)) > time.Minute &&
		f.lastCheck.CompareAndSwap(last, time.Now().UnixNano()) {
		actor, err := f.primary.Get(ctx, token)
		if err == nil {
			f.isDown.Store(false)
			return actor, nil
		}
	}

	return f.fallback.Get(ctx, token)
}

func (f *FailoverStore) Delete(ctx context.Context, token string) error {
	if !f.isDown.Load() {
		err := f.primary.Delete(ctx, token)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}

	return f.fallback.Delete(ctx, token)
}
