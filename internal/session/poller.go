package session

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/paydeck/console/internal/credstore"
	"github.com/paydeck/console/internal/directory"
	"github.com/paydeck/console/internal/registry"
)

// DefaultPollInterval bounds the convergence time between a durable-store
// mutation and every consumer observing it.
const DefaultPollInterval = 500 * time.Millisecond

// Poller periodically compares the credential store against the registry and
// corrects divergence in either direction. It restores sessions persisted
// before this process started (or by another process), and clears the
// in-memory session when another process logged out.
type Poller struct {
	store     *credstore.FileStore
	registry  *registry.Registry
	directory *directory.Directory
	secret    []byte
	interval  time.Duration
}

// NewPoller creates a reconciliation poller. A non-positive interval falls
// back to DefaultPollInterval.
func NewPoller(store *credstore.FileStore, reg *registry.Registry, dir *directory.Directory, secret []byte, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		store:     store,
		registry:  reg,
		directory: dir,
		secret:    secret,
		interval:  interval,
	}
}

// Run reconciles immediately and then on every tick until ctx is cancelled.
// The ticker is released on return, nothing leaks across a cancellation.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("reconciliation poller stopped")
			return
		case <-ticker.C:
			p.Reconcile(ctx)
		}
	}
}

// Reconcile performs a single reconciliation pass. The steady-state pass
// performs no writes.
func (p *Poller) Reconcile(ctx context.Context) {
	persisted, err := backoff.Retry(ctx, p.store.Read,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		// Transient store failures skip the pass; the next tick re-polls.
		log.Warn().Err(err).Msg("credential store unreadable, skipping reconciliation pass")
		return
	}

	state := p.registry.State()

	switch {
	case persisted != nil && !state.HasSession():
		p.restore(persisted)
	case persisted == nil && state.HasSession():
		log.Info().Msg("durable session gone, clearing in-memory session")
		p.registry.ClearSession()
	}

	if !state.Initialized {
		p.registry.SetInitialized()
	}
}

// restore rehydrates the registry from a persisted session after verifying
// the token. A token that fails verification is treated like any other
// corruption: the store is cleared and the caller stays unauthenticated.
func (p *Poller) restore(persisted *credstore.Persisted) {
	claims, err := verifyToken(p.secret, persisted.Token)
	if err != nil {
		log.Warn().Err(err).Msg("persisted token failed verification, clearing store")
		if err := p.store.Clear(); err != nil {
			log.Error().Err(err).Msg("failed to clear credential store")
		}
		return
	}

	if claims.Subject != persisted.User.ID.String() {
		log.Warn().Msg("persisted token does not match stored user, clearing store")
		if err := p.store.Clear(); err != nil {
			log.Error().Err(err).Msg("failed to clear credential store")
		}
		return
	}

	app := p.directory.ApplicationFor(persisted.User.ID)

	p.registry.SetSession(persisted.Token, persisted.User, app)

	log.Info().Str("user", persisted.User.Email).Msg("session restored from durable store")
}
