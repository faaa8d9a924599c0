// Package session implements the session controller and the reconciliation
// poller: the only two writers of the session registry and the durable
// credential store.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paydeck/console/internal/credstore"
	"github.com/paydeck/console/internal/directory"
	"github.com/paydeck/console/internal/models"
	"github.com/paydeck/console/internal/registry"
)

// DefaultRememberFor is the lifetime of a remembered session.
const DefaultRememberFor = 30 * 24 * time.Hour

// loginRoute is where a logout lands the caller.
const loginRoute = "/login"

// Navigator receives navigation requests issued by the engine.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Controller exposes login, logout and status refresh. It is the single
// writer of both the credential store and the registry, and it always writes
// the durable store before publishing to the registry so a concurrent reader
// of the store never observes an in-memory-only session.
type Controller struct {
	store     *credstore.FileStore
	registry  *registry.Registry
	directory *directory.Directory
	nav       Navigator
	secret    []byte

	rememberFor time.Duration
	now         func() time.Time
}

// NewController creates a session controller. nav may be nil when the caller
// handles navigation itself (e.g. an HTTP surface that redirects per request).
func NewController(store *credstore.FileStore, reg *registry.Registry, dir *directory.Directory, secret []byte, nav Navigator) *Controller {
	return &Controller{
		store:       store,
		registry:    reg,
		directory:   dir,
		nav:         nav,
		secret:      secret,
		rememberFor: DefaultRememberFor,
		now:         time.Now,
	}
}

// Login authenticates against the directory and establishes a session.
// Returns false on bad credentials or an unexpected persistence failure; in
// both cases any prior session is left untouched. Never panics or returns an
// error across this boundary.
func (c *Controller) Login(ctx context.Context, identifier, secret string, remember bool) bool {
	user, app, ok := c.directory.Authenticate(ctx, identifier, secret)
	if !ok {
		log.Debug().Str("identifier", identifier).Msg("login rejected")
		return false
	}

	var expiresAt *time.Time
	if remember {
		t := c.now().Add(c.rememberFor).UTC()
		expiresAt = &t
	}

	token, err := mintToken(c.secret, user, expiresAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to mint session token")
		return false
	}

	// Durable write happens-before the in-memory publish.
	if err := c.store.Write(token, user, remember, expiresAt); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
		return false
	}

	c.registry.SetSession(token, user, app)
	c.registry.SetInitialized()

	log.Info().
		Str("user", user.Email).
		Str("status", string(app.Status)).
		Bool("remember", remember).
		Msg("login succeeded")

	return true
}

// Logout clears the credential store and the registry, in that order, and
// requests navigation to the login route. Idempotent: safe to call when
// already logged out.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.store.Clear(); err != nil {
		// Still clear the in-memory session; the poller will retry the
		// durable side on its next pass.
		log.Error().Err(err).Msg("failed to clear credential store")
	}

	c.registry.ClearSession()

	log.Info().Msg("logged out")

	if c.nav != nil {
		c.nav.Navigate(loginRoute)
	}
}

// RefreshStatus re-derives the application record for the current session
// without re-authentication. A no-op when no session exists.
func (c *Controller) RefreshStatus(ctx context.Context) {
	state := c.registry.State()
	if !state.HasSession() {
		return
	}

	app := c.directory.ApplicationFor(state.User.ID)
	if app == nil {
		log.Warn().Str("user", state.User.Email).Msg("no application record for current session")
		return
	}

	c.registry.SetApplication(app)

	log.Debug().Str("user", state.User.Email).Str("status", string(app.Status)).Msg("application status refreshed")
}

// Snapshot returns the reconciled session view for consumers.
func (c *Controller) Snapshot() models.Snapshot {
	state := c.registry.State()

	snapshot := models.Snapshot{
		IsAuthenticated: c.registry.HasValidSession(),
	}
	if snapshot.IsAuthenticated {
		snapshot.User = state.User
		if state.Application != nil {
			snapshot.ApplicationStatus = state.Application.Status
		}
	}

	return snapshot
}
