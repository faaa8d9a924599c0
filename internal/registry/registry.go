// Package registry holds the authoritative in-memory session snapshot.
//
// The registry outlives any consumer that reads from it, so a view torn down
// and rebuilt mid-navigation never observes an authenticated caller as
// transiently logged out. Only the session controller and the reconciliation
// poller write to it; everything else is a read-only consumer.
package registry

import (
	"sync"

	"github.com/paydeck/console/internal/models"
)

// State is a point-in-time copy of the registry contents.
type State struct {
	Token       string
	User        *models.UserRecord
	Application *models.ApplicationRecord

	// Initialized flips to true once the durable store has been read at
	// least once. Consumers must not make redirect decisions before then.
	Initialized bool
}

// HasSession returns true if both token and user are present.
func (s State) HasSession() bool {
	return s.Token != "" && s.User != nil
}

// Registry is the process-wide session snapshot. Construct one with New and
// inject it; Default exists for callers that want the shared instance.
type Registry struct {
	mu    sync.RWMutex
	state State
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared process-wide registry, created lazily on first
// access. One instance lives for the lifetime of the process.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
	})
	return defaultReg
}

// State returns a copy of the current state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SetSession publishes an authenticated session. Token and user travel
// together; a partial pair is discarded to keep the session atomic.
func (r *Registry) SetSession(token string, user *models.UserRecord, app *models.ApplicationRecord) {
	if token == "" || user == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Token = token
	r.state.User = user
	r.state.Application = app
}

// SetApplication replaces the application record for the current session.
// A no-op when no session is held, the record never exists on its own.
func (r *Registry) SetApplication(app *models.ApplicationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.HasSession() {
		return
	}
	r.state.Application = app
}

// SetInitialized marks the initial durable-store read as resolved.
func (r *Registry) SetInitialized() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Initialized = true
}

// ClearSession drops the session but keeps the initialized flag, clearing a
// session is itself proof that initialization has resolved.
func (r *Registry) ClearSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Token = ""
	r.state.User = nil
	r.state.Application = nil
}

// HasValidSession returns true iff token, user and initialized are all set.
func (r *Registry) HasValidSession() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.HasSession() && r.state.Initialized
}
