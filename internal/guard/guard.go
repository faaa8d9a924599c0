// Package guard decides render/redirect per navigation from the reconciled
// session state and the static route classification.
package guard

import (
	"net/url"
	"sync"

	"github.com/paydeck/console/internal/models"
	"github.com/paydeck/console/internal/registry"
)

// State is the outcome of evaluating a route against the session.
type State int

const (
	// StateLoading means initialization has not resolved; no redirect
	// decision may be made yet.
	StateLoading State = iota
	StatePublicRoute
	StateUnauthenticatedOnProtected
	StatePendingApproval
	StateApproved
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePublicRoute:
		return "public_route"
	case StateUnauthenticatedOnProtected:
		return "unauthenticated_on_protected"
	case StatePendingApproval:
		return "pending_approval"
	case StateApproved:
		return "approved"
	}
	return "unknown"
}

// Decision is the guard's verdict for one evaluation. Screen and Application
// come from the same registry read, so a status screen is always rendered
// against the session that produced it.
type Decision struct {
	State       State
	Redirect    string
	Screen      *models.StatusScreen
	Application *models.ApplicationRecord
}

// Guard evaluates routes against the session registry. It is a read-only
// consumer of the registry.
type Guard struct {
	registry *registry.Registry
	routes   *RouteTable

	mu         sync.Mutex
	lastPath   string
	redirected bool
}

// New creates a guard over the given registry and route table.
func New(reg *registry.Registry, routes *RouteTable) *Guard {
	return &Guard{registry: reg, routes: routes}
}

// Evaluate classifies the requested path against the current session for an
// in-process view, where re-evaluations of one navigation must not redirect
// again. A non-empty Redirect is issued at most once per route-change event;
// the latch resets on every path change, which is what breaks redirect loops.
func (g *Guard) Evaluate(path string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	// The redirect latch resets on every path change.
	if path != g.lastPath {
		g.lastPath = path
		g.redirected = false
	}

	decision := g.decide(path)
	if decision.Redirect != "" {
		if g.redirected {
			decision.Redirect = ""
		} else {
			g.redirected = true
		}
	}
	return decision
}

// Decide classifies the requested path with no redirect suppression. Every
// incoming HTTP request is its own navigation, possibly from a different
// client, so the per-view latch does not apply and a redirect is always
// issued when the state calls for one.
func (g *Guard) Decide(path string) Decision {
	return g.decide(path)
}

func (g *Guard) decide(path string) Decision {
	state := g.registry.State()

	// Premature redirects while state is still resolving are the primary
	// bug class this guard exists to prevent.
	if !state.Initialized {
		return Decision{State: StateLoading}
	}

	authenticated := state.HasSession()

	if g.routes.Classify(path) == ClassPublic {
		decision := Decision{State: StatePublicRoute}
		if authenticated {
			decision.Redirect = DashboardPath
		}
		return decision
	}

	if !authenticated {
		return Decision{
			State:    StateUnauthenticatedOnProtected,
			Redirect: LoginPath + "?next=" + url.QueryEscape(path),
		}
	}

	// A session without an application record gates like a pending one;
	// the record is attached on login and restore, so its absence means
	// approval cannot be assumed.
	status := models.StatusPending
	if state.Application != nil {
		status = state.Application.Status
	}
	if !status.Approved() {
		screen := models.ScreenFor(status)
		return Decision{State: StatePendingApproval, Screen: &screen, Application: state.Application}
	}

	return Decision{State: StateApproved}
}
