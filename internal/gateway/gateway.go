// Package gateway serves the console shell and the session API over HTTP.
// It is a consumer of the session engine: handlers call the controller and
// page routes sit behind the route guard.
package gateway

import (
	"net/http"

	"filippo.io/csrf"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/paydeck/console/internal/guard"
	"github.com/paydeck/console/internal/logger"
	"github.com/paydeck/console/internal/session"
)

// Gateway wires the session engine to an HTTP surface.
type Gateway struct {
	controller  *session.Controller
	guard       *guard.Guard
	log         zerolog.Logger
	corsOrigins []string
}

// New creates a gateway over the given controller and guard.
func New(controller *session.Controller, g *guard.Guard, log zerolog.Logger, corsOrigins []string) *Gateway {
	return &Gateway{
		controller:  controller,
		guard:       g,
		log:         log,
		corsOrigins: corsOrigins,
	}
}

// Handler builds the router. API routes get CORS, page routes get CSRF
// protection and the route guard.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Requests(g.log))

	r.Route("/api", func(r chi.Router) {
		r.Use(withCORS(g.corsOrigins))
		r.Post("/login", g.handleLogin)
		r.Post("/logout", g.handleLogout)
		r.Post("/refresh", g.handleRefresh)
		r.Get("/session", g.handleSession)
	})

	protection := csrf.New()
	r.Group(func(r chi.Router) {
		r.Use(protection.Handler)
		r.Use(g.guard.Middleware())

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, guard.DashboardPath, http.StatusFound)
		})
		r.Get(guard.LoginPath, g.pageHandler("Sign in", "Enter your credentials to access the merchant console."))
		r.Get(guard.RegisterPath, g.pageHandler("Create account", "Register a new merchant account."))
		r.Get(guard.ForgotPasswordPath, g.pageHandler("Reset password", "Request a password reset link."))
		r.Get(guard.DashboardPath, g.pageHandler("Dashboard", "Sales, payouts and activity at a glance."))
		r.Get(guard.TransactionsPath, g.pageHandler("Transactions", "Recent transactions for your business."))
		r.Get(guard.PayoutsPath, g.pageHandler("Payouts", "Scheduled and completed payouts."))
		r.Get(guard.SettingsPath, g.pageHandler("Settings", "Business profile and notification settings."))
		r.Get(guard.ApplicationStatusPath, g.pageHandler("Application status", "Your application has been approved."))
	})

	return r
}

// withCORS adds CORS support for the session API.
func withCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true, // Required for cookie-based authentication
	})
	return middleware.Handler
}
