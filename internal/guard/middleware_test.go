package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paydeck/console/internal/models"
	"github.com/paydeck/console/internal/registry"
)

func serveGuarded(g *Guard, path string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page content"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	g.Middleware()(next).ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Run("holds with a loading page while uninitialized", func(t *testing.T) {
		g := New(registry.New(), DefaultRouteTable())

		rec := serveGuarded(g, DashboardPath)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "refresh")
		assert.NotContains(t, rec.Body.String(), "page content")
	})

	t.Run("redirects unauthenticated callers on protected pages", func(t *testing.T) {
		reg := registry.New()
		reg.SetInitialized()
		g := New(reg, DefaultRouteTable())

		rec := serveGuarded(g, DashboardPath)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?next=%2Fdashboard", rec.Header().Get("Location"))
	})

	t.Run("redirects a repeated request for the same protected page", func(t *testing.T) {
		reg := registry.New()
		reg.SetInitialized()
		g := New(reg, DefaultRouteTable())

		// One guard serves every request; a second request for the same
		// path must never be served the protected content.
		for i := 0; i < 3; i++ {
			rec := serveGuarded(g, DashboardPath)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login?next=%2Fdashboard", rec.Header().Get("Location"))
			assert.NotContains(t, rec.Body.String(), "page content")
		}
	})

	t.Run("redirects authenticated callers off public pages", func(t *testing.T) {
		g := New(authedRegistry(models.StatusApproved), DefaultRouteTable())

		for i := 0; i < 2; i++ {
			rec := serveGuarded(g, LoginPath)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, DashboardPath, rec.Header().Get("Location"))
		}
	})

	t.Run("renders the status screen for a pending application", func(t *testing.T) {
		g := New(authedRegistry(models.StatusUnderReview), DefaultRouteTable())

		rec := serveGuarded(g, DashboardPath)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Application under review")
		assert.Contains(t, rec.Body.String(), "Acme Trading")
		assert.NotContains(t, rec.Body.String(), "page content")
	})

	t.Run("passes approved sessions through", func(t *testing.T) {
		g := New(authedRegistry(models.StatusApproved), DefaultRouteTable())

		rec := serveGuarded(g, DashboardPath)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "page content")
	})
}
