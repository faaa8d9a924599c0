package guard

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/paydeck/console/internal/models"
)

// Middleware translates guard decisions into HTTP responses for page routes.
// Redirect decisions become 302s, the pending-approval state renders its
// status screen, and the loading state renders a holding page that retries
// rather than redirecting. Each request is decided via Decide, not Evaluate:
// over HTTP every request is a distinct navigation, so the per-view redirect
// latch must never suppress a redirect here.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Decide(r.URL.Path)

			switch {
			case decision.State == StateLoading:
				log.Debug().Str("path", r.URL.Path).Msg("session still resolving, holding")
				writeLoadingPage(w)

			case decision.Redirect != "":
				log.Debug().
					Str("path", r.URL.Path).
					Str("state", decision.State.String()).
					Str("target", decision.Redirect).
					Msg("redirecting")
				http.Redirect(w, r, decision.Redirect, http.StatusFound)

			case decision.Screen != nil:
				writeStatusPage(w, decision.Screen, decision.Application)

			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func writeLoadingPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Meta refresh re-requests the page once initialization has settled.
	fmt.Fprint(w, `<!doctype html><html><head><meta http-equiv="refresh" content="1"><title>Loading</title></head><body><p>Loading&hellip;</p></body></html>`)
}

var statusPageTmpl = template.Must(template.New("status").Parse(`<!doctype html>
<html>
<head><title>{{.Screen.Title}}</title></head>
<body class="status-{{.Screen.Variant}}">
<h1>{{.Screen.Title}}</h1>
<p>{{.Screen.Message}}</p>
{{if .App}}
<h2>{{.App.BusinessName}}</h2>
<ul>
<li>Email verified: {{.App.Steps.EmailVerified}}</li>
<li>Documents uploaded: {{.App.Steps.DocumentsUploaded}}</li>
<li>Bank details provided: {{.App.Steps.BankDetailsProvided}}</li>
<li>Background check passed: {{.App.Steps.BackgroundCheckPassed}}</li>
</ul>
{{end}}
</body>
</html>
`))

func writeStatusPage(w http.ResponseWriter, screen *models.StatusScreen, app *models.ApplicationRecord) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := statusPageTmpl.Execute(w, struct {
		Screen *models.StatusScreen
		App    *models.ApplicationRecord
	}{Screen: screen, App: app})
	if err != nil {
		log.Error().Err(err).Msg("failed to render status page")
	}
}
