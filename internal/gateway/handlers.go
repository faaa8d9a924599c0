package gateway

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
	Remember   bool   `json:"remember"`
}

type loginResponse struct {
	OK bool `json:"ok"`
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ok := g.controller.Login(r.Context(), req.Identifier, req.Secret, req.Remember)

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		// Bad credentials are a state, not an error; the message shown to
		// the user is the caller's responsibility.
		zerolog.Ctx(r.Context()).Debug().Str("identifier", req.Identifier).Msg("login rejected")
		w.WriteHeader(http.StatusUnauthorized)
	}

	if err := json.NewEncoder(w).Encode(loginResponse{OK: ok}); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func (g *Gateway) handleLogout(w http.ResponseWriter, r *http.Request) {
	g.controller.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleRefresh(w http.ResponseWriter, r *http.Request) {
	g.controller.RefreshStatus(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, g.controller.Snapshot())
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// pageHandler renders a minimal shell for a console page. The guard
// middleware has already decided that rendering is allowed.
func (g *Gateway) pageHandler(title, blurb string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, pageShell,
			template.HTMLEscapeString(title),
			template.HTMLEscapeString(title),
			template.HTMLEscapeString(blurb),
		)
	}
}

const pageShell = `<!doctype html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
<p>%s</p>
</body>
</html>
`
