package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/metrics"
)

// NewRouter mounts every route. Identity-bearing routes sit behind
// RequireAuth; the whole mux is wrapped in request logging.
func NewRouter(h *Handler, tokens TokenVerifier, m *metrics.Metrics, logger logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	guard := RequireAuth(tokens, m, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Welcome)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", m.Handler())

	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)

	mux.Handle("GET /user", guard(http.HandlerFunc(h.GetUser)))
	mux.Handle("PATCH /user", guard(http.HandlerFunc(h.UpdateUser)))
	mux.Handle("DELETE /user", guard(http.HandlerFunc(h.DeleteUser)))
	mux.Handle("GET /user/{id}", guard(http.HandlerFunc(h.GetUserByID)))

	return WithRequestLogging(mux, logger, m)
}
