package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/identity"
	"github.com/dmitrijs2005/usermanagement/internal/server/metrics"
	"github.com/google/uuid"
)

// TokenVerifier turns a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (identity.Identity, error)
}

// RequireAuth admits only requests carrying a valid bearer token and attaches
// the verified identity to the request context. Rejected requests never reach
// next.
func RequireAuth(tokens TokenVerifier, m *metrics.Metrics, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authenticate(tokens, r)
			switch {
			case errors.Is(err, common.ErrUnauthenticated):
				m.AuthRejected(metrics.RejectMissingToken)
				writeMessage(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			case err != nil:
				m.AuthRejected(metrics.RejectInvalidToken)
				logger.Debug(r.Context(), "token rejected", "path", r.URL.Path)
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

// authenticate returns common.ErrUnauthenticated when no token is presented
// and common.ErrInvalidToken when it does not verify.
func authenticate(tokens TokenVerifier, r *http.Request) (identity.Identity, error) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	token := strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
	if token == "" {
		return identity.Identity{}, common.ErrUnauthenticated
	}

	id, err := tokens.Verify(token)
	if err != nil {
		return identity.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}

// WithRequestLogging logs one line per request, tags it with a request id
// (taken from X-Request-ID or generated) and records request metrics by
// matched route pattern.
func WithRequestLogging(next http.Handler, logger logging.Logger, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		m.ObserveRequest(r.Method, route, rec.status, elapsed)

		logger.Info(r.Context(), "http.request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration_ms", elapsed.Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }
