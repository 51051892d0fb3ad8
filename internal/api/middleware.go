package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kadrportal/media/pkg/csrf"
	"github.com/kadrportal/media/pkg/imagestore"
	"github.com/kadrportal/media/pkg/session"
)

// maxRequestSize caps the whole multipart request body: the image size limit
// plus headroom for multipart framing and form fields.
const maxRequestSize = imagestore.MaxFileSize + 1<<20

// Authenticator decides whether a request belongs to an authenticated user.
// Real user authentication lives outside this service; the default
// implementation accepts any request with an established session.
type Authenticator interface {
	Authenticated(r *http.Request) bool
}

// SessionAuthenticator accepts every request that carries a session id.
type SessionAuthenticator struct{}

func (SessionAuthenticator) Authenticated(r *http.Request) bool {
	_, ok := session.IDFromContext(r.Context())
	return ok
}

// limitBody caps the request body before anything parses it.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects unauthenticated requests with 401.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.Authenticated(r) {
			writeError(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCSRF rejects mutating requests whose token does not match the
// session. The token comes from the X-CSRF-Token header or the csrf_token
// form field.
func (h *Handler) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := session.IDFromContext(r.Context())
		if !ok || !h.guard.Verify(sid, csrf.FromRequest(r)) {
			writeError(w, http.StatusBadRequest, "CSRF token mismatch.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with duration and status.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
