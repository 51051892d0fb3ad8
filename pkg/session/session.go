package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config holds environment-driven session settings.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"media_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Secure     bool          `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

type ctxKey struct{}

// Middleware ensures the request carries a valid session id cookie, issuing a
// new one when absent or malformed, and stores the id in the request context.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolveID(r, cfg.CookieName)
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// resolveID returns the session id from the cookie, or "" when the cookie is
// missing or not a server-issued UUID.
func resolveID(r *http.Request, cookieName string) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext extracts the session id placed by Middleware.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
