package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

// HeaderName is the request header checked first for the token.
const HeaderName = "X-CSRF-Token"

// FieldName is the form field checked when the header is absent.
const FieldName = "csrf_token"

// Guard issues and verifies tokens under one server secret.
type Guard struct {
	secret []byte
}

// NewGuard creates a Guard. The secret must be non-empty; an empty secret
// would make every token forgeable.
func NewGuard(secret string) (*Guard, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Guard{secret: []byte(secret)}, nil
}

// Token returns the anti-forgery token for the session.
func (g *Guard) Token(sessionID string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether token is valid for the session. Comparison is
// constant time via hmac.Equal.
func (g *Guard) Verify(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}

	got, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionID))
	return hmac.Equal(got, mac.Sum(nil))
}

// FromRequest extracts the token from the header or, failing that, the form.
// The request form must already be parsed by the caller.
func FromRequest(r *http.Request) string {
	if token := r.Header.Get(HeaderName); token != "" {
		return token
	}
	return r.FormValue(FieldName)
}
