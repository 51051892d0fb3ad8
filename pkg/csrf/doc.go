// Package csrf issues and verifies anti-forgery tokens bound to a session.
//
// A token is the HMAC-SHA256 of the session id under a server secret,
// base64url-encoded. It is deterministic per session, so the client can fetch
// it once and attach it to every mutating request; verification recomputes
// the MAC and compares in constant time.
package csrf
