// Package session assigns each visitor an opaque session id carried in a
// cookie.
//
// The id scopes the per-session upload staging area; user authentication is
// handled elsewhere and is deliberately not part of this package. Ids are
// UUIDs generated server-side; cookie values that do not parse as UUIDs are
// discarded and replaced, so a client can never choose its own session key.
package session
