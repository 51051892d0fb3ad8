package uploads

import (
	"context"

	"github.com/kadrportal/media/pkg/imagestore"
)

// MaxImages is the largest number of staged uploads one session may hold.
const MaxImages = 5

// SessionStore persists the ordered descriptor list of each session.
// Implementations do not need to serialize access per session; the Registry
// holds an exclusive lock around every read-modify-write cycle.
type SessionStore interface {
	// List returns the descriptors of a session in acceptance order.
	// A session with no entries yields an empty slice, not an error.
	List(ctx context.Context, sessionID string) ([]imagestore.Descriptor, error)

	// Save replaces the descriptor list of a session.
	Save(ctx context.Context, sessionID string, descriptors []imagestore.Descriptor) error

	// Delete drops the whole session entry, e.g. after a listing claimed
	// the descriptors.
	Delete(ctx context.Context, sessionID string) error
}
