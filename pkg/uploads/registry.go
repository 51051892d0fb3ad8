package uploads

import (
	"context"
	"mime/multipart"
	"sync"

	"github.com/kadrportal/media/pkg/imagestore"
)

// Registry is the staging area for not-yet-attached uploads, keyed by session
// id. Every operation on one session runs under that session's exclusive
// lock, making the capacity check, the persist and the append one atomic
// unit. The lock also covers file deletion during Remove so a concurrent
// Accept cannot observe a half-removed entry.
type Registry struct {
	images imagestore.Store
	state  SessionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry creates a registry over the given artifact store and session
// state backend.
func NewRegistry(images imagestore.Store, state SessionStore) *Registry {
	return &Registry{
		images: images,
		state:  state,
		locks:  make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex owned by sessionID, creating it on first use.
// Locks are never evicted; one mutex per live session is a negligible cost
// next to the session state itself.
func (r *Registry) sessionLock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[sessionID] = lock
	}
	return lock
}

// List returns the session's descriptors in acceptance order.
func (r *Registry) List(ctx context.Context, sessionID string) ([]imagestore.Descriptor, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	lock := r.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return r.state.List(ctx, sessionID)
}

// CapacityRemaining returns how many more uploads the session may accept.
func (r *Registry) CapacityRemaining(ctx context.Context, sessionID string) (int, error) {
	descriptors, err := r.List(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return MaxImages - len(descriptors), nil
}

// Accept validates and persists one upload for the session and appends the
// resulting descriptor. It returns the descriptor and the capacity left after
// the append. When the session is already full, ErrQuotaExceeded is returned
// before the image store is invoked; two concurrent calls can never both pass
// the capacity check.
func (r *Registry) Accept(ctx context.Context, sessionID string, fh *multipart.FileHeader) (imagestore.Descriptor, int, error) {
	if sessionID == "" {
		return imagestore.Descriptor{}, 0, ErrEmptySessionID
	}

	lock := r.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	descriptors, err := r.state.List(ctx, sessionID)
	if err != nil {
		return imagestore.Descriptor{}, 0, err
	}

	if len(descriptors) >= MaxImages {
		return imagestore.Descriptor{}, 0, ErrQuotaExceeded
	}

	desc, err := r.images.Persist(ctx, fh)
	if err != nil {
		return imagestore.Descriptor{}, MaxImages - len(descriptors), err
	}

	descriptors = append(descriptors, desc)
	if err := r.state.Save(ctx, sessionID, descriptors); err != nil {
		// The pair is on disk but untracked; remove it so nothing dangles.
		_ = r.images.Remove(ctx, desc.ID)
		return imagestore.Descriptor{}, 0, err
	}

	return desc, MaxImages - len(descriptors), nil
}

// Remove deletes the descriptor with the given id from the session, along
// with both stored artifacts. It reports whether an entry was actually
// removed: malformed ids and ids not staged in this session return false
// without touching the backing store, which also makes repeat removal of the
// same id a cheap no-op.
func (r *Registry) Remove(ctx context.Context, sessionID, id string) (bool, error) {
	if sessionID == "" {
		return false, ErrEmptySessionID
	}
	if !imagestore.ValidateID(id) {
		return false, nil
	}

	lock := r.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	descriptors, err := r.state.List(ctx, sessionID)
	if err != nil {
		return false, err
	}

	// Match by id, not by position: a concurrent removal may have shifted
	// the slice since the client rendered its view.
	idx := -1
	for i, d := range descriptors {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	if err := r.images.Remove(ctx, id); err != nil {
		return false, err
	}

	descriptors = append(descriptors[:idx], descriptors[idx+1:]...)
	if err := r.state.Save(ctx, sessionID, descriptors); err != nil {
		return false, err
	}

	return true, nil
}

// Claim hands the session's staged descriptors to an external consumer (the
// listing-creation step) and detaches them from the session. The artifacts
// stay in the store; ownership has moved to the caller.
func (r *Registry) Claim(ctx context.Context, sessionID string) ([]imagestore.Descriptor, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	lock := r.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	descriptors, err := r.state.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := r.state.Delete(ctx, sessionID); err != nil {
		return nil, err
	}

	return descriptors, nil
}
