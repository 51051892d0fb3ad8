// Package uploads tracks the per-session staging area of images accepted for
// a listing that has not been created yet.
//
// Each session holds an ordered list of descriptors, capped at MaxImages;
// acceptance order is meaningful downstream (the first image becomes the
// listing's default main image). The Registry serializes all mutations of one
// session under an exclusive per-session lock, so concurrent uploads from a
// multi-file drag-and-drop can never jointly exceed the quota. Sessions never
// contend with each other.
//
// Registry state lives behind the SessionStore interface; MemoryStore keeps
// it in-process, RedisStore shares it across instances. When an external
// listing-creation step claims the staged descriptors it clears the session
// entry through the same store.
package uploads
