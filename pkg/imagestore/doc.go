// Package imagestore persists accepted listing images together with their
// cover-crop thumbnails.
//
// Every stored image is a pair of artifacts sharing one identifier: the
// original at `<id>` and the thumbnail at `thumb_<id>`, so a directory or
// bucket listing alone pairs them deterministically. The identifier is 32
// lowercase hex characters from a cryptographically random token plus the
// extension of the sniffed format, and doubles as the on-disk filename.
//
// Persist is transactional over the pair: if thumbnail generation or the
// thumbnail write fails after the original landed, the original is deleted
// before the error is surfaced. A descriptor returned by Persist therefore
// always refers to two existing artifacts.
//
// Two backends implement the Store interface: LocalStore for a public
// directory on the filesystem and S3Store for S3-compatible object storage.
package imagestore
