package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/kadrportal/media/pkg/sniff"
	"github.com/kadrportal/media/pkg/thumbnail"
)

// LocalStore implements Store on a public filesystem directory. All artifact
// names are generated ids validated against a fixed pattern, so no
// caller-supplied path component ever reaches the filesystem.
type LocalStore struct {
	dir     string // absolute path of the upload directory
	baseURL string // URL prefix of served artifacts, e.g. "/uploads/listings/"
}

// NewLocalStore creates a filesystem-backed store rooted at dir. The
// directory is resolved to an absolute path and created if missing; baseURL
// is the public prefix under which artifacts are served.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, ErrInvalidConfig
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStore{dir: absDir, baseURL: baseURL}, nil
}

// Dir returns the absolute upload directory, for mounting a static file server.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Persist validates the upload, writes the original and derives its
// thumbnail. The original is removed again if anything fails after it was
// written, so the returned descriptor always refers to a complete pair.
func (s *LocalStore) Persist(ctx context.Context, fh *multipart.FileHeader) (Descriptor, error) {
	select {
	case <-ctx.Done():
		return Descriptor{}, ctx.Err()
	default:
	}

	if err := validateUpload(fh); err != nil {
		return Descriptor{}, err
	}

	media, err := sniff.DetectUpload(fh)
	if err != nil {
		return Descriptor{}, err
	}

	id, err := NewID(media)
	if err != nil {
		return Descriptor{}, err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	originalPath := filepath.Join(s.dir, id)
	if err := s.writeOriginal(ctx, fh, originalPath); err != nil {
		return Descriptor{}, err
	}

	if err := s.writeThumbnail(originalPath, filepath.Join(s.dir, ThumbPrefix+id), media); err != nil {
		// Never leave an original without its thumbnail.
		_ = os.Remove(originalPath)
		return Descriptor{}, err
	}

	return Descriptor{
		ID:    id,
		Path:  s.baseURL + id,
		Thumb: s.baseURL + ThumbPrefix + id,
	}, nil
}

// writeOriginal streams the upload to dst with context checks, removing the
// partial file on any failure. A byte count short of the declared size means
// the transfer was incomplete and must not be processed as an image.
func (s *LocalStore) writeOriginal(ctx context.Context, fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	written := int64(0)
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			_ = out.Close()
			_ = os.Remove(dst)
			return ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			nw, writeErr := out.Write(buf[:n])
			if writeErr != nil {
				_ = out.Close()
				_ = os.Remove(dst)
				return fmt.Errorf("%w: %v", ErrFailedToWriteFile, writeErr)
			}
			written += int64(nw)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = out.Close()
			_ = os.Remove(dst)
			return fmt.Errorf("%w: %v", ErrFailedToReadFile, readErr)
		}
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	if written != fh.Size {
		_ = os.Remove(dst)
		return ErrShortUpload
	}

	return nil
}

func (s *LocalStore) writeThumbnail(originalPath, thumbPath string, media sniff.MediaType) error {
	f, err := os.Open(originalPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}

	thumb, err := thumbnail.Generate(f, media, ThumbWidth, ThumbHeight)
	_ = f.Close()
	if err != nil {
		return err
	}

	if err := os.WriteFile(thumbPath, thumb, 0644); err != nil {
		_ = os.Remove(thumbPath)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return nil
}

// Remove deletes both artifacts of id. Malformed ids fail with ErrInvalidID
// before any filesystem access; artifacts that are already gone are ignored.
func (s *LocalStore) Remove(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !ValidateID(id) {
		return ErrInvalidID
	}

	var errs []error
	for _, name := range []string{id, ThumbPrefix + id} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err))
		}
	}

	return errors.Join(errs...)
}

// Exists reports whether both artifacts of id are present.
func (s *LocalStore) Exists(ctx context.Context, id string) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}

	if !ValidateID(id) {
		return false
	}

	for _, name := range []string{id, ThumbPrefix + id} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}

	return true
}
