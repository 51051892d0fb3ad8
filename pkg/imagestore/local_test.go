package imagestore_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadrportal/media/pkg/imagestore"
	"github.com/kadrportal/media/pkg/sniff"
	"github.com/kadrportal/media/pkg/thumbnail"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 99, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, img, nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := &http.Request{
		Method: "POST",
		Header: http.Header{
			"Content-Type": []string{writer.FormDataContentType()},
		},
		Body: io.NopCloser(body),
	}
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestLocalStorePersist(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T) (*imagestore.LocalStore, string) {
		t.Helper()
		dir := t.TempDir()
		store, err := imagestore.NewLocalStore(dir, "/uploads/listings/")
		require.NoError(t, err)
		return store, dir
	}

	t.Run("jpeg produces a complete pair", func(t *testing.T) {
		t.Parallel()
		store, dir := newStore(t)
		fh := createFileHeader(t, "photo.jpg", encodeJPEG(t, 1024, 768))

		desc, err := store.Persist(context.Background(), fh)
		require.NoError(t, err)

		assert.True(t, imagestore.ValidateID(desc.ID))
		assert.True(t, strings.HasSuffix(desc.ID, ".jpg"))
		assert.Equal(t, "/uploads/listings/"+desc.ID, desc.Path)
		assert.Equal(t, "/uploads/listings/thumb_"+desc.ID, desc.Thumb)

		assert.FileExists(t, filepath.Join(dir, desc.ID))
		assert.FileExists(t, filepath.Join(dir, "thumb_"+desc.ID))
		assert.True(t, store.Exists(context.Background(), desc.ID))

		thumbData, err := os.ReadFile(filepath.Join(dir, "thumb_"+desc.ID))
		require.NoError(t, err)
		img, format, err := image.Decode(bytes.NewReader(thumbData))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, imagestore.ThumbWidth, img.Bounds().Dx())
		assert.Equal(t, imagestore.ThumbHeight, img.Bounds().Dy())
	})

	t.Run("png keeps png extension and codec", func(t *testing.T) {
		t.Parallel()
		store, dir := newStore(t)
		fh := createFileHeader(t, "scan.png", encodePNG(t, 640, 480))

		desc, err := store.Persist(context.Background(), fh)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(desc.ID, ".png"))

		thumbData, err := os.ReadFile(filepath.Join(dir, "thumb_"+desc.ID))
		require.NoError(t, err)
		_, format, err := image.Decode(bytes.NewReader(thumbData))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
	})

	t.Run("spoofed gif rejected before any write", func(t *testing.T) {
		t.Parallel()
		store, dir := newStore(t)
		fh := createFileHeader(t, "cat.jpg", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"))
		fh.Header.Set("Content-Type", "image/jpeg")

		_, err := store.Persist(context.Background(), fh)
		require.ErrorIs(t, err, sniff.ErrUnsupportedFormat)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("truncated png rolls back the original", func(t *testing.T) {
		t.Parallel()
		store, dir := newStore(t)
		// Valid PNG signature, unusable body: passes sniffing, fails decode.
		fh := createFileHeader(t, "broken.png", encodePNG(t, 640, 480)[:24])

		_, err := store.Persist(context.Background(), fh)
		require.ErrorIs(t, err, thumbnail.ErrDecode)
		assert.Empty(t, listDir(t, dir), "no artifact may survive a codec failure")
	})

	t.Run("oversized upload rejected", func(t *testing.T) {
		t.Parallel()
		store, dir := newStore(t)
		fh := createFileHeader(t, "big.jpg", encodeJPEG(t, 64, 64))
		fh.Size = imagestore.MaxFileSize + 1

		_, err := store.Persist(context.Background(), fh)
		require.ErrorIs(t, err, imagestore.ErrFileTooLarge)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("empty upload rejected", func(t *testing.T) {
		t.Parallel()
		store, _ := newStore(t)
		fh := createFileHeader(t, "empty.jpg", encodeJPEG(t, 64, 64))
		fh.Size = 0

		_, err := store.Persist(context.Background(), fh)
		assert.ErrorIs(t, err, imagestore.ErrEmptyFile)
	})

	t.Run("short transfer rejected", func(t *testing.T) {
		t.Parallel()
		store, dir := newStore(t)
		fh := createFileHeader(t, "partial.jpg", encodeJPEG(t, 256, 256))
		fh.Size += 1000 // declared size larger than what the stream delivers

		_, err := store.Persist(context.Background(), fh)
		require.ErrorIs(t, err, imagestore.ErrShortUpload)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("nil file header", func(t *testing.T) {
		t.Parallel()
		store, _ := newStore(t)
		_, err := store.Persist(context.Background(), nil)
		assert.ErrorIs(t, err, imagestore.ErrNilFileHeader)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		store, _ := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Persist(ctx, createFileHeader(t, "photo.jpg", encodeJPEG(t, 64, 64)))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalStoreRemove(t *testing.T) {
	t.Parallel()

	t.Run("removes both artifacts", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store, err := imagestore.NewLocalStore(dir, "/uploads/listings/")
		require.NoError(t, err)

		desc, err := store.Persist(context.Background(), createFileHeader(t, "p.jpg", encodeJPEG(t, 320, 240)))
		require.NoError(t, err)

		require.NoError(t, store.Remove(context.Background(), desc.ID))
		assert.NoFileExists(t, filepath.Join(dir, desc.ID))
		assert.NoFileExists(t, filepath.Join(dir, "thumb_"+desc.ID))
		assert.False(t, store.Exists(context.Background(), desc.ID))
	})

	t.Run("absent artifacts are not an error", func(t *testing.T) {
		t.Parallel()
		store, err := imagestore.NewLocalStore(t.TempDir(), "/uploads/listings/")
		require.NoError(t, err)

		id, err := imagestore.NewID(sniff.JPEG)
		require.NoError(t, err)
		assert.NoError(t, store.Remove(context.Background(), id))
	})

	t.Run("crafted ids never reach the filesystem", func(t *testing.T) {
		t.Parallel()
		store, err := imagestore.NewLocalStore(t.TempDir(), "/uploads/listings/")
		require.NoError(t, err)

		for _, id := range []string{"../../etc/passwd", "notahex.png", "", "a.jpg"} {
			assert.ErrorIs(t, store.Remove(context.Background(), id), imagestore.ErrInvalidID, id)
		}
	})
}

func TestNewLocalStore(t *testing.T) {
	t.Parallel()

	t.Run("empty dir rejected", func(t *testing.T) {
		t.Parallel()
		_, err := imagestore.NewLocalStore("", "/uploads/")
		assert.ErrorIs(t, err, imagestore.ErrInvalidConfig)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "uploads", "listings")
		store, err := imagestore.NewLocalStore(dir, "/uploads/listings")
		require.NoError(t, err)
		assert.DirExists(t, dir)
		assert.Equal(t, dir, store.Dir())

		// Base URL gets a trailing slash.
		desc, err := store.Persist(context.Background(), createFileHeader(t, "p.jpg", encodeJPEG(t, 64, 64)))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/listings/"+desc.ID, desc.Path)
	})
}
