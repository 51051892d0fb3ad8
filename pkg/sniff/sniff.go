package sniff

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// MediaType is the closed set of raster formats the upload pipeline accepts.
// The zero value is Unknown, which is never returned together with a nil error.
type MediaType int

const (
	Unknown MediaType = iota
	JPEG
	PNG
)

// sniffLen is the maximum number of bytes http.DetectContentType inspects.
const sniffLen = 512

// String returns the canonical short name of the media type.
func (m MediaType) String() string {
	switch m {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	default:
		return "unknown"
	}
}

// Extension returns the file extension used for stored artifacts, without a dot.
func (m MediaType) Extension() string {
	switch m {
	case JPEG:
		return "jpg"
	case PNG:
		return "png"
	default:
		return ""
	}
}

// MIME returns the MIME type string for HTTP responses.
func (m MediaType) MIME() string {
	switch m {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Detect inspects the leading bytes of content and returns the detected media
// type. Only well-formed JPEG and PNG signatures are accepted; any other
// content, including GIF, WebP, SVG or truncated garbage, yields
// ErrUnsupportedFormat. Detect performs no I/O and is safe to run on
// attacker-controlled bytes before anything is written to disk.
func Detect(head []byte) (MediaType, error) {
	if len(head) == 0 {
		return Unknown, ErrEmptyContent
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	switch http.DetectContentType(head) {
	case "image/jpeg":
		return JPEG, nil
	case "image/png":
		return PNG, nil
	default:
		return Unknown, ErrUnsupportedFormat
	}
}

// DetectUpload reads the first 512 bytes of a multipart upload and detects its
// media type. The read position is reset afterwards so the file can be
// consumed again by the storage layer.
func DetectUpload(fh *multipart.FileHeader) (MediaType, error) {
	if fh == nil {
		return Unknown, ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return Unknown, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return Unknown, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	if seeker, ok := f.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	return Detect(head[:n])
}
