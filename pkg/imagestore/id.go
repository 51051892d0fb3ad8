package imagestore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/kadrportal/media/pkg/sniff"
)

// idPattern is the exact shape of a stored image id: a 32-character lowercase
// hex token plus the extension of one of the accepted formats. Remove relies
// on this to reject crafted ids before any filesystem or bucket access.
var idPattern = regexp.MustCompile(`^[a-f0-9]{32}\.(?:jpg|png)$`)

// NewID generates a collision-resistant identifier for an accepted upload.
// The token part comes from 16 bytes of crypto/rand, rendered as lowercase
// hex; the extension matches the sniffed media type.
func NewID(media sniff.MediaType) (string, error) {
	ext := media.Extension()
	if ext == "" {
		return "", sniff.ErrUnsupportedFormat
	}

	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate image id: %w", err)
	}

	return hex.EncodeToString(token) + "." + ext, nil
}

// ValidateID reports whether id has the exact shape produced by NewID.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}
