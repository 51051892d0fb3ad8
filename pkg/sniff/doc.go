// Package sniff determines the real media type of uploaded image content.
//
// Detection is based on the actual bytes (magic numbers via
// http.DetectContentType), never on the client-declared Content-Type header
// or the filename extension, which prevents format spoofing through renamed
// files. Only JPEG and PNG are accepted; everything else, including other
// image formats and non-image payloads, is rejected with
// ErrUnsupportedFormat.
//
// Usage:
//
//	media, err := sniff.DetectUpload(fh)
//	if err != nil {
//		return err // not a real JPEG or PNG
//	}
//	id := token + "." + media.Extension()
package sniff
