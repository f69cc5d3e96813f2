package hatch

import (
	"errors"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// ErrEmptyReference is returned when a reference image has no data.
var ErrEmptyReference = errors.New("reference image data is empty")

// ReferenceImage is an already-generated image passed back into a
// generation call, typically the front-facing render of a character that
// the remaining directions must stay consistent with.
type ReferenceImage struct {
	Data     []byte
	MimeType string
	Label    string // human-readable origin, e.g. "Farmer (Front)"
}

// NewReferenceImage wraps raw image bytes. When mimeType is empty it is
// detected from the content.
func NewReferenceImage(data []byte, mimeType string) (*ReferenceImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyReference
	}
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return &ReferenceImage{Data: data, MimeType: mimeType}, nil
}

// NewReferenceImageFromFile loads a reference image from disk, detecting
// its MIME type from content.
func NewReferenceImageFromFile(path string) (*ReferenceImage, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect mime type of %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference image %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyReference
	}
	return &ReferenceImage{Data: data, MimeType: mtype.String(), Label: path}, nil
}
