package hatch

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestNewReferenceImage(t *testing.T) {
	ref, err := NewReferenceImage(pngBytes(t), "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ref.MimeType, "mime type detected from content")

	ref, err = NewReferenceImage([]byte("anything"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", ref.MimeType, "explicit mime type wins")

	_, err = NewReferenceImage(nil, "")
	assert.ErrorIs(t, err, ErrEmptyReference)
}

func TestNewReferenceImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	ref, err := NewReferenceImageFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ref.MimeType)
	assert.Equal(t, path, ref.Label)
	assert.NotEmpty(t, ref.Data)
}

func TestNewReferenceImageFromFile_Missing(t *testing.T) {
	_, err := NewReferenceImageFromFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
