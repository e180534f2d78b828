package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"simple", "profile.png", "profile-photo.png"},
		{"uppercase extension", "Vacation.JPG", "vacation-photo.png"},
		{"spaces slugified", "My Summer Trip.jpeg", "my-summer-trip-photo.png"},
		{"path segments stripped", "../uploads/evil name.gif", "evil-name-photo.png"},
		{"no extension", "headshot", "headshot-photo.png"},
		{"unicode transliterated", "café photo.png", "cafe-photo-photo.png"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CanonicalFileName(tc.original))
		})
	}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestTransformProducesFixedSquarePNG(t *testing.T) {
	t.Parallel()

	tr := NewTransformer(t.TempDir())

	// A wide JPEG comes out as a 300x300 PNG regardless of input shape.
	staged, err := tr.Transform(jpegBytes(t, 640, 200), "Vacation Snapshot.JPG")
	require.NoError(t, err)
	assert.Equal(t, "vacation-snapshot-photo.png", staged.FileName)

	f, err := os.Open(staged.Path)
	require.NoError(t, err)
	defer f.Close()

	img, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestTransformIsDeterministic(t *testing.T) {
	t.Parallel()

	tr := NewTransformer(t.TempDir())
	raw := jpegBytes(t, 123, 456)

	first, err := tr.Transform(raw, "same.jpg")
	require.NoError(t, err)
	second, err := tr.Transform(raw, "same.jpg")
	require.NoError(t, err)

	// Same canonical name, distinct staging directories, identical bytes.
	assert.Equal(t, first.FileName, second.FileName)
	assert.NotEqual(t, first.Dir, second.Dir)

	a, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTransformRejectsCorruptBytes(t *testing.T) {
	t.Parallel()

	tr := NewTransformer(t.TempDir())

	_, err := tr.Transform([]byte("definitely not an image"), "broken.png")
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StepTransform, perr.Step)
	assert.Equal(t, http.StatusInternalServerError, perr.Status)
	assert.Equal(t, "Problem with file being moved to filesystem", perr.Message)
}

func TestStagedRemove(t *testing.T) {
	t.Parallel()

	tr := NewTransformer(t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))

	staged, err := tr.Transform(buf.Bytes(), "tiny.png")
	require.NoError(t, err)

	require.NoError(t, staged.Remove())
	_, err = os.Stat(staged.Dir)
	assert.True(t, os.IsNotExist(err))
}
