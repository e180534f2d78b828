package upload

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Output format is fixed: a 300x300 PNG, whatever the input looked like. This
// bounds storage cost and gives every consumer a uniform rendering.
const (
	outputSize = 300
	nameSuffix = "-photo.png"
)

// Transformer re-encodes validated uploads to the canonical format and stages
// the result on local disk. Replication reads the staged bytes back rather
// than holding them in memory, so signing and cleanup operate on a verifiable
// filesystem artifact.
type Transformer struct {
	stagingDir string
}

// NewTransformer creates a Transformer staging under stagingDir.
func NewTransformer(stagingDir string) *Transformer {
	return &Transformer{stagingDir: stagingDir}
}

// Staged is a transformed image persisted to the local staging area.
type Staged struct {
	FileName string // canonical object key, e.g. "vacation-photo.png"
	Dir      string // per-request staging directory
	Path     string // full path of the staged file
}

// Remove deletes the staged file together with its per-request directory.
func (s *Staged) Remove() error {
	return os.RemoveAll(s.Dir)
}

// CanonicalFileName derives the object key from the original file name: base
// name with the extension stripped, slugified to a lowercase URL-safe token,
// plus the fixed suffix. It is a pure function of the base name, so repeated
// uploads of the same name overwrite each other's stored object.
func CanonicalFileName(originalName string) string {
	base := filepath.Base(originalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return slug.Make(base) + nameSuffix
}

// Transform decodes raw, resizes it to the fixed square output, and writes the
// PNG under a fresh per-request directory so concurrent uploads of the same
// file name never collide on the staging path.
func (t *Transformer) Transform(raw []byte, originalName string) (*Staged, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &Error{Step: StepTransform, Status: http.StatusInternalServerError, Message: msgFilesystem, Err: err}
	}
	resized := imaging.Resize(img, outputSize, outputSize, imaging.Lanczos)

	name := CanonicalFileName(originalName)
	dir := filepath.Join(t.stagingDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &Error{Step: StepTransform, Status: http.StatusInternalServerError, Message: msgFilesystem, Err: err}
	}

	path := filepath.Join(dir, name)
	if err := imaging.Save(resized, path); err != nil {
		_ = os.RemoveAll(dir)
		return nil, &Error{Step: StepTransform, Status: http.StatusInternalServerError, Message: msgFilesystem, Err: err}
	}

	return &Staged{FileName: name, Dir: dir, Path: path}, nil
}
