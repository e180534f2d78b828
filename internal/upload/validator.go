package upload

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// Validator rejects any upload that cannot safely proceed to transformation.
// All checks are over metadata already present on the multipart descriptor.
type Validator struct {
	maxBytes int64
}

// NewValidator creates a Validator with the given byte ceiling.
func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// Validate checks the descriptor in order, short-circuiting on the first
// failure: the file part must be present, declare an image MIME type, and not
// exceed the configured ceiling. A nil header means no file part was sent.
func (v *Validator) Validate(header *multipart.FileHeader) error {
	if header == nil {
		return &Error{Step: StepValidate, Status: http.StatusBadRequest, Message: msgUploadFile}
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image") {
		return &Error{Step: StepValidate, Status: http.StatusBadRequest, Message: msgUploadImage}
	}
	if header.Size > v.maxBytes {
		return &Error{
			Step:    StepValidate,
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("File was too large, please upload an image less than %d bytes", v.maxBytes),
		}
	}
	return nil
}
