// Package upload implements the profile image ingestion pipeline: validation,
// canonical re-encoding, and replication to the CDN.
package upload

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/truthcasting/service/internal/metrics"
	"github.com/truthcasting/service/internal/middleware"
	"github.com/truthcasting/service/internal/response"
)

// UploadResponse is the success payload of the upload endpoint.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Handler holds the HTTP handler for the upload endpoint.
type Handler struct {
	validator   *Validator
	transformer *Transformer
	replicator  *Replicator
}

// NewHandler creates a new upload Handler.
func NewHandler(v *Validator, t *Transformer, r *Replicator) *Handler {
	return &Handler{validator: v, transformer: t, replicator: r}
}

// UploadImage handles POST /api/auth/image. It expects a multipart form with a
// "file" field and a Bearer token already verified by the auth middleware. On
// success it responds with the public image URL; the same URL is recorded on
// the user's profile before the response is written.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		response.Forbidden(w, "Not authorized, token failed")
		return
	}

	var header *multipart.FileHeader
	file, fh, err := r.FormFile("file")
	if err == nil {
		header = fh
		defer file.Close()
	}

	if err := h.validator.Validate(header); err != nil {
		h.fail(w, err)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, &Error{Step: StepValidate, Status: http.StatusBadRequest, Message: msgUploadFile, Err: err})
		return
	}

	staged, err := h.transformer.Transform(raw, header.Filename)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.replicator.Replicate(r.Context(), u.Username, staged)
	if err != nil {
		h.fail(w, err)
		return
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	response.OK(w, UploadResponse{ImageURL: result.ImageURL})
}

// fail logs the diagnostic detail and sends the client only the short message.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var perr *Error
	if errors.As(err, &perr) {
		log.Printf("upload: %v", perr)
		metrics.UploadsTotal.WithLabelValues(string(perr.Step)).Inc()
		response.Message(w, perr.Status, perr.Message)
		return
	}
	log.Printf("upload: %v", err)
	metrics.UploadsTotal.WithLabelValues("internal").Inc()
	response.InternalError(w, "internal server error")
}
