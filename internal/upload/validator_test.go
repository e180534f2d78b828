package upload

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}
}

func TestValidator(t *testing.T) {
	t.Parallel()

	const maxBytes = 1 << 20
	v := NewValidator(maxBytes)

	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantMsg string
	}{
		{
			name:    "missing file",
			header:  nil,
			wantMsg: "Please upload a file",
		},
		{
			name:    "not an image",
			header:  fileHeader("notes.txt", "text/plain", 100),
			wantMsg: "Please make sure to upload an image",
		},
		{
			name:    "no content type",
			header:  fileHeader("mystery.bin", "", 100),
			wantMsg: "Please make sure to upload an image",
		},
		{
			name:    "too large",
			header:  fileHeader("vacation.JPG", "image/jpeg", 2<<20),
			wantMsg: fmt.Sprintf("File was too large, please upload an image less than %d bytes", maxBytes),
		},
		{
			name:   "valid png",
			header: fileHeader("profile.png", "image/png", 50<<10),
		},
		{
			name:   "exactly at the ceiling",
			header: fileHeader("edge.png", "image/png", maxBytes),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.header)
			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, StepValidate, perr.Step)
			assert.Equal(t, http.StatusBadRequest, perr.Status)
			assert.Equal(t, tc.wantMsg, perr.Message)
		})
	}
}
