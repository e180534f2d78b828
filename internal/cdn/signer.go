// Package cdn writes objects to an S3-compatible store using individually
// signed raw HTTP PUTs. It is intentionally not a general object-store client:
// the only operation this service needs is "sign one PUT and execute it once".
package cdn

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// Writer signs and executes PUT requests against one S3-compatible host.
type Writer struct {
	host    string
	region  string
	creds   aws.Credentials
	signer  *v4.Signer
	client  *http.Client
	timeout time.Duration
	scheme  string
}

// NewWriter creates a Writer for the given host and long-lived key pair.
// Every PUT runs under its own deadline of timeout.
func NewWriter(host, region, accessKey, secretKey string, timeout time.Duration) *Writer {
	return &Writer{
		host:   host,
		region: region,
		creds: aws.Credentials{
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
		},
		signer:  v4.NewSigner(),
		client:  &http.Client{},
		timeout: timeout,
		scheme:  "https",
	}
}

// PutObject signs and executes a single PUT of payload to
// {scheme}://{host}/{path}. path carries the bucket and key segments, e.g.
// "bucket/alice/images/vacation-photo.png". The signature covers method,
// canonical path, headers, and the payload hash; it is time-bound and must
// never be reused for another destination. Success is any 2xx from the store.
func (w *Writer) PutObject(ctx context.Context, path string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	url := fmt.Sprintf("%s://%s/%s", w.scheme, w.host, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build put request: %w", err)
	}
	// Binary-safe regardless of the actual image format.
	req.Header.Set("Content-Type", "application/octet-stream")

	sum := sha256.Sum256(payload)
	if err := w.signer.SignHTTP(ctx, w.creds, req, hex.EncodeToString(sum[:]), "s3", w.region, time.Now()); err != nil {
		return fmt.Errorf("sign put request: %w", err)
	}

	// The transport recomputes both of these; a stale value from the signer
	// causes a signature mismatch or a transport error.
	req.Header.Del("Host")
	req.Header.Del("Content-Length")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("put %s: store returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
