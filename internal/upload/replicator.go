package upload

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/truthcasting/service/internal/metrics"
	"github.com/truthcasting/service/internal/user"
)

// ObjectWriter executes one signed PUT of payload to path on the object store.
type ObjectWriter interface {
	PutObject(ctx context.Context, path string, payload []byte) error
}

// ProfileStore is the slice of the identity store the replicator needs.
type ProfileStore interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	UpdateProfileImageURL(ctx context.Context, username, url string) error
}

// Replicator runs the replication saga for one staged image:
//
//	resolve user -> user-bucket PUT -> public-bucket PUT -> profile update -> cleanup
//
// The writes are sequential and each failure exit is distinct. A public-bucket
// failure does not roll back the user-bucket copy: the user-scoped object is
// harmless on its own, cheap to overwrite on retry, and deleting it could race
// a concurrent retry. The staged local file is only removed after a fully
// successful run; failed runs keep it for inspection and re-submission.
type Replicator struct {
	writer ObjectWriter
	store  ProfileStore
	host   string
	bucket string
}

// NewReplicator creates a Replicator targeting host/bucket.
func NewReplicator(writer ObjectWriter, store ProfileStore, host, bucket string) *Replicator {
	return &Replicator{writer: writer, store: store, host: host, bucket: bucket}
}

// StepResult records the outcome of one saga step.
type StepResult struct {
	Step Step
	Err  error
}

// Result is the outcome of a replication run. Steps records every step that
// executed, in order, including the one that failed.
type Result struct {
	UserBucketURL   string
	PublicBucketURL string
	ImageURL        string
	Steps           []StepResult
}

// Replicate writes the staged image to the user-scoped path and the shared
// public path, records the public URL on the user's profile, and disposes of
// the staged artifact. username must belong to the authenticated user.
func (r *Replicator) Replicate(ctx context.Context, username string, staged *Staged) (*Result, error) {
	res := &Result{}
	fail := func(step Step, msg string, err error) (*Result, error) {
		res.Steps = append(res.Steps, StepResult{Step: step, Err: err})
		return res, &Error{Step: step, Status: http.StatusInternalServerError, Message: msg, Err: err}
	}
	done := func(step Step) {
		res.Steps = append(res.Steps, StepResult{Step: step})
	}

	// The user record namespaces the user-bucket key; a lookup failure is
	// reported the same way as a user-bucket write failure.
	u, err := r.store.FindByUsername(ctx, username)
	if err != nil {
		return fail(StepResolveUser, msgUserBucket, err)
	}
	done(StepResolveUser)

	payload, err := os.ReadFile(staged.Path)
	if err != nil {
		return fail(StepUserBucket, msgUserBucket, err)
	}

	userPath := fmt.Sprintf("%s/%s/images/%s", r.bucket, u.Username, staged.FileName)
	if err := r.writer.PutObject(ctx, userPath, payload); err != nil {
		metrics.ObjectWritesTotal.WithLabelValues("user", "error").Inc()
		return fail(StepUserBucket, msgUserBucket, err)
	}
	metrics.ObjectWritesTotal.WithLabelValues("user", "ok").Inc()
	res.UserBucketURL = fmt.Sprintf("https://%s/%s", r.host, userPath)
	done(StepUserBucket)

	// Second, bucket-independent copy: deleting the user's prefix must not
	// take down images still referenced elsewhere. The staged bytes are
	// re-read so the second signature covers what is actually on disk.
	payload, err = os.ReadFile(staged.Path)
	if err != nil {
		return fail(StepPublicBucket, msgPublicBucket, err)
	}

	publicPath := fmt.Sprintf("%s/images/%s", r.bucket, staged.FileName)
	if err := r.writer.PutObject(ctx, publicPath, payload); err != nil {
		metrics.ObjectWritesTotal.WithLabelValues("public", "error").Inc()
		return fail(StepPublicBucket, msgPublicBucket, err)
	}
	metrics.ObjectWritesTotal.WithLabelValues("public", "ok").Inc()
	res.PublicBucketURL = fmt.Sprintf("https://%s/%s", r.host, publicPath)
	done(StepPublicBucket)

	res.ImageURL = res.PublicBucketURL
	if err := r.store.UpdateProfileImageURL(ctx, u.Username, res.ImageURL); err != nil {
		return fail(StepProfileUpdate, msgProfileUpdate, err)
	}
	done(StepProfileUpdate)

	// Both copies and the profile write landed; the request is a success even
	// if disposing of the staged artifact fails. An external sweep of the
	// staging root reclaims anything left behind.
	if err := staged.Remove(); err != nil {
		log.Printf("replicate: cleanup of %s failed: %v", staged.Dir, err)
		res.Steps = append(res.Steps, StepResult{Step: StepCleanup, Err: err})
	} else {
		done(StepCleanup)
	}

	return res, nil
}
