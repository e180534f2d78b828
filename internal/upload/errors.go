package upload

import "fmt"

// Step identifies one stage of the upload pipeline.
type Step string

const (
	StepValidate      Step = "validate"
	StepTransform     Step = "transform"
	StepResolveUser   Step = "resolve_user"
	StepUserBucket    Step = "user_bucket_put"
	StepPublicBucket  Step = "public_bucket_put"
	StepProfileUpdate Step = "profile_update"
	StepCleanup       Step = "cleanup"
)

// Client-facing failure messages. The per-destination split matters: callers
// and operators need to know which of the two bucket writes failed.
const (
	msgUploadFile    = "Please upload a file"
	msgUploadImage   = "Please make sure to upload an image"
	msgFilesystem    = "Problem with file being moved to filesystem"
	msgUserBucket    = "Problem with uploading photo to User's Bucket"
	msgPublicBucket  = "Problem with uploading photo to Image's Bucket"
	msgProfileUpdate = "Problem updating user's profile image"
)

// Error is a terminal pipeline failure. Status and Message are what the client
// sees; Err carries the diagnostic cause for server-side logs only.
type Error struct {
	Step    Step
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }
