package shelf

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the API key was rejected by the shelf server
var ErrUnauthorized = errors.New("invalid or expired shelf API key")

// ErrNotConfigured indicates no server URL or API key is configured
var ErrNotConfigured = errors.New("shelf server is not configured")

// ServerError represents a 5xx error from the shelf server
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("shelf server error: HTTP %d", e.StatusCode)
}

// UploadError is a failed asset upload for a single file. The file stays
// out of the dedup cache and is retried on the next scan.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// RegistrationError is a failed bookmark registration for a single file.
// The asset upload already succeeded, so the asset sits orphaned on the
// server until the retried import uploads a fresh copy.
type RegistrationError struct {
	Filename string
	AssetID  string
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("bookmark registration failed: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
