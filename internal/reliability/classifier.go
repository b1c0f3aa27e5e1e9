package reliability

import (
	"errors"
	"net/http"
)

// Failure taxonomy for the session-generation pipeline and playback.
// Stage errors wrap one of these sentinels and propagate unchanged to
// the API boundary; there is no catch-and-continue inside the pipeline.
var (
	// ErrValidation marks a user-correctable request problem (missing
	// persona or empty tag selection). Reported immediately, no retry.
	ErrValidation = errors.New("invalid session request")
	// ErrUnknownPersona marks a persona id absent from the catalog.
	// This is a configuration fault, surfaced as a generic failure.
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrServiceUnavailable marks an upstream call that returned a
	// non-success status. Recovery is resubmission by the user.
	ErrServiceUnavailable = errors.New("upstream service unavailable")
	// ErrEmptyGeneration marks an upstream success response with no
	// usable text. Treated like ErrServiceUnavailable for messaging.
	ErrEmptyGeneration = errors.New("generation produced no usable text")
	// ErrMediaDecode marks synthesized audio the player could not
	// decode. Only a close/retry path is offered, never resume.
	ErrMediaDecode = errors.New("media decode failed")
	// ErrMissingCredential marks an unset upstream API credential.
	ErrMissingCredential = errors.New("service credential not configured")
)

// Classify maps a pipeline error onto the HTTP status and stable code
// string the API reports. Unrecognized errors are internal faults.
func Classify(err error) (status int, code string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, ErrUnknownPersona):
		return http.StatusInternalServerError, "unknown_persona"
	case errors.Is(err, ErrMissingCredential):
		return http.StatusInternalServerError, "credential_missing"
	case errors.Is(err, ErrEmptyGeneration):
		return http.StatusInternalServerError, "empty_generation"
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusInternalServerError, "service_unavailable"
	case errors.Is(err, ErrMediaDecode):
		return http.StatusInternalServerError, "media_decode_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// UserRetryable reports whether resubmitting the same request is a
// sensible recovery. Validation faults need a changed request and
// unknown personas need a config fix, so neither is retryable as-is.
func UserRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrServiceUnavailable), errors.Is(err, ErrEmptyGeneration), errors.Is(err, ErrMediaDecode):
		return true
	default:
		return false
	}
}
