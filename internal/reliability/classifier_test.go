package reliability

import (
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyValidation(t *testing.T) {
	status, code := Classify(fmt.Errorf("%w: tags are required", ErrValidation))
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, http.StatusBadRequest)
	}
	if code != "invalid_request" {
		t.Fatalf("code = %q, want invalid_request", code)
	}
}

func TestClassifyWrappedUpstream(t *testing.T) {
	err := fmt.Errorf("synthesize: %w: 503 Service Unavailable", ErrServiceUnavailable)
	status, code := Classify(err)
	if status != http.StatusInternalServerError || code != "service_unavailable" {
		t.Fatalf("Classify() = (%d, %q)", status, code)
	}
}

func TestClassifyUnknownError(t *testing.T) {
	status, code := Classify(fmt.Errorf("something else"))
	if status != http.StatusInternalServerError || code != "internal_error" {
		t.Fatalf("Classify() = (%d, %q)", status, code)
	}
}

func TestUserRetryable(t *testing.T) {
	if UserRetryable(ErrValidation) {
		t.Fatalf("validation errors should not be retryable as-is")
	}
	if UserRetryable(ErrUnknownPersona) {
		t.Fatalf("unknown persona should not be retryable")
	}
	if !UserRetryable(fmt.Errorf("wrap: %w", ErrEmptyGeneration)) {
		t.Fatalf("empty generation should be retryable by resubmission")
	}
	if !UserRetryable(ErrMediaDecode) {
		t.Fatalf("media decode should be retryable by resubmission")
	}
}
