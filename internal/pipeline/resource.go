package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrResourceReleased is returned when audio bytes are requested from
// a handle that has already been revoked.
var ErrResourceReleased = errors.New("audio resource released")

// AudioResource is the playable narration produced by one pipeline
// run: the MPEG bytes plus the persona/tags snapshot used for display.
// Exactly one owner holds it at a time; Release revokes the handle and
// drops the bytes so repeated open/close cycles cannot leak audio.
type AudioResource struct {
	ref       string
	personaID string
	tags      []string
	createdAt time.Time

	mu       sync.Mutex
	data     []byte
	released bool
}

func newAudioResource(personaID string, tags []string, data []byte) *AudioResource {
	snapshot := make([]string, len(tags))
	copy(snapshot, tags)
	return &AudioResource{
		ref:       uuid.NewString(),
		personaID: personaID,
		tags:      snapshot,
		createdAt: time.Now().UTC(),
		data:      data,
	}
}

// Ref is the opaque revocable reference handed to clients.
func (r *AudioResource) Ref() string { return r.ref }

func (r *AudioResource) PersonaID() string { return r.personaID }

func (r *AudioResource) Tags() []string {
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}

func (r *AudioResource) CreatedAt() time.Time { return r.createdAt }

// Bytes returns the narration audio, or ErrResourceReleased once the
// handle has been revoked.
func (r *AudioResource) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, ErrResourceReleased
	}
	return r.data, nil
}

// Len reports the audio size without surrendering the bytes; zero
// after release.
func (r *AudioResource) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return 0
	}
	return len(r.data)
}

// Release revokes the handle. Idempotent.
func (r *AudioResource) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
	r.data = nil
}

func (r *AudioResource) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
