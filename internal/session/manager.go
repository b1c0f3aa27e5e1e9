package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/florecer/florecer/internal/pipeline"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

var ErrNotFound = errors.New("session not found")

// Session is one generated meditation held server-side so the audio
// survives the client handoff between the request page and the player
// page. The resource pointer is shared with any playback controller
// attached to the session; it is released exactly once, by End or by
// the janitor.
type Session struct {
	ID             string    `json:"session_id"`
	Status         Status    `json:"status"`
	PersonaID      string    `json:"persona_id"`
	Tags           []string  `json:"tags"`
	VoiceID        string    `json:"voice_id"`
	AudioBytes     int       `json:"audio_bytes"`
	AudioAvailable bool      `json:"audio_available"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	resource *pipeline.AudioResource
}

type Manager struct {
	mu                sync.RWMutex
	sessions          map[string]*Session
	inactivityTimeout time.Duration
	onExpire          func(*Session)
}

func NewManager(inactivityTimeout time.Duration) *Manager {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 10 * time.Minute
	}
	return &Manager{
		sessions:          make(map[string]*Session),
		inactivityTimeout: inactivityTimeout,
	}
}

func (m *Manager) SetExpireHook(hook func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

// Create registers a freshly generated session and takes ownership of
// its audio resource.
func (m *Manager) Create(personaID, voiceID string, tags []string, res *pipeline.AudioResource) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:             uuid.NewString(),
		Status:         StatusActive,
		PersonaID:      personaID,
		Tags:           append([]string(nil), tags...),
		VoiceID:        voiceID,
		CreatedAt:      now,
		LastActivityAt: now,
		resource:       res,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return clone(s)
}

func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

// Resource hands out the session's audio handle. A handle from an
// ended session is already revoked; callers see
// pipeline.ErrResourceReleased when they try to read it.
func (m *Manager) Resource(sessionID string) (*pipeline.AudioResource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.resource == nil {
		return nil, pipeline.ErrResourceReleased
	}
	return s.resource, nil
}

func (m *Manager) Touch(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	s.LastActivityAt = time.Now().UTC()
	return nil
}

// End closes the session and revokes its audio handle. Ending an
// already-ended session is a no-op beyond the activity bump.
func (m *Manager) End(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	endLocked(s)
	return clone(s), nil
}

func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive()
			}
		}
	}()
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.sessions {
		if s.Status == StatusActive {
			count++
		}
	}
	return count
}

func (m *Manager) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session

	m.mu.Lock()
	for _, s := range m.sessions {
		if s.Status != StatusActive {
			continue
		}
		if now.Sub(s.LastActivityAt) < m.inactivityTimeout {
			continue
		}
		endLocked(s)
		expired = append(expired, clone(s))
	}
	hook := m.onExpire
	m.mu.Unlock()

	if hook != nil {
		for _, s := range expired {
			hook(s)
		}
	}
}

func endLocked(s *Session) {
	if s.resource != nil {
		s.resource.Release()
		s.resource = nil
	}
	s.Status = StatusEnded
	s.LastActivityAt = time.Now().UTC()
}

func clone(s *Session) *Session {
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	if s.resource != nil {
		c.AudioBytes = s.resource.Len()
		c.AudioAvailable = !s.resource.Released()
	} else {
		c.AudioBytes = 0
		c.AudioAvailable = false
	}
	return &c
}
