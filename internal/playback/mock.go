package playback

import "sync"

// MockChannel records transport commands for tests, standing in for a
// client-side media element.
type MockChannel struct {
	mu       sync.Mutex
	playing  bool
	position float64
	volume   float64
	commands []string
}

func NewMockChannel() *MockChannel { return &MockChannel{volume: 1} }

func (m *MockChannel) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = true
	m.commands = append(m.commands, "play")
}

func (m *MockChannel) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.commands = append(m.commands, "pause")
}

func (m *MockChannel) SeekStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = 0
	m.commands = append(m.commands, "seek_start")
}

func (m *MockChannel) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
	m.commands = append(m.commands, "set_volume")
}

func (m *MockChannel) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *MockChannel) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MockChannel) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Commands returns the transport commands received so far, in order.
func (m *MockChannel) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.commands))
	copy(out, m.commands)
	return out
}
