package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/florecer/florecer/internal/playback"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	// Client to server.
	TypeClientControl MessageType = "client_control"
	TypeClientVolume  MessageType = "client_volume"
	TypeMediaTick     MessageType = "media_tick"
	TypeMediaDuration MessageType = "media_duration"
	TypeMediaEnded    MessageType = "media_ended"
	TypeMediaError    MessageType = "media_error"

	// Server to client.
	TypeChannelCommand MessageType = "channel_command"
	TypeStateSnapshot  MessageType = "state_snapshot"
	TypeErrorEvent     MessageType = "error_event"
)

// Transport control actions carried by client_control.
const (
	ActionPlayPause = "play_pause"
	ActionRestart   = "restart"
	ActionClose     = "close"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientControl is a transport-level button press: play/pause toggle,
// restart from zero, or closing the player.
type ClientControl struct {
	Type   MessageType `json:"type"`
	Action string      `json:"action"`
}

// ClientVolume moves the single user-facing volume slider (0-100).
type ClientVolume struct {
	Type  MessageType `json:"type"`
	Level int         `json:"level"`
}

// MediaTick reports narration playback progress from the client's
// decoder.
type MediaTick struct {
	Type            MessageType `json:"type"`
	PositionSeconds float64     `json:"position_seconds"`
}

// MediaDuration reports the narration duration once the client's
// decoder has read the headers.
type MediaDuration struct {
	Type            MessageType `json:"type"`
	DurationSeconds float64     `json:"duration_seconds"`
}

// MediaEnded reports natural end of the narration track.
type MediaEnded struct {
	Type MessageType `json:"type"`
}

// MediaError reports a decode fault in the narration track.
type MediaError struct {
	Type   MessageType `json:"type"`
	Detail string      `json:"detail"`
}

// ChannelCommand instructs the client to act on one of its two audio
// elements. Level is only meaningful for set_volume and is the
// effective per-channel gain in [0,1], ducking already applied.
type ChannelCommand struct {
	Type    MessageType `json:"type"`
	Channel string      `json:"channel"`
	Command string      `json:"command"`
	Level   float64     `json:"level,omitempty"`
}

// StateSnapshot mirrors the controller state after every transition so
// the client UI never has to infer it.
type StateSnapshot struct {
	Type  MessageType    `json:"type"`
	State playback.State `json:"state"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail,omitempty"`
}

// ParseClientMessage decodes and validates one inbound frame.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientControl:
		var msg ClientControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		switch msg.Action {
		case ActionPlayPause, ActionRestart, ActionClose:
		default:
			return nil, fmt.Errorf("invalid client_control action %q", msg.Action)
		}
		return msg, nil
	case TypeClientVolume:
		var msg ClientVolume
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	case TypeMediaTick:
		var msg MediaTick
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.PositionSeconds < 0 {
			return nil, errors.New("invalid media_tick position")
		}
		return msg, nil
	case TypeMediaDuration:
		var msg MediaDuration
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.DurationSeconds <= 0 {
			return nil, errors.New("invalid media_duration")
		}
		return msg, nil
	case TypeMediaEnded:
		return MediaEnded{Type: TypeMediaEnded}, nil
	case TypeMediaError:
		var msg MediaError
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
