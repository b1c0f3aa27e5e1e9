package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/florecer/florecer/internal/playback"
	"github.com/florecer/florecer/internal/protocol"
	"github.com/florecer/florecer/internal/reliability"
)

// handlePlaybackWS attaches a playback controller to an existing
// session. The socket carries transport controls and media-element
// reports inbound, and channel commands plus state snapshots outbound.
// Disconnecting does not end the session: the audio handle stays with
// the manager so a page reload can reattach.
func (s *Server) handlePlaybackWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sessions.Get(id); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbound := make(chan any, 256)
	narration := newWSChannel("narration", outbound)
	background := newWSChannel("background", outbound)
	ctrl := playback.NewController(narration, background, s.cfg.PlayerFullVolume, s.metrics)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					s.metrics.WSWriteErrors.WithLabelValues("write_json").Inc()
					cancel()
					return
				}
				if t, ok := messageTypeOf(msg); ok {
					s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
				}
			}
		}
	}()

	// Load the session's audio before handling any control input so the
	// first snapshot the client sees already reflects the loaded state.
	s.loadSessionAudio(ctrl, id, outbound)
	enqueue(outbound, snapshotOf(ctrl), s)

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			enqueue(outbound, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			}, s)
			continue
		}
		if t, ok := messageTypeOf(parsed); ok {
			s.metrics.WSMessages.WithLabelValues("inbound", string(t)).Inc()
		}
		_ = s.sessions.Touch(id)

		s.applyClientMessage(ctrl, id, parsed, outbound)
		enqueue(outbound, snapshotOf(ctrl), s)
	}

	cancel()
	<-writerDone
	s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()
}

// loadSessionAudio drives Loading then Ready/Playing for the session's
// stored narration. A revoked or missing handle fails the run instead,
// leaving the background loop audible behind the error state.
func (s *Server) loadSessionAudio(ctrl *playback.Controller, sessionID string, outbound chan any) {
	token := uuid.NewString()
	ctrl.BeginLoading(token)

	res, err := s.sessions.Resource(sessionID)
	if err == nil {
		if _, berr := res.Bytes(); berr != nil {
			err = berr
		}
	}
	if err != nil {
		ctrl.Fail(token, err)
		_, code := reliability.Classify(err)
		enqueue(outbound, protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			Code:      code,
			Retryable: reliability.UserRetryable(err),
			Detail:    err.Error(),
		}, s)
		return
	}
	ctrl.Resolve(token, res)
}

func (s *Server) applyClientMessage(ctrl *playback.Controller, sessionID string, parsed any, outbound chan any) {
	switch msg := parsed.(type) {
	case protocol.ClientControl:
		switch msg.Action {
		case protocol.ActionPlayPause:
			ctrl.TogglePlayPause()
		case protocol.ActionRestart:
			ctrl.Restart()
		case protocol.ActionClose:
			ctrl.Close()
		}
	case protocol.ClientVolume:
		ctrl.SetVolume(msg.Level)
	case protocol.MediaTick:
		ctrl.HandleTick(msg.PositionSeconds)
	case protocol.MediaDuration:
		ctrl.HandleDurationKnown(msg.DurationSeconds)
	case protocol.MediaEnded:
		ctrl.HandleEnded()
	case protocol.MediaError:
		ctrl.HandleDecodeError(msg.Detail)
		s.logger.Warn("narration decode fault", "session_id", sessionID, "detail", msg.Detail)
	}
}

func snapshotOf(ctrl *playback.Controller) protocol.StateSnapshot {
	return protocol.StateSnapshot{
		Type:  protocol.TypeStateSnapshot,
		State: ctrl.State(),
	}
}

// enqueue keeps websocket writes single-threaded; frames are dropped
// when the outbound queue is saturated.
func enqueue(outbound chan any, msg any, s *Server) {
	select {
	case outbound <- msg:
	default:
		if t, ok := messageTypeOf(msg); ok {
			s.metrics.WSWriteErrors.WithLabelValues("drop_" + string(t)).Inc()
		}
	}
}

// wsChannel renders controller channel operations as outbound commands
// for one of the client's two audio elements.
type wsChannel struct {
	name string
	out  chan any
}

func newWSChannel(name string, out chan any) *wsChannel {
	return &wsChannel{name: name, out: out}
}

func (c *wsChannel) Play() {
	c.send(protocol.ChannelCommand{Type: protocol.TypeChannelCommand, Channel: c.name, Command: "play"})
}

func (c *wsChannel) Pause() {
	c.send(protocol.ChannelCommand{Type: protocol.TypeChannelCommand, Channel: c.name, Command: "pause"})
}

func (c *wsChannel) SeekStart() {
	c.send(protocol.ChannelCommand{Type: protocol.TypeChannelCommand, Channel: c.name, Command: "seek_start"})
}

func (c *wsChannel) SetVolume(level float64) {
	c.send(protocol.ChannelCommand{Type: protocol.TypeChannelCommand, Channel: c.name, Command: "set_volume", Level: level})
}

func (c *wsChannel) send(cmd protocol.ChannelCommand) {
	select {
	case c.out <- cmd:
	default:
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.ClientControl:
		return m.Type, true
	case protocol.ClientVolume:
		return m.Type, true
	case protocol.MediaTick:
		return m.Type, true
	case protocol.MediaDuration:
		return m.Type, true
	case protocol.MediaEnded:
		return m.Type, true
	case protocol.MediaError:
		return m.Type, true
	case protocol.ChannelCommand:
		return m.Type, true
	case protocol.StateSnapshot:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
