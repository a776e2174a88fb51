package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/brewandco/brew-counter/internal/model/speech"
	convservice "github.com/brewandco/brew-counter/internal/service/conversation"
	voiceservice "github.com/brewandco/brew-counter/internal/service/voice"
)

// SpeechService abstracts synthesis so the handler can be tested with fakes.
type SpeechService interface {
	SynthesizeSpeech(ctx context.Context, req *speech.TTSRequest) (*speech.TTSResponse, error)
}

// WebSocketHandler drives a voice ordering session over one connection. The
// client owns the microphone and the speaker; capture and playback turns are
// sequenced server-side by a voice controller.
type WebSocketHandler struct {
	convSvc   *convservice.Service
	speechSvc SpeechService
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler creates a voice WebSocket handler.
func NewWebSocketHandler(convSvc *convservice.Service, speechSvc SpeechService) *WebSocketHandler {
	return &WebSocketHandler{
		convSvc:   convSvc,
		speechSvc: speechSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the voice WebSocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn serializes writes; the controller emits from timer goroutines while
// the read loop emits from its own.
type wsConn struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
}

func (c *wsConn) send(msgType string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("[voice] write %s failed: %v", msgType, err)
	}
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// wsSink delivers synthesized audio to the client and waits for the client's
// playback report.
type wsSink struct {
	conn *wsConn

	mu   sync.Mutex
	done chan struct{}
}

func (s *wsSink) Play(ctx context.Context, audio []byte, format string) error {
	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()

	s.conn.send("audio", map[string]interface{}{
		"audioData": base64.StdEncoding.EncodeToString(audio),
		"format":    format,
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *wsSink) Stop() {
	s.playbackEnded()
}

func (s *wsSink) playbackEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// wsSynth adapts the speech service to the controller's synthesizer contract.
type wsSynth struct {
	speechSvc SpeechService
	sessionID string
}

func (s *wsSynth) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	resp, err := s.speechSvc.SynthesizeSpeech(ctx, &speech.TTSRequest{
		SessionID: s.sessionID,
		Text:      text,
	})
	if err != nil {
		return nil, "", err
	}
	return resp.AudioData, resp.Format, nil
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if h.convSvc == nil {
		http.Error(w, "conversation service unavailable", http.StatusServiceUnavailable)
		return
	}
	if _, err := h.convSvc.Session(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	rawConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed: %v", err)
		return
	}
	defer rawConn.Close()

	log.Printf("[voice] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := &wsConn{conn: rawConn, sessionID: sessionID}
	sink := &wsSink{conn: conn}

	ctrl := voiceservice.NewController(
		&wsSynth{speechSvc: h.speechSvc, sessionID: sessionID},
		sink,
		voiceservice.ControllerOptions{
			ResumeDelay: voiceservice.DefaultControllerOptions().ResumeDelay,
			OnState: func(state voiceservice.State) {
				conn.send("state", map[string]interface{}{"state": state})
			},
		},
	)
	defer ctrl.Close()

	rawConn.SetReadDeadline(time.Now().Add(60 * time.Second))
	rawConn.SetPongHandler(func(string) error {
		rawConn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	conn.send("state", map[string]interface{}{"state": ctrl.State()})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := rawConn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[voice] read error: %v", err)
				}
				return
			}

			rawConn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				conn.send("error", map[string]string{"message": "session mismatch"})
				continue
			}

			h.handleMessage(ctx, conn, sink, ctrl, sessionID, &msg)
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *wsConn, sink *wsSink, ctrl *voiceservice.Controller, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "config":
		h.handleConfig(conn, ctrl, msg.Data)
	case "begin_listening":
		if err := ctrl.BeginListening(); err != nil {
			conn.send("error", map[string]string{"message": err.Error()})
		}
	case "transcript":
		ctrl.EndListening()
		h.handleUserText(ctx, conn, ctrl, sessionID, msg.Data)
	case "text":
		h.handleUserText(ctx, conn, ctrl, sessionID, msg.Data)
	case "capture_error":
		ctrl.EndListening()
		var payload struct {
			Message string `json:"message"`
		}
		json.Unmarshal(msg.Data, &payload)
		log.Printf("[voice] capture error session=%s: %s", sessionID, payload.Message)
		conn.send("notice", map[string]string{"message": "microphone capture failed"})
	case "capture_unsupported":
		ctrl.SetVoiceMode(false)
		conn.send("notice", map[string]string{"message": "voice input is not available on this device"})
	case "playback_ended":
		sink.playbackEnded()
	default:
		conn.send("error", map[string]string{"message": "unsupported message type: " + msg.Type})
	}
}

func (h *WebSocketHandler) handleConfig(conn *wsConn, ctrl *voiceservice.Controller, raw json.RawMessage) {
	var cfg struct {
		VoiceMode *bool `json:"voiceMode"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		conn.send("error", map[string]string{"message": "invalid config payload"})
		return
	}

	if cfg.VoiceMode != nil {
		if *cfg.VoiceMode && h.speechSvc == nil {
			conn.send("notice", map[string]string{"message": "voice replies are not configured"})
			return
		}
		ctrl.SetVoiceMode(*cfg.VoiceMode)
		conn.send("config", map[string]interface{}{"voiceMode": ctrl.VoiceMode()})
	}
}

func (h *WebSocketHandler) handleUserText(ctx context.Context, conn *wsConn, ctrl *voiceservice.Controller, sessionID string, raw json.RawMessage) {
	var payload struct {
		Text         string `json:"text"`
		CustomerName string `json:"customerName"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		conn.send("error", map[string]string{"message": "invalid text payload"})
		return
	}
	if payload.Text == "" {
		return
	}

	conn.send("user", map[string]string{"text": payload.Text})

	result, err := h.convSvc.Submit(ctx, sessionID, payload.Text, payload.CustomerName)
	if err != nil {
		conn.send("error", map[string]string{"message": err.Error()})
		return
	}

	conn.send("agent", map[string]interface{}{
		"text":      result.Reply,
		"finalized": result.Finalized,
	})

	if result.Finalized {
		conn.send("receipt", map[string]interface{}{
			"receipt": result.Receipt,
			"order":   result.Order,
		})
		if result.PlaceErr != nil {
			conn.send("notice", map[string]string{"message": "order confirmed but not yet synced to the shop"})
		}
	}

	// Playback blocks until the client reports it finished, so the reply is
	// spoken off the read loop. Capture resumes afterwards unless the order
	// is done.
	go func() {
		if err := ctrl.Speak(ctx, result.Reply, !result.Finalized); err != nil {
			log.Printf("[voice] speak failed session=%s: %v", sessionID, err)
			conn.send("notice", map[string]string{"message": "voice reply unavailable"})
		}
	}()
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
