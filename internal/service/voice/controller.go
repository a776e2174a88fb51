package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// State is the single capture/playback mode of a voice session. Exactly one
// state is active at a time, so the microphone and the speaker can never be
// live together.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateSpeaking  State = "speaking"
)

var (
	ErrVoiceModeOff = errors.New("voice mode is off")
	ErrNotIdle      = errors.New("capture requires the idle state")
)

// Synthesizer converts agent text into playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (audio []byte, format string, err error)
}

// Sink delivers audio to the client. Play blocks until the client reports
// playback finished or ctx is canceled. Stop aborts the current playback.
type Sink interface {
	Play(ctx context.Context, audio []byte, format string) error
	Stop()
}

// ControllerOptions tune a voice controller.
type ControllerOptions struct {
	// ResumeDelay is the pause between playback ending and capture
	// restarting, long enough for the speaker tail to clear the mic.
	ResumeDelay time.Duration

	// OnState is invoked on every state change. It runs with the
	// controller lock held and must not call back into the controller.
	OnState func(State)
}

// DefaultControllerOptions returns the production tuning.
func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{
		ResumeDelay: 200 * time.Millisecond,
	}
}

// Controller serializes microphone capture and audio playback for one voice
// session.
type Controller struct {
	synth Synthesizer
	sink  Sink
	opts  ControllerOptions

	mu          sync.Mutex
	voiceMode   bool
	state       State
	lastSpoken  string
	generation  uint64
	playCancel  context.CancelFunc
	resumeTimer *time.Timer
	closed      bool
}

// NewController creates a controller in the idle state with voice mode off.
func NewController(synth Synthesizer, sink Sink, opts ControllerOptions) *Controller {
	if opts.ResumeDelay <= 0 {
		opts.ResumeDelay = DefaultControllerOptions().ResumeDelay
	}

	return &Controller{
		synth: synth,
		sink:  sink,
		opts:  opts,
		state: StateIdle,
	}
}

// State returns the current capture/playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// VoiceMode reports whether voice interaction is enabled.
func (c *Controller) VoiceMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voiceMode
}

// SetVoiceMode toggles voice interaction. Turning it off halts any capture,
// playback, or pending capture resume and returns the session to idle.
func (c *Controller) SetVoiceMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.voiceMode == on {
		return
	}

	c.voiceMode = on
	if on {
		// A fresh voice session may repeat the last line spoken before
		// the toggle.
		c.lastSpoken = ""
		return
	}

	c.haltLocked()
	c.setStateLocked(StateIdle)
}

// BeginListening starts microphone capture. Capture can only start from the
// idle state; callers must wait out any active playback.
func (c *Controller) BeginListening() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.voiceMode {
		return ErrVoiceModeOff
	}
	if c.state != StateIdle {
		return ErrNotIdle
	}

	c.setStateLocked(StateListening)
	return nil
}

// EndListening stops capture, typically because a transcript arrived or the
// client reported a capture error. It is a no-op outside the listening state.
func (c *Controller) EndListening() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateListening {
		c.setStateLocked(StateIdle)
	}
}

// Speak synthesizes and plays an agent reply. A reply identical to the
// previously spoken one is skipped. Any in-flight playback is halted before
// the new one starts. When resume is true, capture restarts after playback
// settles.
func (c *Controller) Speak(ctx context.Context, text string, resume bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.closed || !c.voiceMode {
		c.mu.Unlock()
		return nil
	}
	if text == c.lastSpoken {
		c.mu.Unlock()
		return nil
	}

	c.haltLocked()
	c.lastSpoken = text
	c.generation++
	gen := c.generation

	playCtx, cancel := context.WithCancel(ctx)
	c.playCancel = cancel
	c.setStateLocked(StateSpeaking)
	c.mu.Unlock()

	audio, format, err := c.synth.Synthesize(playCtx, text)
	if err != nil {
		// The reply was never spoken; a retry must not be deduped away.
		c.mu.Lock()
		if gen == c.generation && c.lastSpoken == text {
			c.lastSpoken = ""
		}
		c.mu.Unlock()
		c.finishPlayback(gen, resume)
		return fmt.Errorf("synthesis failed: %w", err)
	}

	playErr := c.sink.Play(playCtx, audio, format)
	c.finishPlayback(gen, resume)

	if playErr != nil && !errors.Is(playErr, context.Canceled) {
		return fmt.Errorf("playback failed: %w", playErr)
	}
	return nil
}

// Close halts all activity. The controller rejects further use.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.closed = true
	c.voiceMode = false
	c.haltLocked()
	c.setStateLocked(StateIdle)
}

// finishPlayback settles the state after a playback attempt, unless a newer
// Speak call has already superseded it.
func (c *Controller) finishPlayback(gen uint64, resume bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.closed {
		return
	}

	if c.playCancel != nil {
		c.playCancel()
		c.playCancel = nil
	}
	c.setStateLocked(StateIdle)

	if resume && c.voiceMode {
		c.scheduleResumeLocked()
	}
}

func (c *Controller) haltLocked() {
	if c.playCancel != nil {
		c.playCancel()
		c.playCancel = nil
		c.sink.Stop()
	}
	if c.resumeTimer != nil {
		c.resumeTimer.Stop()
		c.resumeTimer = nil
	}
}

func (c *Controller) scheduleResumeLocked() {
	gen := c.generation
	c.resumeTimer = time.AfterFunc(c.opts.ResumeDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if gen != c.generation || c.closed {
			return
		}
		c.resumeTimer = nil
		if !c.voiceMode || c.state != StateIdle {
			return
		}
		c.setStateLocked(StateListening)
	})
}

func (c *Controller) setStateLocked(next State) {
	if c.state == next {
		return
	}
	c.state = next
	if c.opts.OnState != nil {
		c.opts.OnState(next)
	}
}
