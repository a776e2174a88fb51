// Package conversation owns the per-session turn-taking state machine:
// greeting, active turn exchange with the completion engine, and the
// irreversible finalization that hands a receipt to the order lifecycle.
package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brewandco/brew-counter/internal/menu"
	conv "github.com/brewandco/brew-counter/internal/model/conversation"
	"github.com/brewandco/brew-counter/internal/model/order"
	"github.com/brewandco/brew-counter/internal/receipt"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFinalized  = errors.New("session is finalized")
	ErrSubmitInFlight    = errors.New("another submit is in flight")
	ErrEmptyMessage      = errors.New("message text is empty")
	ErrEngineUnavailable = errors.New("completion engine unavailable")
)

// Engine is the black-box turn oracle. It receives the full ordered
// transcript on every call and returns a single reply text.
type Engine interface {
	Complete(ctx context.Context, turns []conv.Turn) (string, error)
}

// Placer turns a finalized receipt into a persisted order. Implemented by
// the order lifecycle manager.
type Placer interface {
	Place(ctx context.Context, rec order.Receipt, customerName string) (order.Order, error)
}

// Result is the outcome of one submitted turn.
type Result struct {
	Reply     string         // stripped agent reply, fit for display and speech
	Finalized bool           // true when this turn carried the receipt
	Receipt   *order.Receipt // present when Finalized
	Order     *order.Order   // placed order, present when Finalized
	PlaceErr  error          // non-fatal persistence failure, surfaced for a user notice
}

type session struct {
	meta           conv.Session
	turns          []conv.Turn
	pendingReceipt *order.Receipt
	inFlight       bool
}

// Service manages all active counter sessions.
type Service struct {
	mu       sync.Mutex
	engine   Engine
	orders   Placer
	sessions map[string]*session
}

// NewService creates the session service. engine may be nil when the
// completion engine is not configured; submits then fail with
// ErrEngineUnavailable while the rest of the API stays usable.
func NewService(engine Engine, orders Placer) *Service {
	return &Service{
		engine:   engine,
		orders:   orders,
		sessions: make(map[string]*session),
	}
}

// Begin provisions a session and speaks the fixed welcome line as its first
// agent turn, moving the session from greeting straight to active.
func (s *Service) Begin(_ context.Context) (conv.Session, string) {
	now := time.Now().UTC()
	sess := &session{
		meta: conv.Session{
			ID:        uuid.NewString(),
			State:     conv.StateActive,
			CreatedAt: now,
		},
		turns: []conv.Turn{{
			Role:      conv.RoleAgent,
			Text:      menu.WelcomeLine,
			CreatedAt: now,
		}},
	}

	s.mu.Lock()
	s.sessions[sess.meta.ID] = sess
	s.mu.Unlock()

	return sess.meta, menu.WelcomeLine
}

// Session returns the session metadata.
func (s *Service) Session(_ context.Context, sessionID string) (conv.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return conv.Session{}, ErrSessionNotFound
	}
	return sess.meta, nil
}

// Transcript returns a copy of the ordered turn history.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]conv.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	turns := make([]conv.Turn, len(sess.turns))
	copy(turns, sess.turns)
	return turns, nil
}

// Submit appends one user turn and drives a full engine round-trip. At most
// one submit may be in flight per session; a concurrent call is rejected so
// the transcript sent to the engine is always a consistent prefix. An engine
// failure leaves the appended user turn intact and the session active.
func (s *Service) Submit(ctx context.Context, sessionID, text, customerName string) (*Result, error) {
	if len(text) == 0 {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.meta.State == conv.StateFinalized {
		s.mu.Unlock()
		return nil, ErrSessionFinalized
	}
	if sess.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if s.engine == nil {
		s.mu.Unlock()
		return nil, ErrEngineUnavailable
	}

	sess.inFlight = true
	sess.turns = append(sess.turns, conv.Turn{
		Role:      conv.RoleUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	transcript := make([]conv.Turn, len(sess.turns))
	copy(transcript, sess.turns)
	s.mu.Unlock()

	rawReply, err := s.engine.Complete(ctx, transcript)

	s.mu.Lock()
	sess.inFlight = false
	if err != nil {
		// The user turn stays; the session remains active for a retry.
		s.mu.Unlock()
		return nil, err
	}
	if sess.meta.State == conv.StateFinalized {
		// Finalized by another path while the call was in flight; the stale
		// reply must not be applied to the transcript.
		s.mu.Unlock()
		return nil, ErrSessionFinalized
	}

	// Extraction runs on the raw reply only; the transcript stores the
	// stripped text.
	rec, found := receipt.Extract(rawReply)
	cleaned := receipt.Strip(rawReply)

	sess.turns = append(sess.turns, conv.Turn{
		Role:      conv.RoleAgent,
		Text:      cleaned,
		CreatedAt: time.Now().UTC(),
	})

	result := &Result{Reply: cleaned}
	if found {
		sess.meta.State = conv.StateFinalized
		sess.pendingReceipt = rec
		result.Finalized = true
		result.Receipt = rec
	}
	s.mu.Unlock()

	if found && s.orders != nil {
		placed, placeErr := s.orders.Place(ctx, *rec, customerName)
		result.Order = &placed
		result.PlaceErr = placeErr
	}

	return result, nil
}
