// Package orders tracks orders through the pending → in-progress →
// completed lifecycle, keeping an optimistic local view that the next
// successful store read supersedes.
package orders

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brewandco/brew-counter/internal/model/order"
)

var (
	ErrNotPersisted      = errors.New("order not persisted to store")
	ErrUnknownOrder      = errors.New("unknown order")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository is the order store adapter surface. All operations are
// non-throwing by contract; failures come back as false/empty.
type Repository interface {
	Create(ctx context.Context, o order.Order) bool
	List(ctx context.Context) []order.Order
	UpdateStatus(ctx context.Context, orderID string, status order.Status) bool
}

// Service is the order lifecycle manager.
type Service struct {
	mu    sync.RWMutex
	repo  Repository
	local map[string]order.Order
}

// NewService creates the lifecycle manager. repo may be nil when the store
// is not configured; orders then live only in memory.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		local: make(map[string]order.Order),
	}
}

// Place seeds a new order from a finalized receipt: client-generated id,
// UTC timestamp, pending status, "Guest" when no name was given. The
// in-memory order is returned even when persistence fails, with
// ErrNotPersisted surfaced separately so the caller can show a notice.
func (s *Service) Place(ctx context.Context, rec order.Receipt, customerName string) (order.Order, error) {
	if customerName == "" {
		customerName = "Guest"
	}

	o := order.Order{
		OrderID:      uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Items:        rec.Items,
		Total:        rec.Total,
		Status:       order.StatusPending,
		CustomerName: customerName,
		SpecialNotes: rec.SpecialNotes,
	}

	s.mu.Lock()
	s.local[o.OrderID] = o
	s.mu.Unlock()

	if s.repo == nil {
		return o, ErrNotPersisted
	}
	if !s.repo.Create(ctx, o) {
		log.Printf("[orders] order %s placed locally but not persisted", o.OrderID)
		return o, ErrNotPersisted
	}
	return o, nil
}

// Advance moves an order along the linear lifecycle path. Skips and
// regressions are rejected and leave the status unchanged. The local view
// updates immediately (optimistic); the remote write is best-effort and the
// next Refresh reconciles.
func (s *Service) Advance(ctx context.Context, orderID string, target order.Status) error {
	if !target.Valid() {
		return ErrInvalidTransition
	}

	s.mu.Lock()
	current, ok := s.local[orderID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownOrder
	}
	if !current.Status.CanAdvanceTo(target) {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	current.Status = target
	s.local[orderID] = current
	s.mu.Unlock()

	if s.repo != nil && !s.repo.UpdateStatus(ctx, orderID, target) {
		log.Printf("[orders] status update for %s not confirmed, awaiting reconciliation", orderID)
	}
	return nil
}

// Refresh pulls the store's view and reconciles: the store wins for every
// order id it returns, while locally placed orders the store has not yet
// echoed are kept. Returns the refreshed snapshot in chronological order.
func (s *Service) Refresh(ctx context.Context) []order.Order {
	if s.repo == nil {
		return s.Snapshot()
	}

	remote := s.repo.List(ctx)
	if len(remote) > 0 {
		s.mu.Lock()
		for _, o := range remote {
			s.local[o.OrderID] = o
		}
		s.mu.Unlock()
	}
	return s.Snapshot()
}

// Snapshot returns a copy of the current local view, oldest first.
func (s *Service) Snapshot() []order.Order {
	s.mu.RLock()
	out := make([]order.Order, 0, len(s.local))
	for _, o := range s.local {
		out = append(out, o)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
