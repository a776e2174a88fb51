package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brewandco/brew-counter/internal/model/order"
)

type fakeRepo struct {
	created       []order.Order
	createOK      bool
	listResult    []order.Order
	statusUpdates map[string]order.Status
	updateOK      bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{createOK: true, updateOK: true, statusUpdates: make(map[string]order.Status)}
}

func (f *fakeRepo) Create(_ context.Context, o order.Order) bool {
	f.created = append(f.created, o)
	return f.createOK
}

func (f *fakeRepo) List(_ context.Context) []order.Order {
	return f.listResult
}

func (f *fakeRepo) UpdateStatus(_ context.Context, orderID string, status order.Status) bool {
	f.statusUpdates[orderID] = status
	return f.updateOK
}

func sampleReceipt() order.Receipt {
	return order.Receipt{
		Items: []order.OrderItem{{Name: "Latte", Milk: "oat milk", Price: 6.25, Quantity: 1}},
		Total: 6.25,
	}
}

func TestPlaceSeedsPendingOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	placed, err := svc.Place(context.Background(), sampleReceipt(), "")
	if err != nil {
		t.Fatalf("Place err: %v", err)
	}
	if placed.Status != order.StatusPending {
		t.Fatalf("expected pending, got %s", placed.Status)
	}
	if placed.OrderID == "" {
		t.Fatal("expected a generated order id")
	}
	if placed.CustomerName != "Guest" {
		t.Fatalf("expected Guest default, got %q", placed.CustomerName)
	}
	if len(repo.created) != 1 || repo.created[0].OrderID != placed.OrderID {
		t.Fatalf("expected a create call with the same id")
	}
}

func TestPlaceSurvivesPersistenceFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createOK = false
	svc := NewService(repo)

	placed, err := svc.Place(context.Background(), sampleReceipt(), "Sam")
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got %v", err)
	}
	if placed.Status != order.StatusPending || placed.OrderID == "" {
		t.Fatalf("order must still be usable: %+v", placed)
	}

	// The order remains visible locally.
	snapshot := svc.Snapshot()
	if len(snapshot) != 1 || snapshot[0].OrderID != placed.OrderID {
		t.Fatalf("order missing from snapshot: %+v", snapshot)
	}
}

func TestAdvanceFollowsLinearPath(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	placed, _ := svc.Place(context.Background(), sampleReceipt(), "")

	if err := svc.Advance(context.Background(), placed.OrderID, order.StatusInProgress); err != nil {
		t.Fatalf("Advance err: %v", err)
	}
	if err := svc.Advance(context.Background(), placed.OrderID, order.StatusCompleted); err != nil {
		t.Fatalf("Advance err: %v", err)
	}
	if repo.statusUpdates[placed.OrderID] != order.StatusCompleted {
		t.Fatal("remote update not issued")
	}
}

func TestAdvanceRejectsSkipAndRegression(t *testing.T) {
	svc := NewService(newFakeRepo())
	placed, _ := svc.Place(context.Background(), sampleReceipt(), "")

	if err := svc.Advance(context.Background(), placed.OrderID, order.StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("skip should be rejected, got %v", err)
	}

	svc.Advance(context.Background(), placed.OrderID, order.StatusInProgress)
	if err := svc.Advance(context.Background(), placed.OrderID, order.StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("regression should be rejected, got %v", err)
	}

	// Status unchanged after the rejections.
	if got := svc.Snapshot()[0].Status; got != order.StatusInProgress {
		t.Fatalf("status corrupted by rejected transition: %s", got)
	}
}

func TestAdvanceUnknownOrder(t *testing.T) {
	svc := NewService(newFakeRepo())
	if err := svc.Advance(context.Background(), "nope", order.StatusInProgress); !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
}

func TestRefreshSupersedesOptimisticState(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	placed, _ := svc.Place(context.Background(), sampleReceipt(), "")

	// Staff advances locally while the store still reports pending: the
	// store wins on the next poll.
	svc.Advance(context.Background(), placed.OrderID, order.StatusInProgress)
	stale := placed
	stale.Status = order.StatusPending
	repo.listResult = []order.Order{stale}

	refreshed := svc.Refresh(context.Background())
	if len(refreshed) != 1 || refreshed[0].Status != order.StatusPending {
		t.Fatalf("store state should supersede local: %+v", refreshed)
	}
}

func TestRefreshKeepsOrdersStoreHasNotEchoed(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	placed, _ := svc.Place(context.Background(), sampleReceipt(), "")

	other := order.Order{OrderID: "remote-1", Timestamp: time.Now().Add(-time.Hour), Status: order.StatusCompleted}
	repo.listResult = []order.Order{other}

	refreshed := svc.Refresh(context.Background())
	if len(refreshed) != 2 {
		t.Fatalf("expected local + remote orders, got %d", len(refreshed))
	}
	// Chronological order: the older remote order comes first.
	if refreshed[0].OrderID != "remote-1" || refreshed[1].OrderID != placed.OrderID {
		t.Fatalf("unexpected order: %+v", refreshed)
	}
}

func TestComputeStats(t *testing.T) {
	svc := NewService(nil)
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	seed := []order.Order{
		{OrderID: "1", Timestamp: base, Total: 10, Status: order.StatusCompleted,
			Items: []order.OrderItem{{Name: "Latte", Milk: "oat milk", Quantity: 2}}},
		{OrderID: "2", Timestamp: base.Add(time.Hour), Total: 6, Status: order.StatusPending,
			Items: []order.OrderItem{{Name: "Latte", Milk: "whole milk", Quantity: 1}, {Name: "Croissant", Quantity: 1}}},
	}
	svc.mu.Lock()
	for _, o := range seed {
		svc.local[o.OrderID] = o
	}
	svc.mu.Unlock()

	stats := svc.ComputeStats()
	if stats.TotalOrders != 2 || stats.TotalRevenue != 16 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.AvgOrderValue != 8 {
		t.Fatalf("unexpected avg: %v", stats.AvgOrderValue)
	}
	if stats.CompletionRate != 50 {
		t.Fatalf("unexpected completion rate: %v", stats.CompletionRate)
	}
	if stats.PopularItems[0].Name != "Latte" || stats.PopularItems[0].Count != 3 {
		t.Fatalf("unexpected popularity ranking: %+v", stats.PopularItems)
	}
	if stats.MilkBreakdown["oat milk"] != 1 {
		t.Fatalf("unexpected milk breakdown: %+v", stats.MilkBreakdown)
	}
	if len(stats.HourlyRevenue) != 2 || stats.HourlyRevenue[0].Hour != "9:00" {
		t.Fatalf("unexpected hourly buckets: %+v", stats.HourlyRevenue)
	}
}
