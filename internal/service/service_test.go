package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/shareit/internal/db"
	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
	"github.com/erazemk/shareit/internal/store"
)

const day = 24 * time.Hour

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingObserver struct {
	created   int
	decisions map[model.BookingStatus]int
}

func (o *countingObserver) BookingCreated() { o.created++ }

func (o *countingObserver) BookingDecided(s model.BookingStatus) {
	if o.decisions == nil {
		o.decisions = map[model.BookingStatus]int{}
	}
	o.decisions[s]++
}

type fixture struct {
	*Services
	store    storage.Store
	clock    *fakeClock
	observer *countingObserver
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	st := store.New(db.NewTestDB(t), db.SQLite)
	clock := newFakeClock()
	obs := &countingObserver{}
	opts.Clock = clock
	opts.Observer = obs
	return &fixture{Services: New(st, opts), store: st, clock: clock, observer: obs}
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.Users.Create(context.Background(), name, name+"@example.com", "")
	if err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *model.Item {
	t.Helper()
	it, err := f.Items.Create(context.Background(), ownerID, NewItem{
		Name: name, Description: name + " for rent", Available: available,
	})
	if err != nil {
		t.Fatalf("creating item %s: %v", name, err)
	}
	return it
}

func (f *fixture) booking(t *testing.T, bookerID, itemID int64, from, to time.Duration) *model.Booking {
	t.Helper()
	now := f.clock.Now()
	b, err := f.Bookings.Create(context.Background(), bookerID, itemID, now.Add(from), now.Add(to))
	if err != nil {
		t.Fatalf("creating booking: %v", err)
	}
	return b
}

func expectCode(t *testing.T, err error, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestErrorSentinels(t *testing.T) {
	err := notFound("item %d not found", 3)
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match NotFound")
	}
	if errors.Is(err, ErrAccessViolation) {
		t.Error("NotFound matched AccessViolation")
	}
	if err.Error() != "item 3 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}

	wrapped := errors.Join(errors.New("context"), err)
	if code, ok := CodeOf(wrapped); !ok || code != CodeNotFound {
		t.Errorf("CodeOf(wrapped) = %v, %v", code, ok)
	}
	if _, ok := CodeOf(errors.New("plain")); ok {
		t.Error("plain error has a code")
	}
}
