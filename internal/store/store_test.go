package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/erazemk/shareit/internal/db"
	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	return New(db.NewTestDB(t), db.SQLite)
}

func mustUser(t *testing.T, s storage.Store, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func mustItem(t *testing.T, s storage.Store, ownerID int64, name, description string, available bool) *model.Item {
	t.Helper()
	it := &model.Item{Name: name, Description: description, Available: available, OwnerID: ownerID}
	if err := s.CreateItem(context.Background(), it); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return it
}

func mustBooking(t *testing.T, s storage.Store, itemID, bookerID int64, start, end time.Time, status model.BookingStatus) *model.Booking {
	t.Helper()
	b := &model.Booking{
		Start:  start,
		End:    end,
		Status: status,
		Item:   model.BookingItem{ID: itemID},
		Booker: model.BookingUser{ID: bookerID},
	}
	if err := s.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return b
}

func TestInTxCommitsAndRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx storage.Store) error {
		return tx.CreateUser(ctx, &model.User{Name: "Ana", Email: "ana@example.com"})
	})
	if err != nil {
		t.Fatalf("InTx commit: %v", err)
	}

	boom := errors.New("boom")
	err = s.InTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateUser(ctx, &model.User{Name: "Bor", Email: "bor@example.com"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Ana" {
		t.Errorf("expected only Ana after rollback, got %+v", users)
	}
}

func TestNestedInTxReusesTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx storage.Store) error {
		return tx.InTx(ctx, func(inner storage.Store) error {
			if inner != tx {
				t.Error("nested InTx opened a new transaction")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Errorf("escapeLike = %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?, ?, ?" {
		t.Errorf("placeholders(3) = %q", got)
	}
	if got := placeholders(1); got != "?" {
		t.Errorf("placeholders(1) = %q", got)
	}
}

// TestPostgres runs a smoke test against a real PostgreSQL server when
// SHAREIT_TEST_POSTGRES_DSN is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("SHAREIT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SHAREIT_TEST_POSTGRES_DSN not set")
	}

	database, dialect, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()
	if dialect != db.Postgres {
		t.Fatalf("expected postgres dialect, got %q", dialect)
	}
	if err := db.EnsureSchema(database, dialect); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	s := New(database, dialect)
	ctx := context.Background()

	suffix := time.Now().Format("150405.000000")
	owner := mustUser(t, s, "Owner", "owner-"+suffix+"@example.com")
	booker := mustUser(t, s, "Booker", "booker-"+suffix+"@example.com")
	t.Cleanup(func() {
		s.DeleteUser(ctx, owner.ID)
		s.DeleteUser(ctx, booker.ID)
	})

	item := mustItem(t, s, owner.ID, "Drill", "Cordless drill", true)
	b := mustBooking(t, s, item.ID, booker.ID, t0, t0.Add(time.Hour), model.StatusApproved)

	found, err := s.SearchAvailableItems(ctx, "DRILL", model.Page{Limit: 100})
	if err != nil {
		t.Fatalf("SearchAvailableItems: %v", err)
	}
	var hit bool
	for _, it := range found {
		hit = hit || it.ID == item.ID
	}
	if !hit {
		t.Error("expected search to find the drill")
	}

	last, err := s.LastBookings(ctx, []int64{item.ID}, t0.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("LastBookings: %v", err)
	}
	if last[item.ID] == nil || last[item.ID].ID != b.ID {
		t.Errorf("expected last booking %d, got %+v", b.ID, last[item.ID])
	}

	if _, err := s.GetJWTSecret(ctx); err != nil {
		t.Errorf("GetJWTSecret: %v", err)
	}
}
