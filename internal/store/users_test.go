package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/shareit/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "Ana", "ana@example.com")
	if u.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil || got.Name != "Ana" || got.Email != "ana@example.com" {
		t.Errorf("unexpected user %+v", got)
	}
	if got.PasswordHash != "" {
		t.Errorf("expected empty password hash, got %q", got.PasswordHash)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("GetUserByEmail returned %+v", byEmail)
	}
}

func TestGetMissingUser(t *testing.T) {
	s := newTestStore(t)

	u, err := s.GetUser(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "Ana", "ana@example.com")

	err := s.CreateUser(context.Background(), &model.User{Name: "Other", Email: "ana@example.com"})
	if err == nil {
		t.Error("expected unique constraint error")
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "Ana", "ana@example.com")
	u.Name = "Ana Novak"
	u.PasswordHash = "hash"
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := s.GetUser(ctx, u.ID)
	if got.Name != "Ana Novak" || got.PasswordHash != "hash" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustUser(t, s, "Owner", "owner@example.com")
	booker := mustUser(t, s, "Booker", "booker@example.com")
	item := mustItem(t, s, owner.ID, "Tent", "Two person tent", true)
	b := mustBooking(t, s, item.ID, booker.ID, t0, t0.Add(24*time.Hour), "")

	if err := s.DeleteUser(ctx, owner.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if got, _ := s.GetItem(ctx, item.ID); got != nil {
		t.Error("expected owned item to be deleted")
	}
	if got, _ := s.GetBooking(ctx, b.ID); got != nil {
		t.Error("expected booking of deleted item to be deleted")
	}

	users, _ := s.ListUsers(ctx)
	if len(users) != 1 || users[0].ID != booker.ID {
		t.Errorf("expected only booker left, got %+v", users)
	}
}
