package service

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/shareit/internal/model"
)

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.Users.Create(ctx, " ", "a@example.com", "")
	expectCode(t, err, ErrInvalidRequest)

	_, err = f.Users.Create(ctx, "Ana", "", "")
	expectCode(t, err, ErrInvalidRequest)

	_, err = f.Users.Create(ctx, "Ana", "ana@example.com", "short")
	expectCode(t, err, ErrInvalidRequest)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	f.user(t, "ana")
	_, err := f.Users.Create(ctx, "Other Ana", "ana@example.com", "")
	expectCode(t, err, ErrConflict)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	ana := f.user(t, "ana")
	f.user(t, "bor")

	name := "Ana Novak"
	u, err := f.Users.Update(ctx, ana.ID, model.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.Name != "Ana Novak" || u.Email != "ana@example.com" {
		t.Errorf("partial update wrong: %+v", u)
	}

	taken := "bor@example.com"
	_, err = f.Users.Update(ctx, ana.ID, model.UserPatch{Email: &taken})
	expectCode(t, err, ErrConflict)

	same := "ana@example.com"
	if _, err := f.Users.Update(ctx, ana.ID, model.UserPatch{Email: &same}); err != nil {
		t.Errorf("keeping own email should succeed: %v", err)
	}

	_, err = f.Users.Update(ctx, 999, model.UserPatch{Name: &name})
	expectCode(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	ana := f.user(t, "ana")
	it := f.item(t, ana.ID, "Tent", true)

	if err := f.Users.Delete(ctx, ana.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err := f.Users.Get(ctx, ana.ID)
	expectCode(t, err, ErrNotFound)

	_, err = f.Items.Get(ctx, ana.ID, it.ID)
	expectCode(t, err, ErrNotFound)

	expectCode(t, f.Users.Delete(ctx, ana.ID), ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	if _, err := f.Users.Create(ctx, "Ana", "ana@example.com", "correct horse"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	nopass := f.user(t, "bor")

	u, err := f.Users.Authenticate(ctx, "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Name != "Ana" {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := f.Users.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, err := f.Users.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: %v", err)
	}
	if _, err := f.Users.Authenticate(ctx, nopass.Email, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("user without password: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	ana, _ := f.Users.Create(ctx, "Ana", "ana@example.com", "first password")

	if err := f.Users.ChangePassword(ctx, ana.ID, "wrong", "second password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}
	expectCode(t, f.Users.ChangePassword(ctx, ana.ID, "first password", "short"), ErrInvalidRequest)

	if err := f.Users.ChangePassword(ctx, ana.ID, "first password", "second password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := f.Users.Authenticate(ctx, "ana@example.com", "second password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
