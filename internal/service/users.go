package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/erazemk/shareit/internal/auth"
	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

// Users manages the user directory.
type Users struct {
	store storage.Store
}

// Create registers a user. Password is optional and only needed for
// bearer-token login.
func (s *Users) Create(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := requireText("name", name); err != nil {
		return nil, err
	}
	if err := requireText("email", email); err != nil {
		return nil, err
	}

	u := &model.User{Name: name, Email: email}
	if password != "" {
		if err := model.ValidatePassword(password); err != nil {
			return nil, invalid("%s", err.Error())
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		existing, err := tx.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("user with email %s already exists", email)
		}
		return tx.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", u.ID)
	return u, nil
}

// Get returns a user by ID.
func (s *Users) Get(ctx context.Context, id int64) (*model.User, error) {
	return getUser(ctx, s.store, id)
}

// List returns all users.
func (s *Users) List(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

// Update applies a partial update to a user.
func (s *Users) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	var u *model.User
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		if u, err = getUser(ctx, tx, id); err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if err := requireText("name", name); err != nil {
				return err
			}
			u.Name = name
		}
		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			if err := requireText("email", email); err != nil {
				return err
			}
			other, err := tx.GetUserByEmail(ctx, email)
			if err != nil {
				return err
			}
			if other != nil && other.ID != id {
				return conflict("user with email %s already exists", email)
			}
			u.Email = email
		}

		return tx.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user together with their items, bookings, requests
// and comments.
func (s *Users) Delete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := getUser(ctx, tx, id); err != nil {
			return err
		}
		return tx.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("user deleted", "user_id", id)
	return nil
}

// Authenticate checks an email and password pair.
func (s *Users) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ChangePassword replaces a user's password after checking the current one.
// Users without a password may set one by leaving current empty.
func (s *Users) ChangePassword(ctx context.Context, id int64, current, next string) error {
	if err := model.ValidatePassword(next); err != nil {
		return invalid("%s", err.Error())
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}

	return s.store.InTx(ctx, func(tx storage.Store) error {
		u, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if u.PasswordHash != "" && !auth.CheckPassword(u.PasswordHash, current) {
			return ErrInvalidCredentials
		}
		u.PasswordHash = hash
		return tx.UpdateUser(ctx, u)
	})
}
