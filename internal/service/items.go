package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/shareit/internal/imaging"
	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

// Items manages the item catalog and the comments left on items.
type Items struct {
	store storage.Store
	clock Clock
}

// NewItem is the input of Create.
type NewItem struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// Create adds an item owned by userID.
func (s *Items) Create(ctx context.Context, userID int64, in NewItem) (*model.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := requireText("name", in.Name); err != nil {
		return nil, err
	}
	if err := requireText("description", in.Description); err != nil {
		return nil, err
	}

	it := &model.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		OwnerID:     userID,
		RequestID:   in.RequestID,
		CreatedAt:   s.clock.Now(),
	}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := getUser(ctx, tx, userID); err != nil {
			return err
		}
		if in.RequestID != nil {
			r, err := tx.GetRequest(ctx, *in.RequestID)
			if err != nil {
				return err
			}
			if r == nil {
				return notFound("item request %d not found", *in.RequestID)
			}
		}
		return tx.CreateItem(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("item created", "item_id", it.ID, "owner_id", userID)
	return it, nil
}

// Get returns an item as seen by userID. Only the owner sees the last and
// next bookings; everyone sees comments.
func (s *Items) Get(ctx context.Context, userID, itemID int64) (*model.ItemView, error) {
	it, err := getItem(ctx, s.store, itemID)
	if err != nil {
		return nil, err
	}

	views, err := s.decorate(ctx, []model.Item{*it}, it.OwnerID == userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListOwn returns a page of the caller's items with bookings and comments.
func (s *Items) ListOwn(ctx context.Context, userID int64, page model.Page) ([]model.ItemView, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	items, err := s.store.ListItemsByOwner(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, items, true)
}

// decorate attaches comments, and for owners the last and next approved
// bookings, using one query per kind for the whole set.
func (s *Items) decorate(ctx context.Context, items []model.Item, withBookings bool) ([]model.ItemView, error) {
	views := make([]model.ItemView, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	var last, next map[int64]*model.Booking
	if withBookings {
		now := s.clock.Now()
		var err error
		if last, err = s.store.LastBookings(ctx, ids, now); err != nil {
			return nil, err
		}
		if next, err = s.store.NextBookings(ctx, ids, now); err != nil {
			return nil, err
		}
	}

	comments, err := s.store.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i, it := range items {
		v := model.ItemView{Item: it, Comments: comments[it.ID]}
		if v.Comments == nil {
			v.Comments = []model.Comment{}
		}
		if b := last[it.ID]; b != nil {
			v.LastBooking = b.Short()
		}
		if b := next[it.ID]; b != nil {
			v.NextBooking = b.Short()
		}
		views[i] = v
	}
	return views, nil
}

// Search finds available items whose name or description contains text.
// Blank text matches nothing.
func (s *Items) Search(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	if blank(text) {
		return []model.Item{}, nil
	}
	if err := checkPage(page); err != nil {
		return nil, err
	}
	return s.store.SearchAvailableItems(ctx, text, page)
}

// Update applies a partial update. Only the owner may edit an item.
func (s *Items) Update(ctx context.Context, userID, itemID int64, patch model.ItemPatch) (*model.Item, error) {
	var it *model.Item
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		if it, err = getItem(ctx, tx, itemID); err != nil {
			return err
		}
		if it.OwnerID != userID {
			return accessViolation("user %d can't edit item %d", userID, itemID)
		}

		if patch.Name != nil {
			if err := requireText("name", *patch.Name); err != nil {
				return err
			}
			it.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			if err := requireText("description", *patch.Description); err != nil {
				return err
			}
			it.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Available != nil {
			it.Available = *patch.Available
		}
		if patch.Empty() {
			return nil
		}
		return tx.UpdateItem(ctx, it)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes an item. Only the owner may delete it.
func (s *Items) Delete(ctx context.Context, userID, itemID int64) error {
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		it, err := getItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if it.OwnerID != userID {
			return accessViolation("user %d can't delete item %d", userID, itemID)
		}
		return tx.DeleteItem(ctx, itemID)
	})
	if err != nil {
		return err
	}

	slog.Info("item deleted", "item_id", itemID, "owner_id", userID)
	return nil
}

// AddComment leaves feedback on an item. The author must have a booking of
// the item, and the earliest one must already have started.
func (s *Items) AddComment(ctx context.Context, userID, itemID int64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if err := requireText("text", text); err != nil {
		return nil, err
	}

	var c *model.Comment
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		u, err := getUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := getItem(ctx, tx, itemID); err != nil {
			return err
		}

		now := s.clock.Now()
		first, err := tx.EarliestBooking(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if first == nil || first.Start.After(now) {
			return invalid("user %d has not rented item %d", userID, itemID)
		}

		c = &model.Comment{
			Text:       text,
			ItemID:     itemID,
			AuthorID:   userID,
			AuthorName: u.Name,
			CreatedAt:  now,
		}
		return tx.CreateComment(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetPhoto replaces an item's photo. The image is validated, downscaled
// and a thumbnail is derived from it.
func (s *Items) SetPhoto(ctx context.Context, userID, itemID int64, r io.Reader) error {
	if err := s.checkOwner(ctx, s.store, userID, itemID); err != nil {
		return err
	}

	start := time.Now()
	res, err := imaging.Process(r)
	if err != nil {
		return invalid("%s", err.Error())
	}

	err = s.store.InTx(ctx, func(tx storage.Store) error {
		if err := s.checkOwner(ctx, tx, userID, itemID); err != nil {
			return err
		}
		return tx.SetItemPhoto(ctx, itemID, res.Photo, res.Thumbnail)
	})
	if err != nil {
		return err
	}

	slog.Info("item photo updated", "item_id", itemID,
		"bytes", len(res.Photo), "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Items) checkOwner(ctx context.Context, st storage.Store, userID, itemID int64) error {
	it, err := getItem(ctx, st, itemID)
	if err != nil {
		return err
	}
	if it.OwnerID != userID {
		return accessViolation("user %d can't edit item %d", userID, itemID)
	}
	return nil
}

// Photo returns an item's photo, or its thumbnail.
func (s *Items) Photo(ctx context.Context, itemID int64, thumbnail bool) (*model.Photo, error) {
	if _, err := getItem(ctx, s.store, itemID); err != nil {
		return nil, err
	}

	data, err := s.store.GetItemPhoto(ctx, itemID, thumbnail)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, notFound("item %d has no photo", itemID)
	}
	return &model.Photo{Data: data, MIME: imaging.OutputMIME}, nil
}
