package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/shareit/internal/model"
)

const itemColumns = `id, name, description, available, owner_id, request_id,
	photo IS NOT NULL, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	var (
		it               model.Item
		requestID        sql.NullInt64
		created, updated int64
	)
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID,
		&requestID, &it.HasPhoto, &created, &updated)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		id := requestID.Int64
		it.RequestID = &id
	}
	it.CreatedAt = fromMillis(created)
	it.UpdatedAt = fromMillis(updated)
	return &it, nil
}

func (s *SQLStore) listItems(ctx context.Context, what, query string, args ...any) ([]model.Item, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// CreateItem creates a new item.
func (s *SQLStore) CreateItem(ctx context.Context, it *model.Item) error {
	now := time.Now().UTC()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = it.CreatedAt

	var requestID sql.NullInt64
	if it.RequestID != nil {
		requestID = sql.NullInt64{Int64: *it.RequestID, Valid: true}
	}

	id, err := s.insert(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.Name, it.Description, it.Available, it.OwnerID, requestID,
		millis(it.CreatedAt), millis(it.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	it.ID = id
	return nil
}

// GetItem returns an item by ID.
func (s *SQLStore) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	it, err := scanItem(s.queryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// UpdateItem writes the mutable fields of an item.
func (s *SQLStore) UpdateItem(ctx context.Context, it *model.Item) error {
	it.UpdatedAt = time.Now().UTC()
	_, err := s.exec(ctx,
		`UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`,
		it.Name, it.Description, it.Available, millis(it.UpdatedAt), it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem deletes an item with its bookings and comments.
func (s *SQLStore) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// ListItemsByOwner returns a page of the owner's items.
func (s *SQLStore) ListItemsByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error) {
	return s.listItems(ctx, "listing items by owner",
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		ownerID, page.Limit, page.Offset,
	)
}

// SearchAvailableItems returns a page of available items whose name or
// description contains text.
func (s *SQLStore) SearchAvailableItems(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	pattern := "%" + escapeLike(text) + "%"
	return s.listItems(ctx, "searching items",
		`SELECT `+itemColumns+` FROM items
		 WHERE available = ?
		   AND (UPPER(name) LIKE UPPER(?) ESCAPE '\' OR UPPER(description) LIKE UPPER(?) ESCAPE '\')
		 ORDER BY id LIMIT ? OFFSET ?`,
		true, pattern, pattern, page.Limit, page.Offset,
	)
}

// ListItemsForRequests returns the items answering any of the requests.
func (s *SQLStore) ListItemsForRequests(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	if len(requestIDs) == 0 {
		return []model.Item{}, nil
	}
	return s.listItems(ctx, "listing items for requests",
		`SELECT `+itemColumns+` FROM items WHERE request_id IN (`+placeholders(len(requestIDs))+`) ORDER BY id`,
		int64Args(requestIDs)...,
	)
}

// SetItemPhoto stores the processed photo and thumbnail of an item.
func (s *SQLStore) SetItemPhoto(ctx context.Context, itemID int64, photo, thumbnail []byte) error {
	_, err := s.exec(ctx,
		`UPDATE items SET photo = ?, thumbnail = ?, updated_at = ? WHERE id = ?`,
		photo, thumbnail, millis(time.Now()), itemID,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo or thumbnail bytes.
func (s *SQLStore) GetItemPhoto(ctx context.Context, itemID int64, thumbnail bool) ([]byte, error) {
	column := "photo"
	if thumbnail {
		column = "thumbnail"
	}

	var data []byte
	err := s.queryRow(ctx, `SELECT `+column+` FROM items WHERE id = ?`, itemID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item photo: %w", err)
	}
	return data, nil
}
