package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/shareit/internal/model"
)

const requestColumns = `id, description, requester_id, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*model.ItemRequest, error) {
	var (
		r       model.ItemRequest
		created int64
	)
	if err := row.Scan(&r.ID, &r.Description, &r.RequesterID, &created); err != nil {
		return nil, err
	}
	r.CreatedAt = fromMillis(created)
	return &r, nil
}

// CreateRequest creates a new item request.
func (s *SQLStore) CreateRequest(ctx context.Context, r *model.ItemRequest) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	id, err := s.insert(ctx,
		`INSERT INTO item_requests (description, requester_id, created_at) VALUES (?, ?, ?)`,
		r.Description, r.RequesterID, millis(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating item request: %w", err)
	}
	r.ID = id
	return nil
}

// GetRequest returns an item request by ID.
func (s *SQLStore) GetRequest(ctx context.Context, id int64) (*model.ItemRequest, error) {
	r, err := scanRequest(s.queryRow(ctx, `SELECT `+requestColumns+` FROM item_requests WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item request: %w", err)
	}
	return r, nil
}

// ListRequestsByRequester returns all requests made by a user.
func (s *SQLStore) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]model.ItemRequest, error) {
	return s.listRequests(ctx, "listing own item requests",
		`SELECT `+requestColumns+` FROM item_requests WHERE requester_id = ?
		 ORDER BY created_at DESC, id DESC`,
		requesterID,
	)
}

// ListRequestsExcept returns a page of requests made by other users.
func (s *SQLStore) ListRequestsExcept(ctx context.Context, requesterID int64, page model.Page) ([]model.ItemRequest, error) {
	return s.listRequests(ctx, "listing item requests",
		`SELECT `+requestColumns+` FROM item_requests WHERE requester_id <> ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		requesterID, page.Limit, page.Offset,
	)
}

func (s *SQLStore) listRequests(ctx context.Context, what, query string, args ...any) ([]model.ItemRequest, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	requests := []model.ItemRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item request: %w", err)
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}
