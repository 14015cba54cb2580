package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/shareit/internal/model"
)

// CreateComment creates a new comment.
func (s *SQLStore) CreateComment(ctx context.Context, c *model.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	id, err := s.insert(ctx,
		`INSERT INTO comments (text, item_id, author_id, created_at) VALUES (?, ?, ?, ?)`,
		c.Text, c.ItemID, c.AuthorID, millis(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	c.ID = id
	return nil
}

// ListComments returns the comments of the given items with author names.
func (s *SQLStore) ListComments(ctx context.Context, itemIDs []int64) (map[int64][]model.Comment, error) {
	out := make(map[int64][]model.Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	rows, err := s.query(ctx,
		`SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.item_id IN (`+placeholders(len(itemIDs))+`)
		 ORDER BY c.item_id, c.created_at DESC, c.id DESC`,
		int64Args(itemIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c       model.Comment
			created int64
		)
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.CreatedAt = fromMillis(created)
		out[c.ItemID] = append(out[c.ItemID], c)
	}
	return out, rows.Err()
}
