package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

const bookingSelect = `SELECT b.id, b.start_time, b.end_time, b.status,
	i.id, i.name, i.owner_id, u.id, u.name
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var (
		b          model.Booking
		start, end int64
	)
	err := row.Scan(&b.ID, &start, &end, &b.Status,
		&b.Item.ID, &b.Item.Name, &b.Item.OwnerID, &b.Booker.ID, &b.Booker.Name)
	if err != nil {
		return nil, err
	}
	b.Start = fromMillis(start)
	b.End = fromMillis(end)
	return &b, nil
}

// CreateBooking creates a new booking.
func (s *SQLStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.Status == "" {
		b.Status = model.StatusWaiting
	}

	id, err := s.insert(ctx,
		`INSERT INTO bookings (item_id, booker_id, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`,
		b.Item.ID, b.Booker.ID, millis(b.Start), millis(b.End), b.Status,
	)
	if err != nil {
		return fmt.Errorf("creating booking: %w", err)
	}
	b.ID = id
	return nil
}

// GetBooking returns a booking by ID.
func (s *SQLStore) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := scanBooking(s.queryRow(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	return b, nil
}

// SetBookingStatus changes the status of a booking.
func (s *SQLStore) SetBookingStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	if _, err := s.exec(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("setting booking status: %w", err)
	}
	return nil
}

// stateCondition translates a state filter into a WHERE fragment.
func stateCondition(f model.StateFilter, now int64) (string, []any, error) {
	switch f {
	case model.StateAll:
		return "", nil, nil
	case model.StatePast:
		return "b.end_time < ?", []any{now}, nil
	case model.StateCurrent:
		return "b.start_time < ? AND b.end_time > ?", []any{now, now}, nil
	case model.StateFuture:
		return "b.start_time > ?", []any{now}, nil
	case model.StateWaiting:
		return "b.status = ?", []any{model.StatusWaiting}, nil
	case model.StateRejected:
		return "b.status = ?", []any{model.StatusRejected}, nil
	}
	return "", nil, fmt.Errorf("unknown state filter %d", f)
}

// ListBookings returns a page of bookings for a booker or an item owner.
func (s *SQLStore) ListBookings(ctx context.Context, q storage.BookingQuery) ([]model.Booking, error) {
	var (
		conds []string
		args  []any
	)
	switch {
	case q.BookerID != 0:
		conds = append(conds, "b.booker_id = ?")
		args = append(args, q.BookerID)
	case q.OwnerID != 0:
		conds = append(conds, "i.owner_id = ?")
		args = append(args, q.OwnerID)
	default:
		return nil, errors.New("listing bookings: booker or owner required")
	}

	cond, condArgs, err := stateCondition(q.Filter, millis(q.Now))
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	if cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	args = append(args, q.Page.Limit, q.Page.Offset)

	return s.listBookings(ctx, "listing bookings",
		bookingSelect+` WHERE `+strings.Join(conds, " AND ")+
			` ORDER BY b.start_time DESC, b.id DESC LIMIT ? OFFSET ?`,
		args...,
	)
}

func (s *SQLStore) listBookings(ctx context.Context, what, query string, args ...any) ([]model.Booking, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	bookings := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// LastBookings returns, per item, the approved booking with the latest
// start before now. Rows come ordered by item and start time, so the last
// one seen for an item wins.
func (s *SQLStore) LastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*model.Booking, error) {
	out := make(map[int64]*model.Booking, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	args := append(int64Args(itemIDs), model.StatusApproved, millis(now))
	bookings, err := s.listBookings(ctx, "listing last bookings",
		bookingSelect+` WHERE b.item_id IN (`+placeholders(len(itemIDs))+`)
		   AND b.status = ? AND b.start_time < ?
		 ORDER BY b.item_id, b.start_time, b.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		out[bookings[i].Item.ID] = &bookings[i]
	}
	return out, nil
}

// NextBookings returns, per item, the approved booking with the earliest
// start after now.
func (s *SQLStore) NextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*model.Booking, error) {
	out := make(map[int64]*model.Booking, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	args := append(int64Args(itemIDs), model.StatusApproved, millis(now))
	bookings, err := s.listBookings(ctx, "listing next bookings",
		bookingSelect+` WHERE b.item_id IN (`+placeholders(len(itemIDs))+`)
		   AND b.status = ? AND b.start_time > ?
		 ORDER BY b.item_id, b.start_time, b.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if _, ok := out[bookings[i].Item.ID]; !ok {
			out[bookings[i].Item.ID] = &bookings[i]
		}
	}
	return out, nil
}

// EarliestBooking returns the booker's first booking of an item.
func (s *SQLStore) EarliestBooking(ctx context.Context, bookerID, itemID int64) (*model.Booking, error) {
	b, err := scanBooking(s.queryRow(ctx,
		bookingSelect+` WHERE b.booker_id = ? AND b.item_id = ? ORDER BY b.start_time, b.id LIMIT 1`,
		bookerID, itemID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting earliest booking: %w", err)
	}
	return b, nil
}

// HasApprovedOverlap reports whether another approved booking of the item
// intersects [start, end).
func (s *SQLStore) HasApprovedOverlap(ctx context.Context, itemID int64, start, end time.Time, excludeID int64) (bool, error) {
	var count int
	err := s.queryRow(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE item_id = ? AND status = ? AND id <> ? AND start_time < ? AND end_time > ?`,
		itemID, model.StatusApproved, excludeID, millis(end), millis(start),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking booking overlap: %w", err)
	}
	return count > 0, nil
}
