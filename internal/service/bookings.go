package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

// Bookings runs the booking workflow.
type Bookings struct {
	store        storage.Store
	clock        Clock
	observer     Observer
	allowOverlap bool
}

// Create books itemID for userID over [start, end). The booking starts out
// WAITING for the owner's decision. Owners booking their own item get
// NotFound, as if the item didn't exist.
func (s *Bookings) Create(ctx context.Context, userID, itemID int64, start, end time.Time) (*model.Booking, error) {
	var b *model.Booking
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		u, err := getUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		it, err := getItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !it.Available {
			return notAvailable("item %d is not available", itemID)
		}
		if it.OwnerID == userID {
			return notFound("item %d not found", itemID)
		}
		if !end.After(start) {
			return invalid("booking end must be after its start")
		}

		b = &model.Booking{
			Start:  start.UTC(),
			End:    end.UTC(),
			Status: model.StatusWaiting,
			Item:   model.BookingItem{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID},
			Booker: model.BookingUser{ID: u.ID, Name: u.Name},
		}
		return tx.CreateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.observer.BookingCreated()
	slog.Info("booking created", "booking_id", b.ID, "item_id", itemID, "booker_id", userID)
	return b, nil
}

// Decide approves or rejects a booking on behalf of the item's owner.
// Approving an already approved booking fails; rejecting twice is fine.
func (s *Bookings) Decide(ctx context.Context, userID, bookingID int64, approved bool) (*model.Booking, error) {
	var b *model.Booking
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		if b, err = tx.GetBooking(ctx, bookingID); err != nil {
			return err
		}
		if b == nil || b.Item.OwnerID != userID {
			return notFound("booking %d not found", bookingID)
		}

		status := model.StatusRejected
		if approved {
			if b.Status == model.StatusApproved {
				return notAvailable("booking %d is already approved", bookingID)
			}
			if !s.allowOverlap {
				overlap, err := tx.HasApprovedOverlap(ctx, b.Item.ID, b.Start, b.End, b.ID)
				if err != nil {
					return err
				}
				if overlap {
					return notAvailable("item %d is already booked for an overlapping period", b.Item.ID)
				}
			}
			status = model.StatusApproved
		}

		if err := tx.SetBookingStatus(ctx, bookingID, status); err != nil {
			return err
		}
		b.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.observer.BookingDecided(b.Status)
	slog.Info("booking decided", "booking_id", bookingID, "status", b.Status)
	return b, nil
}

// Get returns a booking visible to its booker and to the item's owner.
// Anyone else gets NotFound.
func (s *Bookings) Get(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil || (b.Booker.ID != userID && b.Item.OwnerID != userID) {
		return nil, notFound("booking %d not found", bookingID)
	}
	return b, nil
}

// ListForBooker returns the bookings userID made, newest start first.
func (s *Bookings) ListForBooker(ctx context.Context, userID int64, state string, page model.Page) ([]model.Booking, error) {
	return s.list(ctx, userID, state, page, false)
}

// ListForOwner returns the bookings of all items userID owns, newest start
// first.
func (s *Bookings) ListForOwner(ctx context.Context, userID int64, state string, page model.Page) ([]model.Booking, error) {
	return s.list(ctx, userID, state, page, true)
}

func (s *Bookings) list(ctx context.Context, userID int64, state string, page model.Page, asOwner bool) ([]model.Booking, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	filter, err := ParseState(state)
	if err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	q := storage.BookingQuery{Filter: filter, Now: s.clock.Now(), Page: page}
	if asOwner {
		q.OwnerID = userID
	} else {
		q.BookerID = userID
	}
	return s.store.ListBookings(ctx, q)
}

// ParseState parses a state filter name. An empty name means ALL.
func ParseState(name string) (model.StateFilter, error) {
	if name == "" {
		return model.StateAll, nil
	}
	f, ok := model.ParseStateFilter(name)
	if !ok {
		return 0, invalid("Unknown state: %s", name)
	}
	return f, nil
}
