// Package storage defines the repository the sharing services depend on.
package storage

import (
	"context"
	"time"

	"github.com/erazemk/shareit/internal/model"
)

// Store is the persistence boundary of the sharing services. Getters return
// nil and no error when the requested row does not exist.
type Store interface {
	// CreateUser inserts u and fills in its ID and CreatedAt.
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// UpdateUser writes name, email and password hash of u.
	UpdateUser(ctx context.Context, u *model.User) error
	// DeleteUser removes the user and everything they own.
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, it *model.Item) error
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	UpdateItem(ctx context.Context, it *model.Item) error
	DeleteItem(ctx context.Context, id int64) error
	// ListItemsByOwner returns the owner's items ordered by id.
	ListItemsByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error)
	// SearchAvailableItems matches text case-insensitively against name or
	// description of available items.
	SearchAvailableItems(ctx context.Context, text string, page model.Page) ([]model.Item, error)
	// ListItemsForRequests returns items created in answer to any of the
	// given requests, ordered by id.
	ListItemsForRequests(ctx context.Context, requestIDs []int64) ([]model.Item, error)
	SetItemPhoto(ctx context.Context, itemID int64, photo, thumbnail []byte) error
	// GetItemPhoto returns the stored photo or thumbnail, nil if none.
	GetItemPhoto(ctx context.Context, itemID int64, thumbnail bool) ([]byte, error)

	// CreateBooking inserts b and fills in its ID. Item and Booker must carry
	// their IDs.
	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	SetBookingStatus(ctx context.Context, id int64, status model.BookingStatus) error
	// ListBookings returns bookings matching q, newest start first.
	ListBookings(ctx context.Context, q BookingQuery) ([]model.Booking, error)
	// LastBookings maps each item to its latest approved booking that
	// started before now.
	LastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*model.Booking, error)
	// NextBookings maps each item to its earliest approved booking that
	// starts after now.
	NextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*model.Booking, error)
	// EarliestBooking returns the booker's earliest-starting booking of the
	// item in any status.
	EarliestBooking(ctx context.Context, bookerID, itemID int64) (*model.Booking, error)
	// HasApprovedOverlap reports whether an approved booking of the item
	// other than excludeID intersects [start, end).
	HasApprovedOverlap(ctx context.Context, itemID int64, start, end time.Time, excludeID int64) (bool, error)

	CreateRequest(ctx context.Context, r *model.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*model.ItemRequest, error)
	// ListRequestsByRequester returns the user's requests, newest first.
	ListRequestsByRequester(ctx context.Context, requesterID int64) ([]model.ItemRequest, error)
	// ListRequestsExcept returns everyone else's requests, newest first.
	ListRequestsExcept(ctx context.Context, requesterID int64, page model.Page) ([]model.ItemRequest, error)

	// CreateComment inserts c and fills in its ID. AuthorName is not stored.
	CreateComment(ctx context.Context, c *model.Comment) error
	// ListComments groups comments by item, newest first within an item.
	ListComments(ctx context.Context, itemIDs []int64) (map[int64][]model.Comment, error)

	// GetJWTSecret returns the persisted signing secret, creating it on
	// first use.
	GetJWTSecret(ctx context.Context) (string, error)
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// InTx runs fn against a Store bound to a single transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Store) error) error

	Close() error
}

// BookingQuery selects bookings for ListBookings. Exactly one of BookerID
// and OwnerID is set.
type BookingQuery struct {
	BookerID int64
	OwnerID  int64
	Filter   model.StateFilter
	Now      time.Time
	Page     model.Page
}
