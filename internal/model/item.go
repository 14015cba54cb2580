package model

import "time"

// Item is a thing a user offers for others to borrow.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     int64     `json:"owner_id"`
	RequestID   *int64    `json:"request_id,omitempty"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch holds the fields of a partial item update.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Available == nil
}

// ItemView is an item as shown to a particular caller. LastBooking and
// NextBooking are only filled in for the item's owner.
type ItemView struct {
	Item
	LastBooking *BookingShort `json:"last_booking"`
	NextBooking *BookingShort `json:"next_booking"`
	Comments    []Comment     `json:"comments"`
}

// Photo is the stored image data of an item.
type Photo struct {
	Data []byte
	MIME string
}
