package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// Booking statuses. WAITING is initial, the other two are set by the owner.
const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Booking is a request to borrow an item for [Start, End).
type Booking struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Status BookingStatus `json:"status"`
	Item   BookingItem   `json:"item"`
	Booker BookingUser   `json:"booker"`
}

// BookingItem is the part of an item carried in a booking.
type BookingItem struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// BookingUser is the part of the booker carried in a booking.
type BookingUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingShort is the booking summary attached to an item view.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Short returns the summary form of b.
func (b *Booking) Short() *BookingShort {
	return &BookingShort{ID: b.ID, BookerID: b.Booker.ID, Start: b.Start, End: b.End}
}

// StateFilter selects bookings by temporal state or status.
type StateFilter int

// State filters. Adding one requires a case in every switch over
// StateFilter, including the store query builder.
const (
	StateAll StateFilter = iota
	StatePast
	StateCurrent
	StateFuture
	StateWaiting
	StateRejected
)

var stateNames = [...]string{
	StateAll:      "ALL",
	StatePast:     "PAST",
	StateCurrent:  "CURRENT",
	StateFuture:   "FUTURE",
	StateWaiting:  "WAITING",
	StateRejected: "REJECTED",
}

func (s StateFilter) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// ParseStateFilter parses a filter name. Names are matched exactly.
func ParseStateFilter(name string) (StateFilter, bool) {
	for i, n := range stateNames {
		if n == name {
			return StateFilter(i), true
		}
	}
	return 0, false
}
