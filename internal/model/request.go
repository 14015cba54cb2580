package model

import "time"

// ItemRequest records that a user is looking for an item the catalog
// doesn't have yet.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created"`
}

// RequestView is a request together with the items offered for it.
type RequestView struct {
	ItemRequest
	Items []Item `json:"items"`
}
