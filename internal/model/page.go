package model

// Default page size for list endpoints.
const DefaultPageSize = 20

// Page is an offset window over an ordered result.
type Page struct {
	Offset int
	Limit  int
}

// Valid reports whether the window has a non-negative offset and a
// positive size.
func (p Page) Valid() bool {
	return p.Offset >= 0 && p.Limit > 0
}
