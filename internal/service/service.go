// Package service holds the sharing rules: who may book what and when,
// what an item looks like to its owner and to everyone else, and who may
// comment.
package service

import (
	"context"
	"strings"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

// Observer is told about booking decisions. metrics.Metrics implements it.
type Observer interface {
	BookingCreated()
	BookingDecided(status model.BookingStatus)
}

type nopObserver struct{}

func (nopObserver) BookingCreated()                    {}
func (nopObserver) BookingDecided(model.BookingStatus) {}

// Options configures the services. Zero values pick the defaults.
type Options struct {
	Clock    Clock
	Observer Observer
	// AllowOverlappingApprovals skips the check that an approved booking
	// doesn't overlap another approved booking of the same item.
	AllowOverlappingApprovals bool
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

// Services bundles every service over one store.
type Services struct {
	Users    *Users
	Items    *Items
	Bookings *Bookings
	Requests *Requests
}

// New wires all services to st.
func New(st storage.Store, opts Options) *Services {
	opts = opts.withDefaults()
	return &Services{
		Users:    &Users{store: st},
		Items:    &Items{store: st, clock: opts.Clock},
		Bookings: &Bookings{store: st, clock: opts.Clock, observer: opts.Observer, allowOverlap: opts.AllowOverlappingApprovals},
		Requests: &Requests{store: st, clock: opts.Clock},
	}
}

func getUser(ctx context.Context, st storage.Store, id int64) (*model.User, error) {
	u, err := st.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user %d not found", id)
	}
	return u, nil
}

func getItem(ctx context.Context, st storage.Store, id int64) (*model.Item, error) {
	it, err := st.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, notFound("item %d not found", id)
	}
	return it, nil
}

func checkPage(page model.Page) error {
	if !page.Valid() {
		return invalid("invalid page: from must be >= 0 and size > 0")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requireText(field, value string) error {
	if blank(value) {
		return invalid("%s must not be blank", field)
	}
	return nil
}
