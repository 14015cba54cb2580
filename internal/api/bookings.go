package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

// BookingsHandler handles booking endpoints.
type BookingsHandler struct {
	Bookings *service.Bookings
}

type createBookingRequest struct {
	ItemID int64     `json:"item_id" validate:"required,gt=0"`
	Start  timestamp `json:"start" validate:"notpast"`
	End    timestamp `json:"end" validate:"future"`
}

// Create handles POST /api/bookings.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.Bookings.Create(r.Context(), callerID(r.Context()), req.ItemID, req.Start.Time, req.End.Time)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, booking)
}

// Decide handles PATCH /api/bookings/{id}?approved=bool.
func (h *BookingsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	booking, err := h.Bookings.Decide(r.Context(), callerID(r.Context()), id, approved)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// Get handles GET /api/bookings/{id}.
func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.Bookings.Get(r.Context(), callerID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// ListForBooker handles GET /api/bookings.
func (h *BookingsHandler) ListForBooker(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Bookings.ListForBooker)
}

// ListForOwner handles GET /api/bookings/owner.
func (h *BookingsHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Bookings.ListForOwner)
}

type listFunc func(ctx context.Context, userID int64, state string, page model.Page) ([]model.Booking, error)

func (h *BookingsHandler) list(w http.ResponseWriter, r *http.Request, fn listFunc) {
	page, err := pageParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := fn(r.Context(), callerID(r.Context()), r.URL.Query().Get("state"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}
