package api

import (
	"net/http"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

// RequestsHandler handles item request endpoints.
type RequestsHandler struct {
	Requests *service.Requests
}

type createRequestRequest struct {
	Description string `json:"description" validate:"notblank"`
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Requests.Create(r.Context(), callerID(r.Context()), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// ListOwn handles GET /api/requests.
func (h *RequestsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	views, err := h.Requests.ListOwn(r.Context(), callerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if views == nil {
		views = []model.RequestView{}
	}
	jsonResponse(w, http.StatusOK, views)
}

// ListOthers handles GET /api/requests/all.
func (h *RequestsHandler) ListOthers(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.Requests.ListOthers(r.Context(), callerID(r.Context()), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if views == nil {
		views = []model.RequestView{}
	}
	jsonResponse(w, http.StatusOK, views)
}

// Get handles GET /api/requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	view, err := h.Requests.Get(r.Context(), callerID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}
