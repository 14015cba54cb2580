package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into target and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate(target)
}

// writeError maps a service error to a status code. Errors without a
// domain code are logged and reported as 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *service.Error
	switch {
	case errors.As(err, &e):
		jsonError(w, statusFor(e.Code), e.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		jsonError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID(r.Context()),
			"error", err,
		)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

func statusFor(code service.Code) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeAccessViolation:
		return http.StatusForbidden
	case service.CodeItemNotAvailable, service.CodeInvalidRequest:
		return http.StatusBadRequest
	case service.CodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// pathID parses a positive numeric path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	From int `json:"from" validate:"gte=0"`
	Size int `json:"size" validate:"gt=0,lte=1000"`
}

// pageParams reads ?from=&size= with defaults 0 and 20.
func pageParams(r *http.Request) (model.Page, error) {
	q := pageQuery{From: 0, Size: model.DefaultPageSize}
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if q.From, err = strconv.Atoi(v); err != nil {
			return model.Page{}, fmt.Errorf("invalid from %q", v)
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if q.Size, err = strconv.Atoi(v); err != nil {
			return model.Page{}, fmt.Errorf("invalid size %q", v)
		}
	}
	if err := validate(&q); err != nil {
		return model.Page{}, err
	}
	return model.Page{Offset: q.From, Limit: q.Size}, nil
}
