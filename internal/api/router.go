package api

import (
	"net/http"

	"github.com/erazemk/shareit/internal/metrics"
	"github.com/erazemk/shareit/internal/service"
	"github.com/erazemk/shareit/internal/storage"
)

// Deps is everything the router needs.
type Deps struct {
	Services        *service.Services
	Store           storage.Store
	JWTSecret       string
	TrustUserHeader bool
	// Metrics and LoginLimiter are optional.
	Metrics      *metrics.Metrics
	LoginLimiter *RateLimiter
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Users: d.Services.Users, Store: d.Store, JWTSecret: d.JWTSecret}
	usersHandler := &UsersHandler{Users: d.Services.Users}
	itemsHandler := &ItemsHandler{Items: d.Services.Items}
	bookingsHandler := &BookingsHandler{Bookings: d.Services.Bookings}
	requestsHandler := &RequestsHandler{Requests: d.Services.Requests}

	identify := Identify(d.JWTSecret, d.Store, d.TrustUserHeader)
	authed := func(fn http.HandlerFunc) http.Handler {
		return identify(fn)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public: login and registration.
	mux.Handle("POST /api/auth/login", d.LoginLimiter.Limit(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/users", usersHandler.Create)
	mux.HandleFunc("GET /api/users", usersHandler.List)
	mux.HandleFunc("GET /api/users/{id}", usersHandler.Get)

	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))
	mux.Handle("PATCH /api/users/{id}", authed(usersHandler.Update))
	mux.Handle("DELETE /api/users/{id}", authed(usersHandler.Delete))

	mux.Handle("POST /api/items", authed(itemsHandler.Create))
	mux.Handle("GET /api/items", authed(itemsHandler.List))
	mux.Handle("GET /api/items/search", authed(itemsHandler.Search))
	mux.Handle("GET /api/items/{id}", authed(itemsHandler.Get))
	mux.Handle("PATCH /api/items/{id}", authed(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", authed(itemsHandler.Delete))
	mux.Handle("POST /api/items/{id}/comment", authed(itemsHandler.AddComment))
	mux.Handle("PUT /api/items/{id}/photo", authed(itemsHandler.UploadPhoto))
	mux.Handle("GET /api/items/{id}/photo", authed(itemsHandler.GetPhoto))

	mux.Handle("POST /api/bookings", authed(bookingsHandler.Create))
	mux.Handle("GET /api/bookings", authed(bookingsHandler.ListForBooker))
	mux.Handle("GET /api/bookings/owner", authed(bookingsHandler.ListForOwner))
	mux.Handle("GET /api/bookings/{id}", authed(bookingsHandler.Get))
	mux.Handle("PATCH /api/bookings/{id}", authed(bookingsHandler.Decide))

	mux.Handle("POST /api/requests", authed(requestsHandler.Create))
	mux.Handle("GET /api/requests", authed(requestsHandler.ListOwn))
	mux.Handle("GET /api/requests/all", authed(requestsHandler.ListOthers))
	mux.Handle("GET /api/requests/{id}", authed(requestsHandler.Get))

	var obs RequestObserver
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
		obs = d.Metrics
	}

	return Observe(obs, mux)
}
