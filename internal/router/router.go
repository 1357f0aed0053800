package router

import (
	"net/http"

	"github.com/Luck-shya/WorkIndia/internal/auth"
	"github.com/Luck-shya/WorkIndia/internal/handlers"
	"github.com/gorilla/mux"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, tokens *auth.TokenManager, adminAPIKey string) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	// Admin routes, guarded by the service API key
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(apiKeyMiddleware(adminAPIKey))
	admin.HandleFunc("/add-train", h.AddTrain).Methods(http.MethodPost, http.MethodOptions)

	// Authenticated routes
	authed := r.NewRoute().Subrouter()
	authed.Use(authMiddleware(tokens))
	authed.HandleFunc("/trains", h.SearchTrains).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/book-seat", h.BookSeat).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet, http.MethodOptions)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
