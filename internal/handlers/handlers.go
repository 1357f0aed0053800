package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Luck-shya/WorkIndia/internal/auth"
	"github.com/Luck-shya/WorkIndia/internal/database"
	"github.com/Luck-shya/WorkIndia/internal/reservation"
	"github.com/Luck-shya/WorkIndia/internal/service"
	"github.com/gorilla/mux"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	bookingService service.BookingService
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService service.BookingService) *Handler {
	return &Handler{
		bookingService: bookingService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, err := h.bookingService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, database.ErrDuplicateEmail):
			respondError(w, http.StatusConflict, "Email already registered")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// LoginRequest is the payload for POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.bookingService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AddTrain handles POST /admin/add-train
func (h *Handler) AddTrain(w http.ResponseWriter, r *http.Request) {
	var req service.AddTrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TrainNumber == "" || req.Source == "" || req.Destination == "" {
		respondError(w, http.StatusBadRequest, "Train number, source and destination are required")
		return
	}
	if req.TotalSeats <= 0 {
		respondError(w, http.StatusBadRequest, "Total seats must be positive")
		return
	}

	train, err := h.bookingService.AddTrain(r.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateTrain) {
			respondError(w, http.StatusConflict, "Train number already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to add train")
		return
	}

	respondJSON(w, http.StatusCreated, train)
}

// SearchTrains handles GET /trains?source=&destination=
func (h *Handler) SearchTrains(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	destination := r.URL.Query().Get("destination")
	if source == "" || destination == "" {
		respondError(w, http.StatusBadRequest, "Source and destination are required")
		return
	}

	trains, err := h.bookingService.SearchTrains(r.Context(), source, destination)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search trains")
		return
	}
	if trains == nil {
		trains = []database.Train{}
	}

	respondJSON(w, http.StatusOK, trains)
}

// BookSeatRequest is the payload for POST /book-seat
type BookSeatRequest struct {
	TrainID    int64 `json:"train_id"`
	SeatNumber int   `json:"seat_number"`
}

// BookSeat handles POST /book-seat. The user id comes from the verified
// token, never from the request body.
func (h *Handler) BookSeat(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BookSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.bookingService.BookSeat(r.Context(), claims.UserID, req.TrainID, req.SeatNumber)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrTrainNotFound):
			respondError(w, http.StatusNotFound, "Train not found")
		case errors.Is(err, reservation.ErrNoAvailableSeats):
			respondError(w, http.StatusBadRequest, "No available seats")
		case errors.Is(err, reservation.ErrSeatOutOfRange):
			respondError(w, http.StatusBadRequest, "Seat number out of range")
		case errors.Is(err, reservation.ErrSeatAlreadyBooked):
			respondError(w, http.StatusConflict, "Seat is already booked")
		default:
			// Infrastructure failure: the transaction has been rolled back;
			// nothing store-internal leaks to the caller.
			respondError(w, http.StatusInternalServerError, "An error occurred during booking")
		}
		return
	}

	respondJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), claims.UserID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			respondError(w, http.StatusNotFound, "Booking not found")
		case errors.Is(err, service.ErrAccessDenied):
			respondError(w, http.StatusForbidden, "Access denied")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to get booking")
		}
		return
	}

	respondJSON(w, http.StatusOK, booking)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
