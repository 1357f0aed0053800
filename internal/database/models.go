package database

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes administrators from regular users
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a registered user
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Train represents a train in the database.
//
// AvailableSeats is owned by the reservation engine: after every committed
// reservation it equals TotalSeats minus the number of bookings referencing
// the train. It is never written outside a held row lock.
type Train struct {
	ID             int64     `json:"id"`
	TrainNumber    string    `json:"trainNumber"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Booking represents a confirmed seat reservation. Bookings are created
// exactly once by the reservation engine and never mutated or deleted.
type Booking struct {
	ID         int64     `json:"id"`
	BookingRef uuid.UUID `json:"bookingRef"`
	UserID     int64     `json:"userId"`
	TrainID    int64     `json:"trainId"`
	SeatNumber int       `json:"seatNumber"`
	CreatedAt  time.Time `json:"createdAt"`
}
