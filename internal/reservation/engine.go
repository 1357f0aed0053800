// Package reservation implements the seat-booking transaction: claiming one
// seat on one train for one user as a single atomic unit against the store.
package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Luck-shya/WorkIndia/internal/database"
	"github.com/google/uuid"
)

var (
	// ErrTrainNotFound means the requested train does not exist.
	ErrTrainNotFound = errors.New("train not found")
	// ErrNoAvailableSeats means the train is sold out.
	ErrNoAvailableSeats = errors.New("no available seats")
	// ErrSeatAlreadyBooked means the specific seat is taken.
	ErrSeatAlreadyBooked = errors.New("seat is already booked")
	// ErrSeatOutOfRange means the seat number is not in [1, total_seats].
	ErrSeatOutOfRange = errors.New("seat number out of range")
	// ErrTransactionFailed wraps infrastructure failures (lock timeout,
	// connection loss, commit failure). The transaction is always rolled
	// back before this is returned.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Engine performs seat reservations. It holds no state and does no internal
// locking: mutual exclusion between concurrent reservations is delegated
// entirely to the store's row lock, which serializes across processes, not
// just goroutines.
type Engine struct {
	store database.Store
}

// NewEngine creates a reservation engine backed by the given store.
func NewEngine(store database.Store) *Engine {
	return &Engine{store: store}
}

// Reserve atomically books seatNumber on trainID for userID.
//
// The train row is read under an exclusive lock, so concurrent calls for the
// same train execute one at a time: the availability check, the duplicate-seat
// check, the booking insert, and the counter decrement all commit together or
// not at all. Either exactly one booking plus one decrement becomes visible,
// or nothing does.
func (e *Engine) Reserve(ctx context.Context, userID, trainID int64, seatNumber int) (*database.Booking, error) {
	if seatNumber < 1 {
		return nil, ErrSeatOutOfRange
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	// Rollback is a no-op once the transaction commits, so every early
	// return below leaves the store untouched.
	defer tx.Rollback(ctx)

	train, err := tx.LockTrainForUpdate(ctx, trainID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	if seatNumber > train.TotalSeats {
		return nil, ErrSeatOutOfRange
	}

	// The seat check runs before the capacity check so that losing a race
	// for the last seat reports "seat taken" rather than "sold out".
	existing, err := tx.FindBooking(ctx, trainID, seatNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	if existing != nil {
		return nil, ErrSeatAlreadyBooked
	}

	if train.AvailableSeats <= 0 {
		return nil, ErrNoAvailableSeats
	}

	booking := &database.Booking{
		BookingRef: uuid.New(),
		UserID:     userID,
		TrainID:    trainID,
		SeatNumber: seatNumber,
	}
	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	train.AvailableSeats--
	if err := tx.SaveTrain(ctx, train); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	return booking, nil
}
