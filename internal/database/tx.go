package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultLockTimeout bounds how long a reservation waits for the train row
// lock before failing, so contention never queues unboundedly.
const DefaultLockTimeout = 5 * time.Second

// Store opens reservation transactions. The reservation engine depends on
// this interface rather than on pgx so its concurrency behavior can be
// exercised against an in-memory implementation.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is the unit of work for a single reservation. Every Tx must be closed
// by exactly one Commit or Rollback; Rollback after Commit is a no-op so
// callers can defer it unconditionally.
type Tx interface {
	// LockTrainForUpdate reads the train row under an exclusive row lock
	// that is held until the transaction ends. Returns ErrNotFound if no
	// such train exists.
	LockTrainForUpdate(ctx context.Context, trainID int64) (*Train, error)

	// FindBooking returns the booking holding (trainID, seatNumber), or
	// nil if the seat is free.
	FindBooking(ctx context.Context, trainID int64, seatNumber int) (*Booking, error)

	// InsertBooking creates the booking row and fills in its ID and
	// creation time.
	InsertBooking(ctx context.Context, booking *Booking) error

	// SaveTrain persists the train's seat counter.
	SaveTrain(ctx context.Context, train *Train) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Begin starts a reservation transaction with a bounded lock wait.
func (r *Repository) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// SET LOCAL scopes the timeout to this transaction. It does not take
	// bind parameters, so the duration is formatted into the statement.
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", DefaultLockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, stmt); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	return &pgxTx{tx: tx}, nil
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) LockTrainForUpdate(ctx context.Context, trainID int64) (*Train, error) {
	query := `
		SELECT id, train_number, source, destination, total_seats, available_seats,
		       created_at, updated_at
		FROM trains
		WHERE id = $1
		FOR UPDATE
	`

	var tr Train
	err := t.tx.QueryRow(ctx, query, trainID).Scan(
		&tr.ID, &tr.TrainNumber, &tr.Source, &tr.Destination,
		&tr.TotalSeats, &tr.AvailableSeats, &tr.CreatedAt, &tr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock train: %w", err)
	}

	return &tr, nil
}

func (t *pgxTx) FindBooking(ctx context.Context, trainID int64, seatNumber int) (*Booking, error) {
	query := `
		SELECT id, booking_ref, user_id, train_id, seat_number, created_at
		FROM bookings
		WHERE train_id = $1 AND seat_number = $2
	`

	var b Booking
	err := t.tx.QueryRow(ctx, query, trainID, seatNumber).Scan(
		&b.ID, &b.BookingRef, &b.UserID, &b.TrainID, &b.SeatNumber, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &b, nil
}

func (t *pgxTx) InsertBooking(ctx context.Context, booking *Booking) error {
	query := `
		INSERT INTO bookings (booking_ref, user_id, train_id, seat_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := t.tx.QueryRow(ctx, query,
		booking.BookingRef, booking.UserID, booking.TrainID, booking.SeatNumber,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (t *pgxTx) SaveTrain(ctx context.Context, train *Train) error {
	result, err := t.tx.Exec(ctx, `
		UPDATE trains
		SET available_seats = $1, updated_at = NOW()
		WHERE id = $2
	`, train.AvailableSeats, train.ID)
	if err != nil {
		return fmt.Errorf("failed to save train: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
