package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateTrain = errors.New("train number already exists")
)

const uniqueViolationCode = "23505"

// Repository handles all database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- User Operations ---

// CreateUser inserts a new user. The email must be unique.
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail returns a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var u User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// --- Train Operations ---

// CreateTrain inserts a new train with all seats available
func (r *Repository) CreateTrain(ctx context.Context, train *Train) error {
	query := `
		INSERT INTO trains (train_number, source, destination, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, available_seats, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		train.TrainNumber, train.Source, train.Destination, train.TotalSeats,
	).Scan(&train.ID, &train.AvailableSeats, &train.CreatedAt, &train.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateTrain
		}
		return fmt.Errorf("failed to create train: %w", err)
	}

	return nil
}

// SearchTrains returns all trains running between source and destination
func (r *Repository) SearchTrains(ctx context.Context, source, destination string) ([]Train, error) {
	query := `
		SELECT id, train_number, source, destination, total_seats, available_seats,
		       created_at, updated_at
		FROM trains
		WHERE source = $1 AND destination = $2
		ORDER BY train_number ASC
	`

	rows, err := r.pool.Query(ctx, query, source, destination)
	if err != nil {
		return nil, fmt.Errorf("failed to query trains: %w", err)
	}
	defer rows.Close()

	var trains []Train
	for rows.Next() {
		var t Train
		err := rows.Scan(
			&t.ID, &t.TrainNumber, &t.Source, &t.Destination,
			&t.TotalSeats, &t.AvailableSeats, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan train: %w", err)
		}
		trains = append(trains, t)
	}

	return trains, rows.Err()
}

// GetTrainByID returns a train by ID
func (r *Repository) GetTrainByID(ctx context.Context, id int64) (*Train, error) {
	query := `
		SELECT id, train_number, source, destination, total_seats, available_seats,
		       created_at, updated_at
		FROM trains
		WHERE id = $1
	`

	var t Train
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TrainNumber, &t.Source, &t.Destination,
		&t.TotalSeats, &t.AvailableSeats, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}

	return &t, nil
}

// --- Booking Operations ---

// GetBookingByID returns a booking by ID
func (r *Repository) GetBookingByID(ctx context.Context, id int64) (*Booking, error) {
	query := `
		SELECT id, booking_ref, user_id, train_id, seat_number, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.BookingRef, &b.UserID, &b.TrainID, &b.SeatNumber, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &b, nil
}

// CountBookingsForTrain returns the number of confirmed bookings for a train
func (r *Repository) CountBookingsForTrain(ctx context.Context, trainID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE train_id = $1
	`, trainID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
