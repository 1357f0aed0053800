package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema statements are idempotent so the server can bootstrap a fresh
// database on startup. In production, use a proper migration tool.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin', 'user')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trains (
		id              BIGSERIAL PRIMARY KEY,
		train_number    TEXT NOT NULL UNIQUE,
		source          TEXT NOT NULL,
		destination     TEXT NOT NULL,
		total_seats     INT NOT NULL CHECK (total_seats > 0),
		available_seats INT NOT NULL CHECK (available_seats >= 0 AND available_seats <= total_seats),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id          BIGSERIAL PRIMARY KEY,
		booking_ref UUID NOT NULL UNIQUE,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		train_id    BIGINT NOT NULL REFERENCES trains(id),
		seat_number INT NOT NULL CHECK (seat_number > 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// Backstop for the row-lock serialization in the reservation engine: even
	// if a future code path skips the lock, two bookings can never claim the
	// same seat on the same train.
	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_train_seat_idx
		ON bookings (train_id, seat_number)`,
}

// RunMigrations ensures all required tables and indexes exist.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("Checking database schema...")
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	log.Println("Database schema ready")
	return nil
}
