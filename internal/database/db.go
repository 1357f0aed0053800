package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectRetries    = 30
	connectRetryDelay = 2 * time.Second
)

// Connect opens a pgx pool and waits for the database to become reachable.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 25
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	for i := 0; i < connectRetries; i++ {
		err = pool.Ping(ctx)
		if err == nil {
			log.Println("Connected to database")
			return pool, nil
		}
		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, connectRetries, err)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(connectRetryDelay):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectRetries, err)
}
