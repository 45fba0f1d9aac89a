package database

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx operations repositories depend on. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so repositories can run inside or
// outside a transaction without changes.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresPool creates and returns a new PostgreSQL connection pool.
// It retries a few times before giving up, which helps in containerized
// environments where the database may come up after the API process.
func NewPostgresPool(databaseURL string) *pgxpool.Pool {
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	var pool *pgxpool.Pool
	var err error

	maxRetries := 5
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(context.Background(), databaseURL)
		if err == nil {
			if pingErr := pool.Ping(context.Background()); pingErr == nil {
				return pool
			} else {
				err = pingErr
				pool.Close()
			}
		}
		log.Printf("could not connect to database (attempt %d/%d), retrying in %v: %v", i+1, maxRetries, retryDelay, err)
		time.Sleep(retryDelay)
	}

	log.Fatalf("failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err)
	return nil
}
