package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

var DB *sql.DB

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the Postgres pool described by the DB_* environment, applies
// the idempotent schema, and pings once so a bad DSN fails at boot instead of
// on the first request.
func InitDB() (*sql.DB, error) {
	host := env("DB_HOST", "localhost")
	name := env("DB_NAME", "peerhabit")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, env("DB_PORT", "5432"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		name, env("DB_SSLMODE", "disable"))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open postgres pool: %w", err)
	}

	maxOpen := 10
	if v, convErr := strconv.Atoi(os.Getenv("DB_MAX_OPEN_CONNS")); convErr == nil && v > 0 {
		maxOpen = v
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("unable to ping postgres: %w", err)
	}

	// The schema is pure IF NOT EXISTS DDL; the partial unique index on
	// completions is what makes the one-per-day rule hold under concurrency.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("unable to apply schema: %w", err)
	}

	DB = db
	log.Printf("event=db_connected host=%s db=%s max_open=%d", host, name, maxOpen)
	return DB, nil
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	if err := DB.Close(); err != nil {
		return fmt.Errorf("unable to close postgres pool: %w", err)
	}
	log.Printf("event=db_closed")
	return nil
}
