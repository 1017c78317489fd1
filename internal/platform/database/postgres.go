package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"bookreview/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

const (
	connectRetries    = 10
	connectRetryDelay = 2 * time.Second
)

// Connect opens the pool and waits for the database to accept connections,
// retrying a few times so the server can start alongside a fresh container.
func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	for attempt := 1; ; attempt++ {
		if err = DB.Ping(); err == nil {
			break
		}
		if attempt >= connectRetries {
			log.Fatalf("Error connecting to database after %d attempts: %v", connectRetries, err)
		}
		log.Printf("Database not ready, retrying in %s... (Attempt %d/%d)", connectRetryDelay, attempt, connectRetries)
		time.Sleep(connectRetryDelay)
	}

	fmt.Println("Successfully connected to PostgreSQL database!")
}

func Close() {
	if DB != nil {
		DB.Close()
		fmt.Println("Database connection closed.")
	}
}

// EnsureSchema creates the tables if they do not exist yet. The unique
// constraint on (full_name, pin_code) is what makes concurrent registrations
// with the same generated PIN safe; the issuer's pre-check alone is a race.
func EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		pin_code TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (full_name, pin_code)
	);
	CREATE INDEX IF NOT EXISTS idx_users_full_name_lower ON users (LOWER(full_name));

	CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		book_title TEXT NOT NULL,
		author TEXT NOT NULL,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		review_text TEXT NOT NULL,
		genre TEXT NOT NULL,
		slug TEXT NOT NULL,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews (user_id);`

	if _, err := DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("database.EnsureSchema: %w", err)
	}
	return nil
}

// SeedAdmin creates the configured default admin if no user with that name
// exists yet. A no-op when ADMIN_NAME/ADMIN_PIN are unset.
func SeedAdmin(ctx context.Context) error {
	name := config.AppConfig.AdminName
	pin := config.AppConfig.AdminPin
	if name == "" || pin == "" {
		return nil
	}

	var exists bool
	err := DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE full_name = $1)`, name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("database.SeedAdmin: %w", err)
	}
	if exists {
		return nil
	}

	_, err = DB.ExecContext(ctx,
		`INSERT INTO users (full_name, pin_code, role) VALUES ($1, $2, 'admin')`, name, pin)
	if err != nil {
		return fmt.Errorf("database.SeedAdmin insert: %w", err)
	}
	log.Printf("Default admin user %q created", name)
	return nil
}
