package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func Connect(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id        SERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		slug      TEXT NOT NULL UNIQUE,
		parent_id INTEGER REFERENCES categories(id),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          SERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       BIGINT NOT NULL CHECK (price > 0),
		slug        TEXT NOT NULL UNIQUE,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		image_url   TEXT NOT NULL,
		rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL,
		product_id INTEGER NOT NULL REFERENCES products(id),
		radius     DOUBLE PRECISION NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity >= 1),
		UNIQUE (user_id, product_id, radius)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_carts_user ON carts(user_id)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
