package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gitlab.com/results-api.net/internal/config"
)

// Open connects to PostgreSQL and checks the connection.
func Open(ctx context.Context, cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

const schemaTemplate = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[1]s.users (
    id            BIGSERIAL PRIMARY KEY,
    user_name     TEXT NOT NULL UNIQUE,
    email         VARCHAR(120) UNIQUE,
    password_hash VARCHAR(255),
    auth_provider VARCHAR(20) NOT NULL DEFAULT 'local',
    google_id     VARCHAR(255) UNIQUE,
    roles         TEXT[] NOT NULL DEFAULT '{user}'
);

CREATE TABLE IF NOT EXISTS %[1]s.results (
    id      BIGSERIAL PRIMARY KEY,
    result  BIGINT NOT NULL,
    user_id BIGINT NOT NULL REFERENCES %[1]s.users (id) ON DELETE CASCADE,
    time    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS fk_user_id_idx ON %[1]s.results (user_id);
`

func schemaSQL(schema string) string {
	return fmt.Sprintf(schemaTemplate, schema)
}

// Migrate creates the tables when they are missing.
func Migrate(ctx context.Context, db *sqlx.DB, schema string) error {
	if _, err := db.ExecContext(ctx, schemaSQL(schema)); err != nil {
		return fmt.Errorf("migrate schema %s: %w", schema, err)
	}
	return nil
}
