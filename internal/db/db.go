package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// Setting keys owned by the store. The scheduler markers record the last
// local period (date or year-month) for which a reminder already fired.
const (
	SettingGroupChatID     = "group_chat_id"
	SettingLastDailySent   = "last_daily_sent"
	SettingLastMonthlySent = "last_monthly_sent"
)

// Open opens (or creates) the sqlite database at path and applies the schema.
// Applying the schema is idempotent: existing tables and the singleton savings
// row are left untouched. Use ":memory:" for an ephemeral database.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; funneling all access through one
	// connection keeps concurrent callers from hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}
