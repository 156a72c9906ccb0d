package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Dialect names accepted by Up.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

func prepare(db *sql.DB, dialect string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dialect == "" {
		dialect = DialectPostgres
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up applies all pending embedded migrations.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	if err := prepare(db, dialect); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, dialect string) error {
	if err := prepare(db, dialect); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)

	if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Status prints the migration ledger to stdout.
func Status(ctx context.Context, db *sql.DB, dialect string) error {
	if err := prepare(db, dialect); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)

	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}
