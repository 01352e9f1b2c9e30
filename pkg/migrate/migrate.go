package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/skillnotes/skillnotes-backend/pkg/enums"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

func dirFor(driver enums.StorageDriver) (dialect, dir string, err error) {
	switch driver {
	case enums.StorageDriverPostgres:
		return "postgres", "migrations/postgres", nil
	case enums.StorageDriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("no migrations for storage driver %q", driver)
	}
}

// Run executes a goose command against the embedded migrations for driver.
func Run(ctx context.Context, db *sql.DB, driver enums.StorageDriver, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dialect, dir, err := dirFor(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, driver enums.StorageDriver) error {
	return Run(ctx, db, driver, "up")
}

// Version reports the applied schema version.
func Version(ctx context.Context, db *sql.DB, driver enums.StorageDriver) (int64, error) {
	dialect, _, err := dirFor(driver)
	if err != nil {
		return 0, err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
