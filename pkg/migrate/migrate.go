package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	// DefaultDir is the on-disk migrations directory used by create/validate.
	DefaultDir = "pkg/migrate/migrations"

	embeddedDir = "migrations"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Dialect maps a GORM dialector name onto the goose dialect.
func Dialect(driver string) (string, error) {
	switch driver {
	case "postgres", "":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no goose dialect for driver %q", driver)
	}
}

// Up applies every embedded migration.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return Run(ctx, db, driver, "", "up")
}

// Run executes a goose command. An empty dir runs against the migrations
// compiled into the binary.
func Run(ctx context.Context, db *sql.DB, driver string, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	restore, dir, err := prepare(driver, dir)
	if err != nil {
		return err
	}
	defer restore()

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver string, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	restore, dir, err := prepare(driver, dir)
	if err != nil {
		return err
	}
	defer restore()

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}

// prepare configures goose's package-level dialect and base filesystem.
func prepare(driver string, dir string) (func(), string, error) {
	dialect, err := Dialect(driver)
	if err != nil {
		return nil, "", err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return nil, "", fmt.Errorf("set goose dialect: %w", err)
	}
	if dir != "" {
		return func() {}, dir, nil
	}
	goose.SetBaseFS(embedded)
	return func() { goose.SetBaseFS(nil) }, embeddedDir, nil
}
