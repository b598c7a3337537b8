// Package migration runs goose SQL migrations embedded in the binary.
package migration

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"luminara/internal/shared/logger"
)

//go:embed scripts/*.sql
var scripts embed.FS

// Runner applies the embedded migration scripts.
type Runner struct {
	logger logger.Interface
}

func NewRunner(log logger.Interface) *Runner {
	goose.SetBaseFS(scripts)
	goose.SetLogger(goose.NopLogger())
	return &Runner{logger: log}
}

// Up applies all pending migrations.
func (r *Runner) Up(db *gorm.DB) error {
	conn, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(conn, "scripts"); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (r *Runner) Down(db *gorm.DB, steps int) error {
	conn, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	for i := 0; i < steps; i++ {
		if err := goose.Down(conn, "scripts"); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	}
	return nil
}

// Version returns the current migration version.
func (r *Runner) Version(db *gorm.DB) (int64, error) {
	conn, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	version, err := goose.GetDBVersion(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, nil
}

// Status prints the per-migration status.
func (r *Runner) Status(db *gorm.DB) error {
	conn, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Status(conn, "scripts"); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}
