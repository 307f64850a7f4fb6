// Package migrations embeds the schema migrations for every supported
// database driver and applies them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// Migrator applies migrations for one driver.
type Migrator struct {
	provider *goose.Provider
	logger   zerolog.Logger
}

// New creates a Migrator for driver ("sqlite" or "postgres") over db.
// The Migrator does not own db.
func New(db *sql.DB, driver string, logger zerolog.Logger) (*Migrator, error) {
	var dialect goose.Dialect
	switch driver {
	case "sqlite":
		dialect = goose.DialectSQLite3
	case "postgres":
		dialect = goose.DialectPostgres
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(embedded, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", driver, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		logger:   logger.With().Str("component", "migrations").Str("driver", driver).Logger(),
	}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if len(results) == 0 {
		m.logger.Info().Msg("schema is up to date")
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResult(result)
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status describes one migration.
type Status struct {
	Version int64
	Path    string
	Applied bool
}

// Status lists every known migration and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Version returns the current schema version (0 when nothing is applied).
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (m *Migrator) logResult(r *goose.MigrationResult) {
	event := m.logger.Info()
	if r.Error != nil {
		event = m.logger.Error().Err(r.Error)
	}
	event.
		Int64("version", r.Source.Version).
		Str("direction", r.Direction).
		Dur("duration", r.Duration).
		Msg("migration applied")
}
