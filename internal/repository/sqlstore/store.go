// Package sqlstore implements the repository interfaces on database/sql.
// One implementation serves both SQLite and PostgreSQL; queries are written
// with '?' placeholders and rebound for the active dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/repository/migrations"
	"github.com/prn-tf/recipebook/internal/repository/postgres"
	"github.com/prn-tf/recipebook/internal/repository/sqlite"
)

// Dialect identifies the SQL flavour of the underlying database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// querier is implemented by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Store owns the database handle shared by all repositories.
type Store struct {
	db      *sql.DB
	dialect Dialect
	health  repository.DatabaseHealth
	logger  zerolog.Logger
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("component", "database").Logger()

	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.ConfigFrom(cfg), logger)
		if err != nil {
			return nil, err
		}
		return &Store{db: db.DB(), dialect: DialectSQLite, health: db, logger: logger}, nil
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Store{db: db.SQL(), dialect: DialectPostgres, health: db, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.health.Ping(ctx)
}

// Health checks the database connection health.
func (s *Store) Health(ctx context.Context) error {
	return s.health.Health(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.health.Close()
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	m, err := migrations.New(s.db, string(s.dialect), s.logger)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}

// Repositories returns every repository backed by this store.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(s),
		Recipe:     NewRecipeRepository(s),
		RecipeTag:  NewRecipeTagRepository(s),
		PeriodType: NewPeriodTypeRepository(s),
		Tx:         s,
	}
}

// WithTx executes fn within a transaction carried by the context.
// If ctx already carries a transaction, fn joins it.
// If fn returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// conn returns the transaction carried by ctx, or the database.
func (s *Store) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.conn(ctx).ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.conn(ctx).QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.conn(ctx).QueryRowContext(ctx, s.rebind(query), args...)
}

// rebind rewrites '?' placeholders as $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// exists runs a COUNT query and reports whether it found any row.
func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	if err := s.queryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// int64Args converts ids into query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

var _ repository.TxManager = (*Store)(nil)
var _ repository.DatabaseHealth = (*Store)(nil)
