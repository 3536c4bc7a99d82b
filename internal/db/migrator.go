package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/db/dsn"
)

const (
	SchemaMigrationTable = "goose_db_schema_version"
	SharedSchema         = "public"
)

var ErrUnsupportedMigration = errors.New("unsupported migration")

type migrateFunc func(ctx context.Context, db *sql.DB, dir string) error

// Migration describes one migrator run.
type Migration struct {
	Downgrade bool
}

// Migrator applies versioned SQL to the shared schema. Tenant schemas are
// created from registered models and never carry SQL migrations of their own.
type Migrator interface {
	MigrateToLatest(ctx context.Context, migration Migration) error
	MigrateTo(ctx context.Context, migration Migration, version int64) error
}

type migrator struct {
	dsn string
	cfg *config.Config
}

func NewMigrator(cfg *config.Config) (Migrator, error) {
	dsn, err := dsn.FromDBConfig(cfg.Database)
	if err != nil {
		return nil, err
	}

	return &migrator{
		dsn: dsn,
		cfg: cfg,
	}, nil
}

// MigrateToLatest runs migrations onto the latest version
// For migrations with Downgrade false, it runs all migrations up to and including the latest version
// For migrations with Downgrade true, it downgrades the latest version
func (m *migrator) MigrateToLatest(
	ctx context.Context,
	migration Migration,
) error {
	return m.runMigration(ctx, func(ctx context.Context, db *sql.DB, dir string) error {
		if migration.Downgrade {
			return goose.DownContext(ctx, db, dir)
		}
		return goose.UpContext(ctx, db, dir)
	})
}

// MigrateTo runs migrations up-to a specific version
// For migrations with Downgrade false, it migrates up to the specified version
// For migrations with Downgrade true, it downgrades until the DB is the specified version
func (m *migrator) MigrateTo(
	ctx context.Context,
	migration Migration,
	version int64,
) error {
	return m.runMigration(ctx, func(ctx context.Context, db *sql.DB, dir string) error {
		if migration.Downgrade {
			return goose.DownToContext(ctx, db, dir, version)
		}
		return goose.UpToContext(ctx, db, dir, version)
	})
}

func (m *migrator) runMigration(ctx context.Context, f migrateFunc) error {
	dbCon, err := m.newSchemaDBCon()
	if err != nil {
		return err
	}
	defer dbCon.Close()

	return f(ctx, dbCon, m.cfg.Database.Migrator.Shared)
}

func (m *migrator) newSchemaDBCon() (*sql.DB, error) {
	schema := QuoteSchema(SharedSchema)

	dsn := fmt.Sprintf("%s search_path=%s", m.dsn, schema)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetTableName(fmt.Sprintf("%s.%s", schema, SchemaMigrationTable))

	return db, nil
}

func QuoteSchema(schema string) string {
	return fmt.Sprintf("%q", schema)
}
