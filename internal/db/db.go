// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for voterslip.
// It abstracts the underlying database (SQLite by default, PostgreSQL or
// MySQL when the roll is hosted centrally) behind a single Store type.
package db // import "github.com/toeirei/voterslip/internal/db"

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	//go:embed migrations
	embeddedMigrations embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
)

// Store is the bun-backed handle over the voter roll and the settings row.
// Callers open it per operation and Close it when done.
type Store struct {
	dbType string
	bun    *bun.DB
}

// driverName maps a configured database type to the registered driver.
func driverName(dbType string) (string, error) {
	switch dbType {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		// The pgx stdlib registers driver name "pgx".
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database type: '%s'", dbType)
	}
}

// Open opens the database, applies embedded migrations, makes sure the
// singleton settings row exists and returns a ready Store.
func Open(dbType, dsn string) (*Store, error) {
	if dbType == "" {
		dbType = "sqlite"
	}
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := 4
	if v := os.Getenv("VOTERSLIP_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxOpen = n
		}
	}
	// A plain ":memory:" SQLite database exists per connection, so pin to one.
	if dbType == "sqlite" && dsn == ":memory:" {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	dbLogf("db: opened %s driver in %s (max open=%d)", driver, time.Since(start), maxOpen)

	if err := RunMigrations(sqlDB, dbType); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Store{dbType: dbType, bun: createBunDB(sqlDB, dbType)}
	if err := s.ensureSettingsRow(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.bun == nil {
		return nil
	}
	return s.bun.Close()
}

// Type returns the configured database type ("sqlite", "postgres", "mysql").
func (s *Store) Type() string { return s.dbType }

// BunDB exposes the underlying bun handle for tests and maintenance helpers.
func (s *Store) BunDB() *bun.DB { return s.bun }

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// placeholder returns the n-th (1-based) bind placeholder for the dialect.
func placeholder(dbType string, n int) string {
	if dbType == "postgres" {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// RunMigrations applies the embedded .up.sql files for dbType that have not
// been recorded in schema_migrations yet. Each file runs in its own
// transaction.
func RunMigrations(db *sql.DB, dbType string) error {
	start := time.Now()
	migrationsPath := fmt.Sprintf("migrations/%s", dbType)

	entries, err := fs.ReadDir(embeddedMigrations, migrationsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			dbLogf("db: no migrations embedded for %s", dbType)
			return nil
		}
		return fmt.Errorf("failed to read embedded migrations (%s): %w", migrationsPath, err)
	}

	var ups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			ups = append(ups, e.Name())
		}
	}
	sort.Strings(ups)

	if err := ensureSchemaMigrationsTable(db, dbType); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	for _, fname := range ups {
		version := strings.TrimSuffix(fname, ".up.sql")

		var exists int
		err := db.QueryRow("SELECT 1 FROM schema_migrations WHERE version = "+placeholder(dbType, 1), version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check migration version %s: %w", version, err)
		}

		p := path.Join(migrationsPath, fname)
		data, err := embeddedMigrations.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", p, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", version, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to execute migration %s: %w", version, err)
			}
		}
		insert := fmt.Sprintf("INSERT INTO schema_migrations(version, applied_at) VALUES(%s, %s)",
			placeholder(dbType, 1), placeholder(dbType, 2))
		if _, err := tx.Exec(insert, version, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", version, err)
		}
	}
	dbLogf("db: migrations for %s completed in %s", dbType, time.Since(start))
	return nil
}

// splitStatements splits a migration file on ';' line endings. The MySQL
// driver rejects multi-statement Exec calls unless multiStatements is set in
// the DSN, so statements are always executed one at a time.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";\n") {
		stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), ";"))
		if stmt == "" || strings.HasPrefix(stmt, "--") && !strings.Contains(stmt, "\n") {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func ensureSchemaMigrationsTable(db *sql.DB, dbType string) error {
	// MySQL does not permit TEXT columns as primary keys without a length.
	ddl := `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP)`
	if dbType == "mysql" {
		ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(191) PRIMARY KEY, applied_at TIMESTAMP NULL)`
	}
	_, err := db.Exec(ddl)
	return err
}
