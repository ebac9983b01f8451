// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
)

// Maintain performs engine-specific maintenance. For SQLite this runs PRAGMA
// optimize, VACUUM and an integrity check; for Postgres VACUUM ANALYZE; for
// MySQL OPTIMIZE TABLE on the two application tables.
func (s *Store) Maintain(ctx context.Context, skipIntegrity bool) error {
	switch s.dbType {
	case "sqlite":
		// PRAGMA optimize is advisory; treat failures as non-fatal.
		if _, err := ExecRaw(ctx, s.bun, "PRAGMA optimize"); err != nil {
			dbLogf("db: sqlite optimize failed (ignored): %v", err)
		}
		if _, err := ExecRaw(ctx, s.bun, "VACUUM"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		if skipIntegrity {
			return nil
		}
		var res string
		if err := QueryRawInto(ctx, s.bun, &res, "PRAGMA integrity_check"); err != nil {
			return fmt.Errorf("sqlite integrity_check failed: %w", err)
		}
		if res != "ok" {
			return fmt.Errorf("sqlite integrity_check failed: %s", res)
		}
	case "postgres":
		if _, err := ExecRaw(ctx, s.bun, "VACUUM ANALYZE"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case "mysql":
		var lastErr error
		for _, table := range []string{"voters", "app_settings"} {
			if _, err := ExecRaw(ctx, s.bun, "OPTIMIZE TABLE "+table); err != nil {
				dbLogf("db: mysql optimize table %s failed: %v", table, err)
				lastErr = err
			}
		}
		if lastErr != nil {
			return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
		}
	default:
		return fmt.Errorf("unsupported db type for maintenance: %s", s.dbType)
	}
	return nil
}
