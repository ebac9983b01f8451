// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SQLitePath extracts the filesystem path from a SQLite DSN. It returns ""
// for in-memory databases.
func SQLitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	return p
}

// Provision copies the bundled database from assetsDir to target when target
// does not exist yet. It reports whether a copy was made. A missing bundled
// file is not an error; the store will create an empty schema instead.
func Provision(target, assetsDir string) (bool, error) {
	if target == "" {
		return false, nil
	}
	if _, err := os.Stat(target); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("could not stat database %s: %w", target, err)
	}

	src := filepath.Join(assetsDir, filepath.Base(target))
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			dbLogf("db: no bundled database at %s", src)
			return false, nil
		}
		return false, fmt.Errorf("could not open bundled database: %w", err)
	}
	defer func() { _ = in.Close() }()

	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("could not create database directory %s: %w", dir, err)
		}
	}
	// Copy to a temp file first so an interrupted copy never leaves a
	// truncated database at target.
	tmp := target + ".part"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return false, fmt.Errorf("could not create database file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return false, fmt.Errorf("could not copy bundled database: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("could not write database file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("could not move database into place: %w", err)
	}
	dbLogf("db: provisioned %s from %s", target, src)
	return true, nil
}
