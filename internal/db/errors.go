// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrDuplicate is returned when attempting to insert a record that already exists.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned when a required row (such as the settings row) is missing.
var ErrNotFound = errors.New("record not found")

// MapDBError inspects low-level driver errors and maps common conditions to
// package-level sentinel errors. This is a conservative, string-based mapping
// to avoid importing SQL driver packages into this file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
