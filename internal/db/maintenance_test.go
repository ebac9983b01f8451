// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMaintain_SQLiteFile(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "maint.db")
	s, err := Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = s.Close() }()
	seedVoters(t, s)

	if err := s.Maintain(context.Background(), false); err != nil {
		t.Fatalf("Maintain: %v", err)
	}
}

func TestMaintain_UnsupportedType(t *testing.T) {
	s := &Store{dbType: "oracle"}
	if err := s.Maintain(context.Background(), true); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
