// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"
	"testing"

	"github.com/toeirei/voterslip/internal/model"
)

// newTestStore opens a private in-memory SQLite store for the calling test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:test_" + name + "?mode=memory&cache=shared"
	s, err := Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seedVoters inserts the standard fixture roll used by the lookup tests.
func seedVoters(t *testing.T, s *Store) {
	t.Helper()
	voters := []model.VoterRecord{
		{SerialNumber: "12", CardID: "ABC1234567", Name: "Test Name", Age: "40", Sex: "M", BoothAddress: "Booth 5", WardNumber: "3", AssemblyMapping: "101", Address: "123 Street"},
		{SerialNumber: "13", CardID: "XYZ7654321", Name: "सुनीता पाटील", Age: "35", Sex: "F", BoothAddress: "Booth 5", WardNumber: "3", AssemblyMapping: "101", Address: "45 Lane"},
		{SerialNumber: "14", CardID: "PQR0000001", Name: "100% Sure_Name", Age: "", Sex: "", BoothAddress: "", WardNumber: "4"},
	}
	alt := []string{"Test Name", "Sunita Patil", "Percent Sure"}
	if err := s.InsertVoters(context.Background(), voters, alt); err != nil {
		t.Fatalf("seed voters: %v", err)
	}
}
