// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package lookup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/model"
)

func TestFind_EmptyQueryDoesNotTouchStorage(t *testing.T) {
	fake := &db.FakeVoterSearcher{Results: []model.VoterRecord{{CardID: "A"}}}
	svc := New(fake, "")

	for _, q := range []string{"", "   ", "\t\n"} {
		if got := svc.Find(context.Background(), q); len(got) != 0 {
			t.Fatalf("Find(%q) = %v, want empty", q, got)
		}
	}
	if fake.Calls != 0 {
		t.Fatalf("storage was queried %d times for empty input", fake.Calls)
	}
}

func TestFind_StorageErrorYieldsEmpty(t *testing.T) {
	fake := &db.FakeVoterSearcher{Err: errors.New("database is locked")}
	if got := New(fake, "").Find(context.Background(), "ABC"); got != nil {
		t.Fatalf("expected nil on storage error, got %v", got)
	}
}

func TestFind_NilSearcher(t *testing.T) {
	if got := New(nil, "").Find(context.Background(), "ABC"); got != nil {
		t.Fatalf("expected nil without storage, got %v", got)
	}
}

func TestFind_PassesTrimmedQueryAndLimit(t *testing.T) {
	fake := &db.FakeVoterSearcher{}
	New(fake, model.CollationNoCase).Find(context.Background(), "  Patil ")
	if fake.LastQuery != "Patil" {
		t.Fatalf("expected trimmed query, got %q", fake.LastQuery)
	}
	if fake.LastLimit != MaxResults {
		t.Fatalf("expected limit %d, got %d", MaxResults, fake.LastLimit)
	}
}

func TestFind_CapsResults(t *testing.T) {
	var rows []model.VoterRecord
	for i := 0; i < 15; i++ {
		rows = append(rows, model.VoterRecord{CardID: fmt.Sprintf("C%02d", i)})
	}
	got := New(&db.FakeVoterSearcher{Results: rows}, "").Find(context.Background(), "C")
	if len(got) != MaxResults {
		t.Fatalf("expected %d results, got %d", MaxResults, len(got))
	}
}

func TestFind_ExactMatchFirst(t *testing.T) {
	rows := []model.VoterRecord{
		{CardID: "AAA", Name: "ABC Holder"},
		{CardID: "BBB", Name: "Other ABC"},
		{CardID: "ABC", Name: "Exact"},
	}
	got := New(&db.FakeVoterSearcher{Results: rows}, "").Find(context.Background(), "ABC")
	if len(got) != 3 {
		t.Fatalf("unexpected length %d", len(got))
	}
	if got[0].CardID != "ABC" || got[1].CardID != "AAA" || got[2].CardID != "BBB" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestPick(t *testing.T) {
	rows := []model.VoterRecord{{CardID: "A1"}, {CardID: "B2"}, {CardID: "C3"}}

	if v, ok := Pick(rows, "B2", -1); !ok || v.CardID != "B2" {
		t.Fatalf("expected exact match B2, got %v %v", v, ok)
	}
	if v, ok := Pick(rows, "name", -1); !ok || v.CardID != "A1" {
		t.Fatalf("expected first row, got %v %v", v, ok)
	}
	if v, ok := Pick(rows, "B2", 2); !ok || v.CardID != "C3" {
		t.Fatalf("expected explicit index to win, got %v %v", v, ok)
	}
	if _, ok := Pick(rows, "x", 5); ok {
		t.Fatal("expected out-of-range index to fail")
	}
	if _, ok := Pick(nil, "x", -1); ok {
		t.Fatal("expected empty result set to fail")
	}
}

// TestFind_AgainstSQLite exercises the documented lookup properties against a
// real store.
func TestFind_AgainstSQLite(t *testing.T) {
	s, err := db.Open("sqlite", filepath.Join(t.TempDir(), "roll.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	defer func() { _ = s.Close() }()

	voters := []model.VoterRecord{
		{SerialNumber: "12", CardID: "ABC1234567", Name: "Test Name", Age: "40", Sex: "M", BoothAddress: "Booth 5", WardNumber: "3", AssemblyMapping: "101", Address: "123 Street"},
		{SerialNumber: "13", CardID: "ABC1234568", Name: "ABC1234567 Namesake"},
	}
	if err := s.InsertVoters(context.Background(), voters, []string{"Test Name", "Namesake"}); err != nil {
		t.Fatal(err)
	}
	svc := New(s, model.CollationEngine)

	got := svc.Find(context.Background(), "ABC1234567")
	if len(got) == 0 || got[0].CardID != "ABC1234567" || got[0].Name != "Test Name" {
		t.Fatalf("exact card ID should come first, got %v", got)
	}

	name := "Test Name"
	for i := 0; i < len(name); i++ {
		for j := i + 1; j <= len(name); j++ {
			sub := name[i:j]
			if sub == " " {
				continue
			}
			res := svc.Find(context.Background(), sub)
			if len(res) > MaxResults {
				t.Fatalf("Find(%q) returned %d rows", sub, len(res))
			}
			found := false
			for _, r := range res {
				if r.CardID == "ABC1234567" {
					found = true
				}
			}
			if !found {
				t.Fatalf("Find(%q) did not include the voter", sub)
			}
		}
	}
}
