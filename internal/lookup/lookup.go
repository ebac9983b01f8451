// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package lookup finds voters by card ID or name. It never returns storage
// errors to callers: a failed query is logged and reported as no results.
package lookup

import (
	"context"
	"strings"

	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/logging"
	"github.com/toeirei/voterslip/internal/model"
)

// MaxResults caps the number of voters returned by a single lookup.
const MaxResults = 10

// Service wraps a VoterSearcher with the lookup rules.
type Service struct {
	searcher  db.VoterSearcher
	collation model.Collation
}

// New returns a Service. A nil searcher yields a Service that always returns
// no results, matching the behavior of a missing database file.
func New(searcher db.VoterSearcher, collation model.Collation) *Service {
	if collation == "" {
		collation = model.CollationEngine
	}
	return &Service{searcher: searcher, collation: collation}
}

// Find returns at most MaxResults voters whose card ID equals query or whose
// local or transliterated name contains query. An exact card ID match is
// always placed first.
func (s *Service) Find(ctx context.Context, query string) []model.VoterRecord {
	query = strings.TrimSpace(query)
	if query == "" || s == nil || s.searcher == nil {
		return nil
	}
	rows, err := s.searcher.FindVoters(ctx, query, s.collation, MaxResults)
	if err != nil {
		logging.Warnf("lookup %q failed: %v", query, err)
		return nil
	}
	if len(rows) > MaxResults {
		rows = rows[:MaxResults]
	}
	return exactFirst(rows, query)
}

// exactFirst moves the first record whose card ID equals query to the front,
// keeping the relative order of the others.
func exactFirst(rows []model.VoterRecord, query string) []model.VoterRecord {
	for i, r := range rows {
		if r.CardID != query {
			continue
		}
		if i == 0 {
			return rows
		}
		out := make([]model.VoterRecord, 0, len(rows))
		out = append(out, r)
		out = append(out, rows[:i]...)
		out = append(out, rows[i+1:]...)
		return out
	}
	return rows
}

// Pick selects one voter from a result set: the exact card ID match when one
// exists, otherwise the entry at index (0-based). ok is false when nothing
// can be selected.
func Pick(rows []model.VoterRecord, query string, index int) (model.VoterRecord, bool) {
	query = strings.TrimSpace(query)
	if index < 0 {
		for _, r := range rows {
			if r.CardID == query {
				return r, true
			}
		}
		index = 0
	}
	if index >= len(rows) {
		return model.VoterRecord{}, false
	}
	return rows[index], true
}
