// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/voterslip/internal/model"
)

// FakeVoterSearcher is a minimal, configurable fake used by tests.
type FakeVoterSearcher struct {
	// Results to return from FindVoters. If nil, an empty slice is returned.
	Results []model.VoterRecord
	// Err to return from FindVoters if non-nil.
	Err error
	// Calls counts how often FindVoters was invoked.
	Calls int
	// LastQuery and LastLimit record the most recent call.
	LastQuery string
	LastLimit int
}

// FindVoters implements VoterSearcher for the fake.
func (f *FakeVoterSearcher) FindVoters(ctx context.Context, query string, collation model.Collation, limit int) ([]model.VoterRecord, error) {
	f.Calls++
	f.LastQuery = query
	f.LastLimit = limit
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Results == nil {
		return []model.VoterRecord{}, nil
	}
	return f.Results, nil
}

// FakeBrandingStore keeps branding in memory.
type FakeBrandingStore struct {
	Branding model.Branding
	LoadErr  error
	SaveErr  error
	Saves    int
}

// LoadBranding implements BrandingStore for the fake.
func (f *FakeBrandingStore) LoadBranding(ctx context.Context) (model.Branding, error) {
	if f.LoadErr != nil {
		return model.Branding{}, f.LoadErr
	}
	return f.Branding, nil
}

// SaveBranding implements BrandingStore for the fake.
func (f *FakeBrandingStore) SaveBranding(ctx context.Context, b model.Branding) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Branding = b
	f.Saves++
	return nil
}
