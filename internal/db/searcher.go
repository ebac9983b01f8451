// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/voterslip/internal/model"
)

// VoterSearcher defines a minimal interface for searching the voter roll.
// Consumers can depend on this instead of the concrete Store.
type VoterSearcher interface {
	FindVoters(ctx context.Context, query string, collation model.Collation, limit int) ([]model.VoterRecord, error)
}

// BrandingStore loads and saves the singleton branding row.
type BrandingStore interface {
	LoadBranding(ctx context.Context) (model.Branding, error)
	SaveBranding(ctx context.Context, b model.Branding) error
}

var (
	_ VoterSearcher = (*Store)(nil)
	_ BrandingStore = (*Store)(nil)
)
