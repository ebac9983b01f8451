// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/toeirei/voterslip/internal/model"
	"github.com/uptrace/bun"
)

// settingsRowID is the fixed primary key of the singleton settings row.
const settingsRowID = 1

// SettingsModel is the bun mapping of the app_settings table.
type SettingsModel struct {
	bun.BaseModel `bun:"table:app_settings"`
	ID            int            `bun:"id,pk"`
	HeaderPath    sql.NullString `bun:"header_path"`
	CandName      sql.NullString `bun:"cand_name"`
	CandParty     sql.NullString `bun:"cand_party"`
	CandSymbol    sql.NullString `bun:"cand_symbol"`
}

func settingsModelToModel(m SettingsModel) model.Branding {
	return model.Branding{
		HeaderImagePath: m.HeaderPath.String,
		CandidateName:   m.CandName.String,
		CandidateParty:  m.CandParty.String,
		CandidateSymbol: m.CandSymbol.String,
	}
}

func ns(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

// ensureSettingsRow inserts the empty singleton row on first run.
func (s *Store) ensureSettingsRow() error {
	ctx := context.Background()
	n, err := s.bun.NewSelect().Model((*SettingsModel)(nil)).Where("id = ?", settingsRowID).Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	row := &SettingsModel{ID: settingsRowID, HeaderPath: ns(""), CandName: ns(""), CandParty: ns(""), CandSymbol: ns("")}
	if _, err := s.bun.NewInsert().Model(row).Exec(ctx); err != nil {
		// Another process may have created it between the count and the insert.
		if errors.Is(MapDBError(err), ErrDuplicate) {
			return nil
		}
		return err
	}
	dbLogf("db: created default settings row")
	return nil
}

// LoadBranding reads the singleton settings row.
func (s *Store) LoadBranding(ctx context.Context) (model.Branding, error) {
	var m SettingsModel
	if err := s.bun.NewSelect().Model(&m).Where("id = ?", settingsRowID).Limit(1).Scan(ctx); err != nil {
		return model.Branding{}, fmt.Errorf("failed to load settings: %w", MapDBError(err))
	}
	return settingsModelToModel(m), nil
}

// SaveBranding overwrites the singleton settings row.
func (s *Store) SaveBranding(ctx context.Context, b model.Branding) error {
	m := &SettingsModel{
		ID:         settingsRowID,
		HeaderPath: ns(b.HeaderImagePath),
		CandName:   ns(b.CandidateName),
		CandParty:  ns(b.CandidateParty),
		CandSymbol: ns(b.CandidateSymbol),
	}
	res, err := s.bun.NewUpdate().Model(m).
		Column("header_path", "cand_name", "cand_party", "cand_symbol").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", MapDBError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 affected rows when nothing changed; only treat a
		// missing row as an error.
		if count, err := s.bun.NewSelect().Model((*SettingsModel)(nil)).Where("id = ?", settingsRowID).Count(ctx); err == nil && count == 0 {
			return fmt.Errorf("failed to save settings: %w", ErrNotFound)
		}
	}
	dbLogf("db: settings saved")
	return nil
}
