// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/toeirei/voterslip/internal/model"
	"github.com/uptrace/bun"
)

// likeEscape is the escape character used in LIKE patterns. '!' is used
// instead of '\' because MySQL treats backslash as a string escape.
const likeEscape = "!"

// VoterModel is the bun mapping of a voters row. Columns are nullable and
// may hold integers in pre-populated rolls, so every field scans through
// sql.NullString.
type VoterModel struct {
	bun.BaseModel   `bun:"table:voters"`
	SerialNumber    sql.NullString `bun:"srno"`
	CardID          sql.NullString `bun:"vcardid"`
	Name            sql.NullString `bun:"l_voter_name"`
	Age             sql.NullString `bun:"age"`
	Sex             sql.NullString `bun:"sex"`
	BoothAddress    sql.NullString `bun:"l_boothaddress"`
	WardNumber      sql.NullString `bun:"part_no"`
	AssemblyMapping sql.NullString `bun:"assembly_mapping"`
	Address         sql.NullString `bun:"l_address"`
}

func voterModelToModel(v VoterModel) model.VoterRecord {
	return model.VoterRecord{
		SerialNumber:    strings.TrimSpace(v.SerialNumber.String),
		CardID:          strings.TrimSpace(v.CardID.String),
		Name:            v.Name.String,
		Age:             strings.TrimSpace(v.Age.String),
		Sex:             v.Sex.String,
		BoothAddress:    v.BoothAddress.String,
		WardNumber:      strings.TrimSpace(v.WardNumber.String),
		AssemblyMapping: strings.TrimSpace(v.AssemblyMapping.String),
		Address:         v.Address.String,
	}
}

// EscapeLike escapes LIKE wildcards in s so it matches literally when used
// with ESCAPE '!'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// voterQuery builds the lookup statement for the store's dialect. The query
// text never contains user input; all values are bound. An exact card ID
// match sorts first so LIMIT can never cut it.
func (s *Store) voterQuery(collation model.Collation) string {
	nameCol := func(col string, n int) string {
		p := placeholder(s.dbType, n)
		if collation == model.CollationNoCase {
			return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s) ESCAPE '%s'", col, p, likeEscape)
		}
		return fmt.Sprintf("%s LIKE %s ESCAPE '%s'", col, p, likeEscape)
	}
	return fmt.Sprintf(
		"SELECT %s FROM voters WHERE vcardid = %s OR %s OR %s ORDER BY CASE WHEN vcardid = %s THEN 0 ELSE 1 END LIMIT %s",
		strings.Join(model.VoterColumns, ", "),
		placeholder(s.dbType, 1),
		nameCol("l_voter_name", 2),
		nameCol("e_voter_name", 3),
		placeholder(s.dbType, 4),
		placeholder(s.dbType, 5),
	)
}

// FindVoters returns up to limit voters whose card ID equals query or whose
// local or transliterated name contains query.
func (s *Store) FindVoters(ctx context.Context, query string, collation model.Collation, limit int) ([]model.VoterRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	like := "%" + EscapeLike(query) + "%"
	rows, err := s.bun.DB.QueryContext(ctx, s.voterQuery(collation), query, like, like, query, limit)
	if err != nil {
		return nil, fmt.Errorf("voter query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vm []VoterModel
	if err := s.bun.ScanRows(ctx, rows, &vm); err != nil {
		return nil, fmt.Errorf("voter scan failed: %w", err)
	}
	out := make([]model.VoterRecord, 0, len(vm))
	for _, v := range vm {
		out = append(out, voterModelToModel(v))
	}
	dbLogf("db: voter lookup returned %d rows", len(out))
	return out, nil
}

// InsertVoters adds rows to the voters table. It is used to seed test and
// demo databases; the production roll ships pre-populated.
func (s *Store) InsertVoters(ctx context.Context, voters []model.VoterRecord, transliterated []string) error {
	if len(voters) == 0 {
		return nil
	}
	rows := make([]voterInsertModel, 0, len(voters))
	for i, v := range voters {
		var alt string
		if i < len(transliterated) {
			alt = transliterated[i]
		}
		rows = append(rows, voterInsertModel{
			SerialNumber:    v.SerialNumber,
			CardID:          v.CardID,
			Name:            v.Name,
			AltName:         alt,
			Age:             v.Age,
			Sex:             v.Sex,
			BoothAddress:    v.BoothAddress,
			WardNumber:      v.WardNumber,
			AssemblyMapping: v.AssemblyMapping,
			Address:         v.Address,
		})
	}
	if _, err := s.bun.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert voters: %w", MapDBError(err))
	}
	return nil
}

type voterInsertModel struct {
	bun.BaseModel   `bun:"table:voters"`
	SerialNumber    string `bun:"srno,nullzero"`
	CardID          string `bun:"vcardid,nullzero"`
	Name            string `bun:"l_voter_name,nullzero"`
	AltName         string `bun:"e_voter_name,nullzero"`
	Age             string `bun:"age,nullzero"`
	Sex             string `bun:"sex,nullzero"`
	BoothAddress    string `bun:"l_boothaddress,nullzero"`
	WardNumber      string `bun:"part_no,nullzero"`
	AssemblyMapping string `bun:"assembly_mapping,nullzero"`
	Address         string `bun:"l_address,nullzero"`
}
