// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures shared by the store, the
// slip renderer and the print dispatcher.
package model // import "github.com/toeirei/voterslip/internal/model"

import "strings"

// VoterColumns is the fixed column list used when selecting voter rows. The
// order matches the field order of VoterRecord.
var VoterColumns = []string{
	"srno",
	"vcardid",
	"l_voter_name",
	"age",
	"sex",
	"l_boothaddress",
	"part_no",
	"assembly_mapping",
	"l_address",
}

// VoterRecord is a single row of the read-only voter roll. Every field may be
// empty; NULL columns are mapped to "".
type VoterRecord struct {
	SerialNumber    string `json:"serial_number"`
	CardID          string `json:"card_id"`
	Name            string `json:"name"`
	Age             string `json:"age"`
	Sex             string `json:"sex"`
	BoothAddress    string `json:"booth_address"`
	WardNumber      string `json:"ward_number"`
	AssemblyMapping string `json:"assembly_mapping"`
	Address         string `json:"address"`
}

// Gender returns "M" or "F" for the known codes (in any case, surrounding
// space ignored) and the stored value unchanged otherwise.
func (v VoterRecord) Gender() string {
	switch code := strings.ToUpper(strings.TrimSpace(v.Sex)); code {
	case "M", "F":
		return code
	default:
		return v.Sex
	}
}

// String returns a short "name (card)" form used in logs and listings.
func (v VoterRecord) String() string {
	if v.CardID == "" {
		return v.Name
	}
	return v.Name + " (" + v.CardID + ")"
}

// Branding holds the operator-entered candidate details printed on every
// slip. It is persisted as the single row of app_settings.
type Branding struct {
	HeaderImagePath string `json:"header_image_path" yaml:"header_image_path"`
	CandidateName   string `json:"candidate_name" yaml:"candidate_name"`
	CandidateParty  string `json:"candidate_party" yaml:"candidate_party"`
	CandidateSymbol string `json:"candidate_symbol" yaml:"candidate_symbol"`
}

// IsZero reports whether no branding field has been set.
func (b Branding) IsZero() bool {
	return b == Branding{}
}
