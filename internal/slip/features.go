// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package slip

import (
	"fmt"
	"strings"

	"github.com/toeirei/voterslip/internal/model"
)

// Field identifies one voter attribute shown on a slip.
type Field string

const (
	FieldName     Field = "name"
	FieldWard     Field = "ward"
	FieldSerial   Field = "serial"
	FieldAge      Field = "age"
	FieldSex      Field = "sex"
	FieldCard     Field = "card"
	FieldAssembly Field = "assembly"
	FieldAddress  Field = "address"
	FieldBooth    Field = "booth"
)

// AllFields lists every field in slip order.
var AllFields = []Field{FieldName, FieldWard, FieldSerial, FieldAge, FieldSex, FieldCard, FieldAssembly, FieldAddress, FieldBooth}

// Layout selects how fields are arranged in an HTML slip.
type Layout string

const (
	// LayoutTable arranges fields in a two-column table.
	LayoutTable Layout = "table"
	// LayoutLines puts every field on its own line.
	LayoutLines Layout = "lines"
)

// Features is the switch set that distinguishes slip variants.
type Features struct {
	// Image embeds the header image when one is supplied.
	Image bool
	// Layout applies to HTML output only; plain output is always line based.
	Layout Layout
	// Fields lists the voter fields to show. Order is fixed by AllFields.
	Fields []Field
	// PrintButton adds an on-screen print link that is hidden when printing.
	PrintButton bool
}

// FeaturesFor returns the default feature set for a style.
func FeaturesFor(style model.Style) Features {
	if style == model.StylePlain {
		return Features{
			Layout: LayoutLines,
			Fields: []Field{FieldName, FieldWard, FieldSerial, FieldCard, FieldAge, FieldSex, FieldBooth},
		}
	}
	return Features{
		Image:       true,
		Layout:      LayoutTable,
		Fields:      append([]Field(nil), AllFields...),
		PrintButton: true,
	}
}

// Has reports whether f is enabled.
func (f Features) Has(field Field) bool {
	for _, x := range f.Fields {
		if x == field {
			return true
		}
	}
	return false
}

// ParseFields parses a comma separated field list such as "name,card,booth".
// An empty string yields nil.
func ParseFields(s string) ([]Field, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []Field
	for _, part := range strings.Split(s, ",") {
		name := Field(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		known := false
		for _, f := range AllFields {
			if f == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown slip field %q", part)
		}
		out = append(out, name)
	}
	return out, nil
}
