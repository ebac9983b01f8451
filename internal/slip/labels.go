// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package slip

// Labels are the captions printed next to each field. They are inputs to the
// renderer so localized captions keep rendering pure.
type Labels struct {
	Title       string
	Name        string
	Ward        string
	Serial      string
	Age         string
	Sex         string
	Card        string
	Assembly    string
	Address     string
	Booth       string
	PrintButton string
}

// DefaultLabels returns the English captions.
func DefaultLabels() Labels {
	return Labels{
		Title:       "Voter Slip",
		Name:        "Name",
		Ward:        "Ward",
		Serial:      "Sr.No",
		Age:         "Age",
		Sex:         "Sex",
		Card:        "EPIC",
		Assembly:    "Assembly",
		Address:     "Addr",
		Booth:       "Booth",
		PrintButton: "CLICK TO PRINT",
	}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&l.Title, d.Title)
	fill(&l.Name, d.Name)
	fill(&l.Ward, d.Ward)
	fill(&l.Serial, d.Serial)
	fill(&l.Age, d.Age)
	fill(&l.Sex, d.Sex)
	fill(&l.Card, d.Card)
	fill(&l.Assembly, d.Assembly)
	fill(&l.Address, d.Address)
	fill(&l.Booth, d.Booth)
	fill(&l.PrintButton, d.PrintButton)
	return l
}

func (l Labels) of(f Field) string {
	switch f {
	case FieldName:
		return l.Name
	case FieldWard:
		return l.Ward
	case FieldSerial:
		return l.Serial
	case FieldAge:
		return l.Age
	case FieldSex:
		return l.Sex
	case FieldCard:
		return l.Card
	case FieldAssembly:
		return l.Assembly
	case FieldAddress:
		return l.Address
	case FieldBooth:
		return l.Booth
	}
	return string(f)
}
