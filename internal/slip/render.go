// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slip renders a voter record and the operator's branding into a
// printable document. Rendering is a pure function of its inputs.
//
// Two styles share one renderer: a standalone HTML page (html/template, so
// every value is contextually escaped) and a narrow line-oriented text for
// thermal printers with ESC/POS bold markers.
package slip

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"
	"unicode/utf8"

	"github.com/toeirei/voterslip/internal/headerimg"
	"github.com/toeirei/voterslip/internal/model"
)

// ESC/POS "emphasized mode" on and off.
const (
	BoldOn  = "\x1bE\x01"
	BoldOff = "\x1bE\x00"
)

// DefaultLineWidth is the character width of a 58 mm thermal roll.
const DefaultLineWidth = 32

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options configures a Renderer.
type Options struct {
	Labels Labels
	// Footer is printed at the bottom of every slip when non-empty.
	Footer string
	// LineWidth is the character width used by the plain style.
	LineWidth int
	// Overrides replaces the default feature set per style.
	Overrides map[model.Style]Features
}

// Renderer produces slip documents. It is safe for concurrent use.
type Renderer struct {
	labels    Labels
	footer    string
	lineWidth int
	overrides map[model.Style]Features
	html      *htmltemplate.Template
	text      *texttemplate.Template
}

// New parses the embedded templates and returns a Renderer.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		labels:    opts.Labels.withDefaults(),
		footer:    opts.Footer,
		lineWidth: opts.LineWidth,
		overrides: map[model.Style]Features{},
	}
	if r.lineWidth <= 0 {
		r.lineWidth = DefaultLineWidth
	}
	for k, v := range opts.Overrides {
		r.overrides[k] = v
	}

	var err error
	r.html, err = htmltemplate.ParseFS(templateFS, "templates/rich.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	r.text, err = texttemplate.New("plain.txt.tmpl").Funcs(texttemplate.FuncMap{
		"bold":   func(s string) string { return BoldOn + s + BoldOff },
		"center": r.center,
		"rule":   func() string { return strings.Repeat("-", r.lineWidth) },
		"feed":   func() string { return "\n\n" },
	}).ParseFS(templateFS, "templates/plain.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return r, nil
}

// Features returns the feature set used for style.
func (r *Renderer) Features(style model.Style) Features {
	if f, ok := r.overrides[style]; ok {
		return f
	}
	return FeaturesFor(style)
}

// Render produces the document for voter in the given style.
func (r *Renderer) Render(voter model.VoterRecord, branding model.Branding, headerImage []byte, style model.Style) (string, error) {
	return r.RenderWith(voter, branding, headerImage, style, r.Features(style))
}

// RenderWith renders with an explicit feature set.
func (r *Renderer) RenderWith(voter model.VoterRecord, branding model.Branding, headerImage []byte, style model.Style, f Features) (string, error) {
	switch style {
	case model.StyleRich, "":
		return r.renderHTML(voter, branding, headerImage, f)
	case model.StylePlain:
		return r.renderText(voter, branding, f)
	default:
		return "", fmt.Errorf("unsupported slip style %q", style)
	}
}

type cell struct {
	Label  string
	Value  string
	Class  string
	Span   bool
	Strong bool
}

type row struct {
	Cells []cell
	// Rule draws a horizontal line after the row.
	Rule bool
}

type htmlView struct {
	Labels      Labels
	Image       htmltemplate.URL
	Branding    []string
	Table       bool
	Rows        []row
	Footer      string
	PrintButton bool
}

func brandingLines(b model.Branding) []string {
	var out []string
	for _, s := range []string{b.CandidateName, b.CandidateParty, b.CandidateSymbol} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fieldValue(v model.VoterRecord, f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldWard:
		return v.WardNumber
	case FieldSerial:
		return v.SerialNumber
	case FieldAge:
		return v.Age
	case FieldSex:
		return v.Gender()
	case FieldCard:
		return v.CardID
	case FieldAssembly:
		return v.AssemblyMapping
	case FieldAddress:
		return v.Address
	case FieldBooth:
		return v.BoothAddress
	}
	return ""
}

// tableRows arranges the enabled fields the way the slip has always looked:
// name across the top, ward/serial and age/sex side by side, then the card
// number boxed and the booth emphasised last.
func (r *Renderer) tableRows(v model.VoterRecord, f Features) []row {
	mk := func(field Field) cell {
		return cell{Label: r.labels.of(field), Value: fieldValue(v, field)}
	}
	pair := func(a, b Field) *row {
		switch {
		case f.Has(a) && f.Has(b):
			ca, cb := mk(a), mk(b)
			if a == FieldWard {
				ca.Strong, cb.Strong = true, true
			}
			return &row{Cells: []cell{ca, cb}}
		case f.Has(a):
			c := mk(a)
			c.Span = true
			return &row{Cells: []cell{c}}
		case f.Has(b):
			c := mk(b)
			c.Span = true
			return &row{Cells: []cell{c}}
		}
		return nil
	}
	single := func(field Field, class string) *row {
		if !f.Has(field) {
			return nil
		}
		c := mk(field)
		c.Span = true
		c.Class = class
		return &row{Cells: []cell{c}}
	}

	var rows []row
	add := func(r *row) {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	if nr := single(FieldName, "big"); nr != nil {
		nr.Rule = true
		add(nr)
	}
	add(pair(FieldWard, FieldSerial))
	add(pair(FieldAge, FieldSex))
	add(single(FieldCard, "big boxed"))
	add(single(FieldAssembly, ""))
	add(single(FieldAddress, "small"))
	add(single(FieldBooth, "big"))
	return rows
}

func (r *Renderer) lineRows(v model.VoterRecord, f Features) []row {
	var rows []row
	for _, field := range AllFields {
		if !f.Has(field) {
			continue
		}
		c := cell{Label: r.labels.of(field), Value: fieldValue(v, field)}
		switch field {
		case FieldName, FieldCard, FieldBooth:
			c.Class = "big"
		case FieldAddress:
			c.Class = "small"
		}
		rows = append(rows, row{Cells: []cell{c}})
	}
	return rows
}

func (r *Renderer) renderHTML(v model.VoterRecord, b model.Branding, img []byte, f Features) (string, error) {
	view := htmlView{
		Labels:      r.labels,
		Branding:    brandingLines(b),
		Table:       f.Layout != LayoutLines,
		Footer:      r.footer,
		PrintButton: f.PrintButton,
	}
	if f.Image && len(img) > 0 {
		// The URI is built from our own base64 output, never from user text.
		view.Image = htmltemplate.URL(headerimg.DataURI(img))
	}
	if view.Table {
		view.Rows = r.tableRows(v, f)
	} else {
		view.Rows = r.lineRows(v, f)
	}

	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, "rich.html.tmpl", view); err != nil {
		return "", fmt.Errorf("render html slip: %w", err)
	}
	return buf.String(), nil
}

type textLine struct {
	Text   string
	Strong bool
}

type textView struct {
	Branding []string
	Lines    []textLine
	Footer   string
}

func (r *Renderer) renderText(v model.VoterRecord, b model.Branding, f Features) (string, error) {
	view := textView{Footer: sanitize(r.footer)}
	for _, s := range brandingLines(b) {
		view.Branding = append(view.Branding, sanitize(s))
	}

	labelled := func(field Field) string {
		return r.labels.of(field) + ": " + sanitize(fieldValue(v, field))
	}
	addWrapped := func(text string, strong bool) {
		for _, l := range wrap(text, r.lineWidth) {
			view.Lines = append(view.Lines, textLine{Text: l, Strong: strong})
		}
	}

	if f.Has(FieldName) {
		addWrapped(labelled(FieldName), true)
	}
	switch {
	case f.Has(FieldWard) && f.Has(FieldSerial):
		addWrapped(labelled(FieldWard)+"  "+labelled(FieldSerial), false)
	case f.Has(FieldWard):
		addWrapped(labelled(FieldWard), false)
	case f.Has(FieldSerial):
		addWrapped(labelled(FieldSerial), false)
	}
	if f.Has(FieldCard) {
		addWrapped(labelled(FieldCard), true)
	}
	switch {
	case f.Has(FieldAge) && f.Has(FieldSex):
		addWrapped(labelled(FieldAge)+"  "+labelled(FieldSex), false)
	case f.Has(FieldAge):
		addWrapped(labelled(FieldAge), false)
	case f.Has(FieldSex):
		addWrapped(labelled(FieldSex), false)
	}
	if f.Has(FieldAssembly) {
		addWrapped(labelled(FieldAssembly), false)
	}
	if f.Has(FieldAddress) {
		addWrapped(labelled(FieldAddress), false)
	}
	if f.Has(FieldBooth) {
		addWrapped(labelled(FieldBooth), true)
	}

	var buf bytes.Buffer
	if err := r.text.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render text slip: %w", err)
	}
	return buf.String(), nil
}

// sanitize removes control characters so stored text cannot smuggle printer
// commands into the stream, and folds line breaks into spaces.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// center pads s with leading spaces to center it in the line width.
func (r *Renderer) center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= r.lineWidth {
		return s
	}
	return strings.Repeat(" ", (r.lineWidth-n)/2) + s
}

// wrap breaks s on spaces into lines of at most width runes. Words longer
// than width are kept whole.
func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}
