// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session holds the state of one operator session: the branding in
// effect, the last search results and the last notice shown to the operator.
// Every operation goes through a Session so there is no package-level state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/headerimg"
	"github.com/toeirei/voterslip/internal/i18n"
	"github.com/toeirei/voterslip/internal/logging"
	"github.com/toeirei/voterslip/internal/lookup"
	"github.com/toeirei/voterslip/internal/model"
	"github.com/toeirei/voterslip/internal/slip"
)

// Printer hands a finished document to a print channel.
type Printer interface {
	Dispatch(document string, channel model.Channel) error
}

// Deps are the collaborators a Session drives.
type Deps struct {
	Lookup   *lookup.Service
	Store    db.BrandingStore
	Images   *headerimg.Preparer
	Renderer *slip.Renderer
	Printer  Printer
}

// Session is safe for concurrent use.
type Session struct {
	deps Deps

	mu       sync.Mutex
	branding model.Branding
	results  []model.VoterRecord
	notice   string

	// prepared header image, keyed by the path it came from
	imgPath string
	img     []byte
}

// New returns a Session with empty branding. Call Load to read the saved
// branding.
func New(deps Deps) *Session {
	return &Session{deps: deps}
}

// Load reads the saved branding. On failure the session keeps empty branding
// and the error is returned for the caller to report.
func (s *Session) Load(ctx context.Context) error {
	if s.deps.Store == nil {
		return nil
	}
	b, err := s.deps.Store.LoadBranding(ctx)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		logging.Warnf("load branding: %v", err)
		return fmt.Errorf("load branding: %w", err)
	}
	s.mu.Lock()
	s.branding = b
	s.mu.Unlock()
	return nil
}

// Branding returns the branding currently in effect.
func (s *Session) Branding() model.Branding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branding
}

// SetBranding replaces the branding for subsequent slips. It is not saved
// until Save is called.
func (s *Session) SetBranding(b model.Branding) {
	s.mu.Lock()
	s.branding = b
	s.mu.Unlock()
}

// SetHeaderImage changes the header image path for subsequent slips.
func (s *Session) SetHeaderImage(path string) {
	s.mu.Lock()
	s.branding.HeaderImagePath = path
	s.mu.Unlock()
}

// Results returns a copy of the last search results.
func (s *Session) Results() []model.VoterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.VoterRecord(nil), s.results...)
}

// Notice returns the last message meant for the operator, or "".
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

func (s *Session) setNotice(msg string) {
	s.mu.Lock()
	s.notice = msg
	s.mu.Unlock()
}

// Search runs a lookup and stores its results.
func (s *Session) Search(ctx context.Context, query string) []model.VoterRecord {
	var rows []model.VoterRecord
	if s.deps.Lookup != nil {
		rows = s.deps.Lookup.Find(ctx, query)
	}
	s.mu.Lock()
	s.results = rows
	switch {
	case len(rows) == 0:
		s.notice = i18n.T("find.no_results", query)
	default:
		s.notice = i18n.T("find.results", len(rows))
	}
	s.mu.Unlock()
	return append([]model.VoterRecord(nil), rows...)
}

// headerImage returns the prepared header image for path, reusing the last
// result when the path has not changed.
func (s *Session) headerImage(path string) []byte {
	if s.deps.Images == nil || path == "" {
		return nil
	}
	s.mu.Lock()
	if s.imgPath == path && s.img != nil {
		img := s.img
		s.mu.Unlock()
		return img
	}
	s.mu.Unlock()

	img := s.deps.Images.Prepare(path)
	if len(img) > 0 {
		s.mu.Lock()
		s.imgPath, s.img = path, img
		s.mu.Unlock()
	}
	return img
}

// Preview renders the slip for voter in style without printing it.
func (s *Session) Preview(voter model.VoterRecord, style model.Style) (string, error) {
	if s.deps.Renderer == nil {
		return "", errors.New("no slip renderer configured")
	}
	b := s.Branding()
	var img []byte
	if s.deps.Renderer.Features(style).Image {
		img = s.headerImage(b.HeaderImagePath)
	}
	return s.deps.Renderer.Render(voter, b, img, style)
}

// Print renders the slip for voter and dispatches it on channel. An empty
// style uses the channel's default. A failure is recorded as the notice and
// leaves the search results and branding untouched.
func (s *Session) Print(voter model.VoterRecord, style model.Style, channel model.Channel) error {
	if style == "" {
		style = channel.DefaultStyle()
	}
	doc, err := s.Preview(voter, style)
	if err != nil {
		s.setNotice(i18n.T("render.failed", err))
		return err
	}
	if s.deps.Printer == nil {
		err = errors.New("no printer configured")
		s.setNotice(i18n.T("print.failed", err))
		return err
	}
	if err := s.deps.Printer.Dispatch(doc, channel); err != nil {
		s.setNotice(i18n.T("print.failed", err))
		return err
	}
	s.setNotice(i18n.T("print.sent"))
	return nil
}

// Save writes the current branding to storage.
func (s *Session) Save(ctx context.Context) error {
	if s.deps.Store == nil {
		return errors.New("no settings store configured")
	}
	if err := s.deps.Store.SaveBranding(ctx, s.Branding()); err != nil {
		s.setNotice(i18n.T("settings.save_failed", err))
		return fmt.Errorf("save branding: %w", err)
	}
	s.setNotice(i18n.T("settings.saved"))
	return nil
}
