// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"

	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/dispatch"
	"github.com/toeirei/voterslip/internal/headerimg"
	"github.com/toeirei/voterslip/internal/i18n"
	"github.com/toeirei/voterslip/internal/logging"
	"github.com/toeirei/voterslip/internal/lookup"
	"github.com/toeirei/voterslip/internal/model"
	"github.com/toeirei/voterslip/internal/session"
	"github.com/toeirei/voterslip/internal/slip"
)

// newOpener is a package-level variable so tests can capture launched URLs
// instead of starting a browser.
var newOpener = func() dispatch.URLOpener { return dispatch.BrowserOpener{} }

// openStore provisions a bundled SQLite database on first run and opens the
// configured store. Callers close it when the command finishes.
func openStore() (*db.Store, error) {
	if appConfig.Database.Type == "" || appConfig.Database.Type == "sqlite" {
		if path := db.SQLitePath(appConfig.Database.Dsn); path != "" {
			copied, err := db.Provision(path, appConfig.Assets.Dir)
			if err != nil {
				logging.Warnf("provision %s: %v", path, err)
			} else if copied {
				logging.Infof("%s", i18n.T("db.provisioned", path))
			}
		}
	}
	store, err := db.Open(appConfig.Database.Type, appConfig.Database.Dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store, nil
}

// slipLabels returns the slip captions in the configured language.
func slipLabels() slip.Labels {
	return slip.Labels{
		Title:       i18n.T("slip.title"),
		Name:        i18n.T("slip.name"),
		Ward:        i18n.T("slip.ward"),
		Serial:      i18n.T("slip.serial"),
		Age:         i18n.T("slip.age"),
		Sex:         i18n.T("slip.sex"),
		Card:        i18n.T("slip.card"),
		Assembly:    i18n.T("slip.assembly"),
		Address:     i18n.T("slip.address"),
		Booth:       i18n.T("slip.booth"),
		PrintButton: i18n.T("slip.print_button"),
	}
}

// slipOverrides turns the slip.image and slip.fields settings into feature
// overrides for both styles. It returns nil when the style defaults apply.
func slipOverrides(image bool, fields string) (map[model.Style]slip.Features, error) {
	list, err := slip.ParseFields(fields)
	if err != nil {
		return nil, err
	}
	if image && len(list) == 0 {
		return nil, nil
	}
	out := map[model.Style]slip.Features{}
	for _, style := range []model.Style{model.StyleRich, model.StylePlain} {
		f := slip.FeaturesFor(style)
		if !image {
			f.Image = false
		}
		if len(list) > 0 {
			f.Fields = list
		}
		out[style] = f
	}
	return out, nil
}

// newSession wires a session over store from the loaded configuration and
// reads the saved branding.
func newSession(ctx context.Context, store *db.Store) (*session.Session, error) {
	collation, err := model.ParseCollation(appConfig.Lookup.Collation)
	if err != nil {
		return nil, err
	}
	overrides, err := slipOverrides(appConfig.Slip.Image, appConfig.Slip.Fields)
	if err != nil {
		return nil, err
	}
	renderer, err := slip.New(slip.Options{
		Labels:    slipLabels(),
		Footer:    appConfig.Slip.Footer,
		LineWidth: appConfig.Slip.LineWidth,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}

	deps := session.Deps{
		Images: headerimg.New(headerimg.Options{
			AssetsDir: appConfig.Assets.Dir,
			Width:     appConfig.Image.Width,
			Quality:   appConfig.Image.Quality,
			Mode:      headerimg.Mode(appConfig.Image.Mode),
			Filter:    appConfig.Image.Filter,
		}),
		Renderer: renderer,
		Printer: dispatch.New(dispatch.Options{
			Scheme:        appConfig.Printer.Scheme,
			Opener:        newOpener(),
			CopyOnFailure: appConfig.Printer.CopyOnFailure,
		}),
	}
	// A nil *db.Store must not be stored in the interface fields.
	if store != nil {
		deps.Lookup = lookup.New(store, collation)
		deps.Store = store
	} else {
		deps.Lookup = lookup.New(nil, collation)
	}

	s := session.New(deps)
	if err := s.Load(ctx); err != nil {
		logging.Warnf("%v", err)
	}
	return s, nil
}
