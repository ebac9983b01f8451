// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import (
	"testing"
)

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := GetAvailableLocales()
	for _, k := range []string{"en", "mr"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q to be present", k)
		}
	}
	if name := av["mr"]; name != "मराठी" {
		t.Fatalf("unexpected display name for mr: %q", name)
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("slip.title"); got != "Voter Slip" {
		t.Fatalf("expected 'Voter Slip', got %q", got)
	}

	// fmt-style formatting via non-map template args
	if got := T("find.results", 3); got != "3 voter(s) found." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	SetLang("mr")
	if GetLang() != "mr" {
		t.Fatalf("expected lang 'mr', got %q", GetLang())
	}
	if got := T("slip.name"); got != "नाव" {
		t.Fatalf("expected Marathi 'नाव', got %q", got)
	}
	// IDs shared with English keep their value.
	if got := T("slip.card"); got != "EPIC" {
		t.Fatalf("expected 'EPIC', got %q", got)
	}
	Init("en")
}

func TestT_FallbacksToID(t *testing.T) {
	Init("en")
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Fatalf("expected ID fallback, got %q", got)
	}
}

func TestT_UnknownLanguageUsesEnglish(t *testing.T) {
	Init("xx")
	defer Init("en")
	if got := T("slip.booth"); got != "Booth" {
		t.Fatalf("expected English fallback, got %q", got)
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	files, err := localeFS.ReadDir("locales")
	if err != nil {
		t.Fatal(err)
	}
	Init("en")
	for _, f := range files {
		lang := f.Name()[:len(f.Name())-len(".yaml")]
		SetLang(lang)
		for _, id := range []string{"slip.title", "slip.name", "slip.booth", "find.no_results", "print.failed", "settings.saved", "db.maintained"} {
			if T(id) == id {
				t.Errorf("%s: missing translation for %q", lang, id)
			}
		}
	}
	Init("en")
}
