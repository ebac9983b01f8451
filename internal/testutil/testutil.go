// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/toeirei/voterslip/internal/model"
)

// FakeOpener records every URL it is asked to open instead of launching
// anything. Set Err to make OpenURL fail, or Panic to make it panic.
type FakeOpener struct {
	mu    sync.Mutex
	URLs  []string
	Err   error
	Panic any
}

// OpenURL records u and returns Err.
func (f *FakeOpener) OpenURL(u string) error {
	f.mu.Lock()
	f.URLs = append(f.URLs, u)
	f.mu.Unlock()
	if f.Panic != nil {
		panic(f.Panic)
	}
	return f.Err
}

// Last returns the most recently opened URL, or "".
func (f *FakeOpener) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.URLs) == 0 {
		return ""
	}
	return f.URLs[len(f.URLs)-1]
}

// SampleVoter returns a fully populated voter record.
func SampleVoter() model.VoterRecord {
	return model.VoterRecord{
		SerialNumber:    "12",
		CardID:          "ABC1234567",
		Name:            "Test Name",
		Age:             "40",
		Sex:             "M",
		BoothAddress:    "Booth 5",
		WardNumber:      "3",
		AssemblyMapping: "101",
		Address:         "123 Street",
	}
}

// SampleBranding returns candidate branding without a header image.
func SampleBranding() model.Branding {
	return model.Branding{
		CandidateName:   "Candidate X",
		CandidateParty:  "Party Y",
		CandidateSymbol: "Symbol Z",
	}
}

// WritePNG writes a w x h PNG filled with c into dir and returns its path.
func WritePNG(t testing.TB, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

// BytesFromString returns a buffer containing the provided string.
func BytesFromString(s string) *bytes.Buffer { return bytes.NewBufferString(s) }
