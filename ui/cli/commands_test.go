// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/dispatch"
	"github.com/toeirei/voterslip/internal/logging"
	"github.com/toeirei/voterslip/internal/model"
	"github.com/toeirei/voterslip/internal/slip"
	"github.com/toeirei/voterslip/internal/testutil"
)

type testEnv struct {
	dir    string
	dsn    string
	assets string
	opener *testutil.FakeOpener
}

// setupTestEnv isolates config discovery, seeds a SQLite roll in a temp dir
// and captures URLs instead of opening them.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	env := &testEnv{
		dir:    dir,
		dsn:    filepath.Join(dir, "voter_data.db"),
		assets: filepath.Join(dir, "assets"),
		opener: &testutil.FakeOpener{},
	}
	store, err := db.Open("sqlite", env.dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	voters := []model.VoterRecord{
		{SerialNumber: "7", CardID: "TST0000007", Name: "Another Test Name", Age: "51", Sex: "F", BoothAddress: "Booth 2", WardNumber: "1"},
		testutil.SampleVoter(),
	}
	if err := store.InsertVoters(context.Background(), voters, []string{"Another Test Name", "Test Name"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.SaveBranding(context.Background(), testutil.SampleBranding()); err != nil {
		t.Fatalf("seed branding: %v", err)
	}
	_ = store.Close()

	origOpener := newOpener
	newOpener = func() dispatch.URLOpener { return env.opener }
	t.Cleanup(func() {
		newOpener = origOpener
		verbose = false
		cfgFile = ""
		logging.SetOutput(os.Stderr)
		_ = os.Chdir(wd)
	})
	return env
}

// run executes the root command with the test database and returns the
// combined output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--database.dsn", e.dsn, "--assets.dir", e.assets))
	err := cmd.Execute()
	return out.String(), err
}

func TestFind_ListsExactMatchFirst(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "find", "ABC1234567")
	if err != nil {
		t.Fatalf("find: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[1], "1\tABC1234567\tTest Name") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestFind_SubstringMatchesBoth(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "find", "Test")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "TST0000007") || !strings.Contains(out, "ABC1234567") {
		t.Fatalf("expected both voters:\n%s", out)
	}
}

func TestFind_NoResults(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "find", "Nobody Here")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `No voter found for "Nobody Here".`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSlip_PlainToStdout(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "slip", "ABC1234567", "--style", "plain")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, slip.BoldOn+"EPIC: ABC1234567"+slip.BoldOff) {
		t.Fatalf("unexpected slip:\n%q", out)
	}
	if !strings.Contains(out, "Candidate X") {
		t.Fatal("saved branding not used")
	}
}

func TestSlip_RichToFileWithPick(t *testing.T) {
	env := setupTestEnv(t)
	file := filepath.Join(env.dir, "slip.html")
	if _, err := env.run(t, "slip", "Test", "--pick", "1", "--out", file); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Test Name") || !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Fatalf("unexpected slip file:\n%s", data)
	}
}

func TestSlip_PickOutOfRange(t *testing.T) {
	env := setupTestEnv(t)
	if _, err := env.run(t, "slip", "Test", "--pick", "5"); err == nil {
		t.Fatal("expected error for --pick beyond results")
	}
	if _, err := env.run(t, "slip", "Nobody"); !errors.Is(err, errNoMatch) {
		t.Fatalf("expected errNoMatch, got %v", err)
	}
}

func TestPrint_URLOnly(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "print", "ABC1234567", "--channel", "service", "--url")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "rawbt:data:text/html;base64,") {
		t.Fatalf("unexpected URL:\n%s", out)
	}
	if len(env.opener.URLs) != 0 {
		t.Fatal("--url must not open anything")
	}
}

func TestPrint_TextChannelOpensSchemeURL(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "print", "ABC1234567", "--channel", "text", "--printer.scheme", "mybt")
	if err != nil {
		t.Fatalf("print: %v\n%s", err, out)
	}
	u := env.opener.Last()
	if !strings.HasPrefix(u, "mybt:") || strings.Contains(u, "data:") {
		t.Fatalf("unexpected URL %q", u)
	}
	if !strings.Contains(out, "Slip sent to the printer.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPrint_FailureReported(t *testing.T) {
	env := setupTestEnv(t)
	env.opener.Err = errors.New("no browser")
	out, err := env.run(t, "print", "ABC1234567")
	if !errors.Is(err, dispatch.ErrCouldNotOpen) {
		t.Fatalf("expected ErrCouldNotOpen, got %v", err)
	}
	if !strings.Contains(out, "Could not open the printer app") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSlip_NoImageLeavesPhotoOut(t *testing.T) {
	env := setupTestEnv(t)
	logo := testutil.WritePNG(t, env.dir, "logo.png", 80, 40, color.White)
	if out, err := env.run(t, "settings", "set", "--header", logo); err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}

	out, err := env.run(t, "slip", "ABC1234567")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<img") {
		t.Fatalf("expected the header photo by default:\n%s", out)
	}

	out, err = env.run(t, "slip", "ABC1234567", "--no-image")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<img") {
		t.Fatalf("--no-image still embedded the photo:\n%s", out)
	}
	if !strings.Contains(out, "ABC1234567") {
		t.Fatalf("slip lost the voter:\n%s", out)
	}
}

func TestPrint_NoImageOnServiceChannel(t *testing.T) {
	env := setupTestEnv(t)
	logo := testutil.WritePNG(t, env.dir, "logo.png", 80, 40, color.White)
	if out, err := env.run(t, "settings", "set", "--header", logo); err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}
	out, err := env.run(t, "print", "ABC1234567", "--channel", "service", "--no-image")
	if err != nil {
		t.Fatalf("print: %v\n%s", err, out)
	}
	u := env.opener.Last()
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, "rawbt:data:text/html;base64,"))
	if err != nil {
		t.Fatalf("decode %q: %v", u, err)
	}
	if strings.Contains(string(payload), "<img") {
		t.Fatal("service slip embedded the photo despite --no-image")
	}
}

func TestSlip_FieldsFlag(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "slip", "ABC1234567", "--slip.fields", "name,card")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ABC1234567") || strings.Contains(out, "Booth 5") {
		t.Fatalf("unexpected fields in slip:\n%s", out)
	}
	if _, err := env.run(t, "slip", "ABC1234567", "--slip.fields", "name,shoe_size"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestSlipOverrides(t *testing.T) {
	got, err := slipOverrides(true, "")
	if err != nil || got != nil {
		t.Fatalf("defaults should need no overrides, got %v %v", got, err)
	}
	got, err = slipOverrides(false, "")
	if err != nil {
		t.Fatal(err)
	}
	if got[model.StyleRich].Image || !got[model.StyleRich].PrintButton {
		t.Fatalf("rich override should only drop the image: %+v", got[model.StyleRich])
	}
	got, err = slipOverrides(true, "card")
	if err != nil {
		t.Fatal(err)
	}
	if f := got[model.StylePlain]; len(f.Fields) != 1 || f.Fields[0] != slip.FieldCard {
		t.Fatalf("plain override fields = %v", f.Fields)
	}
}

func TestPrint_UnknownChannel(t *testing.T) {
	env := setupTestEnv(t)
	if _, err := env.run(t, "print", "ABC1234567", "--channel", "fax"); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestSettings_SetAndShow(t *testing.T) {
	env := setupTestEnv(t)
	if out, err := env.run(t, "settings", "set", "--party", "Party Q", "--header", "logo.png"); err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}
	out, err := env.run(t, "settings", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"candidate_name: Candidate X", "candidate_party: Party Q", "header_image_path: logo.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSettings_BackupRestore(t *testing.T) {
	env := setupTestEnv(t)
	backup := filepath.Join(env.dir, "settings")
	if _, err := env.run(t, "settings", "backup", backup); err != nil {
		t.Fatal(err)
	}
	data, err := readCompressedBackup(backup + ".zst")
	if err != nil {
		t.Fatal(err)
	}
	if data.SchemaVersion != settingsBackupVersion || data.Branding.CandidateName != "Candidate X" {
		t.Fatalf("unexpected backup %+v", data)
	}

	if _, err := env.run(t, "settings", "set", "--name", "Someone Else"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "settings", "restore", backup+".zst"); err != nil {
		t.Fatal(err)
	}
	out, err := env.run(t, "settings", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "candidate_name: Candidate X") {
		t.Fatalf("restore did not apply:\n%s", out)
	}
}

func TestSettings_RestoreRejectsNewerSchema(t *testing.T) {
	env := setupTestEnv(t)
	file := filepath.Join(env.dir, "future.json.zst")
	if err := writeCompressedBackup(file, &SettingsBackup{SchemaVersion: settingsBackupVersion + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "settings", "restore", file); err == nil {
		t.Fatal("expected schema version error")
	}
}

func TestSettings_WriteConfig(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "settings", "write-config")
	if err != nil {
		t.Fatal(err)
	}
	path := strings.TrimSpace(out)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written to %q: %v", path, err)
	}
	if !strings.Contains(string(data), env.dsn) {
		t.Fatalf("written config misses the DSN:\n%s", data)
	}
}

func TestDB_ProvisionCopiesBundledDatabase(t *testing.T) {
	env := setupTestEnv(t)
	if err := os.MkdirAll(env.assets, 0o755); err != nil {
		t.Fatal(err)
	}
	seed, err := os.ReadFile(env.dsn)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.assets, "fresh.db"), seed, 0o644); err != nil {
		t.Fatal(err)
	}
	env.dsn = filepath.Join(env.dir, "data", "fresh.db")
	if err := os.MkdirAll(filepath.Dir(env.dsn), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := env.run(t, "db", "provision")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Database copied to") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	out, err = env.run(t, "db", "provision")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "already present") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	out, err = env.run(t, "find", "ABC1234567")
	if err != nil || !strings.Contains(out, "Test Name") {
		t.Fatalf("provisioned roll not searchable: %v\n%s", err, out)
	}
}

func TestDB_Maintain(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "db", "maintain", "--timeout", "30")
	if err != nil {
		t.Fatalf("maintain: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Database maintenance finished.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	env := setupTestEnv(t)
	out, err := env.run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version: ") || !strings.Contains(out, "commit: ") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestWriteResults_Styled(t *testing.T) {
	var buf bytes.Buffer
	writeResults(&buf, []model.VoterRecord{testutil.SampleVoter()}, "ABC1234567", true)
	out := buf.String()
	if !strings.Contains(out, "ABC1234567") || !strings.Contains(out, "│") {
		t.Fatalf("expected bordered table:\n%s", out)
	}
	if !strings.Contains(out, "1 voter(s) found.") {
		t.Fatalf("missing summary line:\n%s", out)
	}
}
