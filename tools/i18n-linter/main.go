// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every message ID passed to i18n.T exists in the
// English locale and that every other locale carries the same IDs.
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// report lists the problems found in one run.
type report struct {
	// Undefined IDs are used in code but absent from the primary locale.
	Undefined []string
	// Unused IDs are defined in the primary locale but never used.
	Unused []string
	// Missing maps a secondary locale file to the IDs it lacks.
	Missing map[string][]string
}

func (r report) failed() bool {
	return len(r.Undefined) > 0 || len(r.Missing) > 0
}

func main() {
	r, err := lint(projectRoot, localesDir, primaryLocale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	printReport(os.Stdout, r)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, dir, primary string) (report, error) {
	r := report{Missing: map[string][]string{}}
	used, err := findUsedKeys(root)
	if err != nil {
		return r, fmt.Errorf("scan sources: %w", err)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(dir, primary))
	if err != nil {
		return r, fmt.Errorf("load %s: %w", primary, err)
	}
	r.Undefined = difference(used, primaryKeys)
	r.Unused = difference(primaryKeys, used)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return r, err
	}
	for _, f := range files {
		if filepath.Base(f) == primary {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return r, fmt.Errorf("load %s: %w", f, err)
		}
		if missing := difference(primaryKeys, keys); len(missing) > 0 {
			r.Missing[filepath.Base(f)] = missing
		}
	}
	return r, nil
}

func printReport(w io.Writer, r report) {
	section := func(title string, items []string) {
		fmt.Fprintf(w, "--- %s ---\n", title)
		if len(items) == 0 {
			fmt.Fprintln(w, "  none")
		}
		for _, it := range items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	section("Used in code but not defined", r.Undefined)
	section("Defined but never used", r.Unused)

	locales := make([]string, 0, len(r.Missing))
	for l := range r.Missing {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	for _, l := range locales {
		section("Missing in "+l, r.Missing[l])
	}
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

// findUsedKeys collects the literal message IDs passed to i18n.T in non-test
// Go files below root. The tools directory is skipped.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name == "tools" || (strings.HasPrefix(name, "_") && path != root) || (strings.HasPrefix(name, ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range usedKeyRe.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot separated keys.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	m, ok := node.(map[string]interface{})
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, val := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		flattenYAML(k, val, keys)
	}
}
