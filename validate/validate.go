/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package validate implements the suite-wide structural and cross-file
// conformance checks over a test corpus (spec.md §4.5): file presence,
// schema compliance, ID format/uniqueness, category agreement, and
// boundary consistency between headers.json and input.raw.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sirupsen/logrus"

	"github.com/badu/mpconform/wire"
)

var expectedCategories = []string{
	"basic",
	"filenames",
	"boundaries",
	"line-endings",
	"content-types",
	"edge-cases",
	"malformed",
	"browser-variations",
}

var (
	idFullRe = regexp.MustCompile(`^\d{3}-[a-z0-9-]+$`)
	idDirRe  = regexp.MustCompile(`^\d{3}-`)
)

// Result accumulates validator errors and warnings, mirroring
// validate-suite.py's ValidationResult.
type Result struct {
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	TestsChecked int      `json:"tests_checked"`
}

// IsValid reports whether no errors were recorded (warnings are fine).
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *Result) addError(path, message string) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", path, message))
}

func (r *Result) addWarning(path, message string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", path, message))
}

// Summary renders a human-readable report, matching the reference
// validator's plain-text summary format.
func (r *Result) Summary() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Tests checked: %d\n", r.TestsChecked)
	fmt.Fprintf(&b, "Errors: %d\n", len(r.Errors))
	fmt.Fprintf(&b, "Warnings: %d\n", len(r.Warnings))
	if len(r.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	return b.String()
}

type schemas struct {
	testCase *jsonschema.Resolved
	headers  *jsonschema.Resolved
}

func loadSchemas(schemaDir string) (*schemas, error) {
	s := &schemas{}

	if p := filepath.Join(schemaDir, "test-case.schema.json"); fileExists(p) {
		sch, err := compileSchemaFile(p)
		if err != nil {
			return nil, fmt.Errorf("loading test-case schema: %w", err)
		}
		s.testCase = sch
	}
	if p := filepath.Join(schemaDir, "headers.schema.json"); fileExists(p) {
		sch, err := compileSchemaFile(p)
		if err != nil {
			return nil, fmt.Errorf("loading headers schema: %w", err)
		}
		s.headers = sch
	}
	return s, nil
}

func compileSchemaFile(path string) (*jsonschema.Resolved, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schema := new(jsonschema.Schema)
	if err := json.Unmarshal(raw, schema); err != nil {
		return nil, err
	}
	return schema.Resolve(nil)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func validateAgainstSchema(data any, schema *jsonschema.Resolved, path string, result *Result) {
	if schema == nil {
		result.addWarning(path, "schema not found, skipping schema validation")
		return
	}
	if err := schema.Validate(data); err != nil {
		result.addError(path, fmt.Sprintf("schema validation failed: %v", err))
	}
}

type rawTestJSON struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Expected struct {
		Valid     bool   `json:"valid"`
		ErrorType string `json:"error_type"`
	} `json:"expected"`
}

// Validate walks <suiteDir>/tests/<category>/<NNN-slug> and checks every
// structural and cross-file invariant from spec.md §4.5.
func Validate(suiteDir string) (*Result, error) {
	log := logrus.WithField("component", "validate")
	result := &Result{}
	seenIDs := make(map[string]bool)

	schemaDir := filepath.Join(suiteDir, "schema")
	var s *schemas
	if fileExists(schemaDir) {
		loaded, err := loadSchemas(schemaDir)
		if err != nil {
			return nil, err
		}
		s = loaded
	} else {
		s = &schemas{}
	}
	if s.testCase == nil && s.headers == nil {
		result.addWarning("schema/", "no schemas found, skipping schema validation")
	}

	testsDir := filepath.Join(suiteDir, "tests")
	if !fileExists(testsDir) {
		result.addError("tests/", "tests directory not found")
		return result, nil
	}

	for _, category := range expectedCategories {
		categoryDir := filepath.Join(testsDir, category)
		if !fileExists(categoryDir) {
			result.addWarning(fmt.Sprintf("tests/%s/", category), "category directory not found")
			continue
		}

		entries, err := os.ReadDir(categoryDir)
		if err != nil {
			log.WithError(err).WithField("category", category).Warn("unreadable category directory")
			continue
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() && idDirRe.MatchString(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			validateTestDirectory(filepath.Join(categoryDir, name), category, s, result, seenIDs)
		}
	}

	return result, nil
}

func validateTestDirectory(testDir, category string, s *schemas, result *Result, seenIDs map[string]bool) {
	relPath := filepath.Base(testDir)

	testPath := filepath.Join(testDir, "test.json")
	headersPath := filepath.Join(testDir, "headers.json")
	rawPath := filepath.Join(testDir, "input.raw")

	testBytes, err := os.ReadFile(testPath)
	if err != nil {
		result.addError(relPath, "missing test.json")
		return
	}
	if !fileExists(headersPath) {
		result.addError(relPath, "missing headers.json")
	}
	if !fileExists(rawPath) {
		result.addError(relPath, "missing input.raw")
	}

	var testData any
	if err := json.Unmarshal(testBytes, &testData); err != nil {
		result.addError(relPath, fmt.Sprintf("invalid JSON in test.json: %v", err))
		return
	}
	validateAgainstSchema(testData, s.testCase, relPath+"/test.json", result)

	var meta rawTestJSON
	_ = json.Unmarshal(testBytes, &meta)

	if meta.ID != filepath.Base(testDir) {
		result.addError(relPath, fmt.Sprintf("ID %q doesn't match directory name %q", meta.ID, filepath.Base(testDir)))
	}
	if seenIDs[meta.ID] {
		result.addError(relPath, fmt.Sprintf("duplicate test ID: %s", meta.ID))
	}
	seenIDs[meta.ID] = true
	if !idFullRe.MatchString(meta.ID) {
		result.addError(relPath, fmt.Sprintf("invalid ID format: %s (expected NNN-kebab-case)", meta.ID))
	}
	if meta.Category != category {
		result.addError(relPath, fmt.Sprintf("category %q doesn't match parent directory %q", meta.Category, category))
	}

	var headersMap map[string]string
	if headersBytes, err := os.ReadFile(headersPath); err == nil {
		var headersData any
		if err := json.Unmarshal(headersBytes, &headersData); err != nil {
			result.addError(relPath, fmt.Sprintf("invalid JSON in headers.json: %v", err))
		} else {
			validateAgainstSchema(headersData, s.headers, relPath+"/headers.json", result)
			_ = json.Unmarshal(headersBytes, &headersMap)

			boundary, ok := wire.ParseBoundary(headersMap["content-type"])
			if !ok || boundary == "" {
				result.addError(relPath, "cannot extract boundary from Content-Type header")
			} else if fileExists(rawPath) && meta.Expected.Valid {
				raw, _ := os.ReadFile(rawPath)
				if !bytes.Contains(raw, []byte("--"+boundary)) {
					result.addError(relPath, fmt.Sprintf("boundary %q not found in input.raw", boundary))
				}
			}

			if fileExists(rawPath) {
				raw, _ := os.ReadFile(rawPath)
				requiresClose := meta.Expected.Valid || meta.Expected.ErrorType != "missing_terminator"
				if requiresClose && boundary != "" {
					terminator := []byte("--" + boundary + "--")
					if !bytes.Contains(raw, terminator) {
						result.addWarning(relPath, "final boundary terminator (--boundary--) not found")
					}
				}
			}
		}
	}

	result.TestsChecked++
}
