/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package engine implements the test-case execution engine: loading a
// test-case triple, selecting the expectation for the active mode,
// invoking the parser, comparing against the declared expectation, and
// aggregating a pass/fail/skip report (spec.md §4.4). It also exposes an
// HTTP-driver variant that exercises a third-party parser over the wire
// instead of calling package parse directly.
package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/badu/mpconform/wire"
)

// ExpectedPart is one entry of a TestCase's declared expectation.
type ExpectedPart struct {
	Name        string  `json:"name"`
	Filename    *string `json:"filename"`
	ContentType *string `json:"content_type"`
	BodyText    *string `json:"body_text,omitempty"`
	BodyBase64  *string `json:"body_base64,omitempty"`
	BodySHA256  *string `json:"body_sha256,omitempty"`
	BodySize    *int    `json:"body_size,omitempty"`
}

// Expected is the declared expectation for one mode (strict or lenient).
type Expected struct {
	Valid     bool           `json:"valid"`
	ErrorType string         `json:"error_type,omitempty"`
	Parts     []ExpectedPart `json:"parts,omitempty"`
}

// TestMeta is the decoded shape of test.json.
type TestMeta struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	Expected        Expected  `json:"expected"`
	LenientExpected *Expected `json:"lenient_expected"`
}

// HasTag reports whether tag is present in the case's tags.
func (m TestMeta) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Case is a fully loaded test-case triple: test.json metadata, the
// headers.json mapping, and the raw body bytes.
type Case struct {
	Dir     string
	Meta    TestMeta
	Headers map[string]string
	Body    []byte
}

var idDirRe = regexp.MustCompile(`^\d{3}-`)

// LoadCase reads the three files of a test-case directory. A missing or
// unparsable file is returned as an error; the caller (Run) turns that
// into a failed, zero-detail result rather than aborting the whole run.
func LoadCase(dir string) (*Case, error) {
	testPath := filepath.Join(dir, "test.json")
	headersPath := filepath.Join(dir, "headers.json")
	bodyPath := filepath.Join(dir, "input.raw")

	testBytes, err := os.ReadFile(testPath)
	if err != nil {
		return nil, fmt.Errorf("missing test.json: %w", err)
	}
	var meta TestMeta
	if err := json.Unmarshal(testBytes, &meta); err != nil {
		return nil, fmt.Errorf("invalid test.json: %w", err)
	}

	headersBytes, err := os.ReadFile(headersPath)
	if err != nil {
		return nil, fmt.Errorf("missing headers.json: %w", err)
	}
	var headers map[string]string
	if err := json.Unmarshal(headersBytes, &headers); err != nil {
		return nil, fmt.Errorf("invalid headers.json: %w", err)
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return nil, fmt.Errorf("missing input.raw: %w", err)
	}

	return &Case{Dir: dir, Meta: meta, Headers: headers, Body: body}, nil
}

// Boundary extracts the boundary from the case's content-type header via
// package wire.
func (c *Case) Boundary() (string, bool) {
	return wire.ParseBoundary(c.Headers["content-type"])
}

// DiscoverCases walks <suiteDir>/tests/<category>/<NNN-slug> directories
// in sorted order, optionally restricted to one category. Directories
// not matching the NNN- prefix are skipped, matching the reference
// runner's find_tests.
func DiscoverCases(suiteDir string, category string) ([]string, error) {
	testsDir := filepath.Join(suiteDir, "tests")

	var categories []string
	if category != "" {
		categories = []string{category}
	} else {
		entries, err := os.ReadDir(testsDir)
		if err != nil {
			return nil, fmt.Errorf("reading tests dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				categories = append(categories, e.Name())
			}
		}
		sort.Strings(categories)
	}

	var dirs []string
	for _, cat := range categories {
		catDir := filepath.Join(testsDir, cat)
		entries, err := os.ReadDir(catDir)
		if err != nil {
			logrus.WithField("category", cat).WithError(err).Warn("category directory unreadable")
			continue
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() && idDirRe.MatchString(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			dirs = append(dirs, filepath.Join(catDir, n))
		}
	}
	return dirs, nil
}
