/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package engine

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/badu/mpconform/model"
	"github.com/badu/mpconform/parse"
)

// Result is one test's outcome, shaped after run-reference.py's per-test
// result dict: test_id, passed, skipped, errors, plus a skip_reason.
// The actual and expected parse results are not recorded.
type Result struct {
	TestID     string   `json:"test_id"`
	Passed     bool     `json:"passed"`
	Skipped    bool     `json:"skipped"`
	SkipReason string   `json:"skip_reason,omitempty"`
	Errors     []string `json:"errors"`
}

// Report is the aggregate of a Run, matching the reference runner's
// --json output shape exactly (total/passed/failed/skipped/results).
type Report struct {
	Total   int      `json:"total"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Results []Result `json:"results"`
}

// Options controls a Run.
type Options struct {
	// Strict selects CRLF-only parsing. Lenient (Strict=false) additionally
	// accepts bare LF and activates lenient_expected for tagged cases.
	Strict bool
	// Parallel, when > 1, runs cases concurrently through a bounded
	// worker pool instead of sequentially.
	Parallel int
}

// Run loads and executes each case directory in dirs, aggregating a
// Report. Load failures (missing/invalid files) are recorded as failed
// results rather than aborting the run.
func Run(dirs []string, opts Options) Report {
	log := logrus.WithField("component", "engine")

	if opts.Parallel <= 1 {
		var report Report
		for _, dir := range dirs {
			r := runOne(dir, opts, log)
			accumulate(&report, r)
		}
		return report
	}

	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
		sem    = make(chan struct{}, opts.Parallel)
	)
	for _, dir := range dirs {
		dir := dir
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			r := runOne(dir, opts, log)
			mu.Lock()
			accumulate(&report, r)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return report
}

func accumulate(report *Report, r Result) {
	report.Total++
	report.Results = append(report.Results, r)
	if r.Skipped {
		report.Skipped++
	}
	if r.Passed {
		report.Passed++
	} else {
		report.Failed++
	}
}

func runOne(dir string, opts Options, log logrus.FieldLogger) Result {
	entryLog := log.WithField("dir", dir)

	tc, err := LoadCase(dir)
	if err != nil {
		entryLog.WithError(err).Error("failed to load test case")
		return Result{TestID: dir, Errors: []string{err.Error()}}
	}
	result := Result{TestID: tc.Meta.ID}

	if tc.Meta.HasTag("lenient") && opts.Strict {
		result.Skipped = true
		result.Passed = true
		result.SkipReason = "lenient test skipped in strict mode"
		return result
	}

	expected := tc.Meta.Expected
	if !opts.Strict && tc.Meta.LenientExpected != nil {
		expected = *tc.Meta.LenientExpected
	}

	boundary, _ := tc.Boundary()
	actual := parse.Parse(tc.Body, boundary, parse.Options{Strict: opts.Strict})

	if expected.Valid != actual.Valid {
		result.Errors = append(result.Errors, errValidityMismatch(expected.Valid, actual.Valid))
		if actual.ErrorMessage != "" {
			result.Errors = append(result.Errors, "parser error: "+actual.ErrorMessage)
		}
	}

	if !expected.Valid {
		if expected.ErrorType != "" && string(actual.ErrorType) != expected.ErrorType {
			result.Errors = append(result.Errors, errTypeMismatch(expected.ErrorType, actual.ErrorType))
		}
	} else {
		result.Errors = append(result.Errors, compareParts(expected.Parts, actual.Parts)...)
	}

	result.Passed = len(result.Errors) == 0
	if !result.Passed {
		entryLog.WithField("errors", result.Errors).Warn("test failed")
	}
	return result
}

func errValidityMismatch(expected, actual bool) string {
	return "validity mismatch: expected " + boolStr(expected) + ", got " + boolStr(actual)
}

func errTypeMismatch(expected string, actual model.ErrorType) string {
	return "error type mismatch: expected " + expected + ", got " + string(actual)
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
