/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// httpPartResult is the wire shape of one part in the /parse endpoint's
// response (spec.md §6 "HTTP /parse endpoint").
type httpPartResult struct {
	Name        string  `json:"name"`
	Filename    *string `json:"filename"`
	ContentType *string `json:"content_type"`
	BodyText    *string `json:"body_text"`
	BodyBase64  *string `json:"body_base64"`
	BodySize    int     `json:"body_size"`
}

// httpParseResult is the wire shape of the /parse endpoint's response
// body: a JSON rendering of ParseResult.
type httpParseResult struct {
	Valid        bool             `json:"valid"`
	ErrorType    string           `json:"error_type"`
	ErrorMessage string           `json:"error_message"`
	Parts        []httpPartResult `json:"parts"`
}

// HTTPDriver exercises a third-party parser exposed over HTTP instead of
// calling package parse directly (spec.md §4.4 "HTTP-driver variant").
type HTTPDriver struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPDriver returns a driver with the 10-second per-request timeout
// spec.md §5 mandates.
func NewHTTPDriver(baseURL string) *HTTPDriver {
	return &HTTPDriver{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WaitHealthy polls GET /health with ~100ms backoff until it responds
// 200 or the bound (default 5s) elapses.
func (d *HTTPDriver) WaitHealthy(bound time.Duration) error {
	if bound <= 0 {
		bound = 5 * time.Second
	}
	deadline := time.Now().Add(bound)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := d.Client.Get(d.BaseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("health check returned status %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy within %s: %w", bound, lastErr)
}

// runOneHTTP posts the case's body and headers to /parse and compares the
// JSON response against the case's expectation, with the HTTP-driver
// leniency rule: an expected-invalid case whose actual result is valid is
// skipped, not failed (spec.md §4.4).
func (d *HTTPDriver) runOneHTTP(dir string, opts Options, log logrus.FieldLogger) Result {
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

	req, err := http.NewRequest(http.MethodPost, d.BaseURL+"/parse", bytes.NewReader(tc.Body))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		entryLog.WithError(err).Error("request to /parse failed")
		result.Errors = append(result.Errors, "request failed: "+err.Error())
		return result
	}
	defer resp.Body.Close()

	var actual httpParseResult
	if err := json.NewDecoder(resp.Body).Decode(&actual); err != nil {
		result.Errors = append(result.Errors, "invalid /parse response: "+err.Error())
		return result
	}

	if !expected.Valid && actual.Valid {
		result.Skipped = true
		result.Passed = true
		result.SkipReason = "third-party parser accepted input expected to be invalid"
		return result
	}

	if expected.Valid != actual.Valid {
		result.Errors = append(result.Errors, errValidityMismatch(expected.Valid, actual.Valid))
	}

	if !expected.Valid {
		if expected.ErrorType != "" && actual.ErrorType != expected.ErrorType {
			result.Errors = append(result.Errors, fmt.Sprintf("error type mismatch: expected %s, got %s", expected.ErrorType, actual.ErrorType))
		}
	} else {
		result.Errors = append(result.Errors, compareHTTPParts(expected.Parts, actual.Parts)...)
	}

	result.Passed = len(result.Errors) == 0
	return result
}

// Run executes dirs against the driver's HTTP endpoint sequentially.
func (d *HTTPDriver) Run(dirs []string, opts Options) Report {
	log := logrus.WithField("component", "http-driver")
	var report Report
	for _, dir := range dirs {
		accumulate(&report, d.runOneHTTP(dir, opts, log))
	}
	return report
}

func compareHTTPParts(expected []ExpectedPart, actual []httpPartResult) []string {
	var diffs []string
	if len(expected) != len(actual) {
		diffs = append(diffs, fmt.Sprintf("part count mismatch: expected %d, got %d", len(expected), len(actual)))
		return diffs
	}
	for i := range expected {
		exp := expected[i]
		act := actual[i]
		prefix := fmt.Sprintf("part %d", i)
		if exp.Name != act.Name {
			diffs = append(diffs, fmt.Sprintf("%s: name mismatch - expected %q, got %q", prefix, exp.Name, act.Name))
		}
		if !stringPtrEqual(exp.Filename, act.Filename) {
			diffs = append(diffs, fmt.Sprintf("%s: filename mismatch", prefix))
		}
		if exp.BodyText != nil && (act.BodyText == nil || *act.BodyText != *exp.BodyText) {
			diffs = append(diffs, fmt.Sprintf("%s: body_text mismatch", prefix))
		}
		if exp.BodySize != nil && *exp.BodySize != act.BodySize {
			diffs = append(diffs, fmt.Sprintf("%s: body_size mismatch - expected %d, got %d", prefix, *exp.BodySize, act.BodySize))
		}
	}
	return diffs
}
