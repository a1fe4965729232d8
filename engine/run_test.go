/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCase(t *testing.T, dir, testJSON, headersJSON, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "test.json"), []byte(testJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "headers.json"), []byte(headersJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "input.raw"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunPassingCase(t *testing.T) {
	dir := t.TempDir()
	caseDir := filepath.Join(dir, "001-single-text-field")
	writeCase(t, caseDir,
		`{"id":"001-single-text-field","category":"basic","expected":{"valid":true,"parts":[{"name":"x","filename":null,"content_type":null,"body_text":"hello","body_size":5}]}}`,
		`{"content-type":"multipart/form-data; boundary=B"}`,
		"--B\r\nContent-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n--B--\r\n",
	)

	report := Run([]string{caseDir}, Options{Strict: true})
	if report.Total != 1 || report.Passed != 1 || report.Failed != 0 {
		t.Fatalf("want total=1 passed=1 failed=0, got %+v", report)
	}
}

func TestRunFailingCase(t *testing.T) {
	dir := t.TempDir()
	caseDir := filepath.Join(dir, "002-wrong-name")
	writeCase(t, caseDir,
		`{"id":"002-wrong-name","category":"basic","expected":{"valid":true,"parts":[{"name":"wrong","filename":null,"content_type":null,"body_text":"hello","body_size":5}]}}`,
		`{"content-type":"multipart/form-data; boundary=B"}`,
		"--B\r\nContent-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n--B--\r\n",
	)

	report := Run([]string{caseDir}, Options{Strict: true})
	if report.Failed != 1 {
		t.Fatalf("want 1 failure, got %+v", report)
	}
}

func TestRunLenientTagSkippedInStrictMode(t *testing.T) {
	dir := t.TempDir()
	caseDir := filepath.Join(dir, "003-lf-only")
	writeCase(t, caseDir,
		`{"id":"003-lf-only","category":"line-endings","tags":["lenient"],"expected":{"valid":false,"error_type":"truncated"},"lenient_expected":{"valid":true,"parts":[{"name":"x","filename":null,"content_type":null,"body_text":"hello","body_size":5}]}}`,
		`{"content-type":"multipart/form-data; boundary=B"}`,
		"--B\nContent-Disposition: form-data; name=\"x\"\n\nhello\n--B--\n",
	)

	report := Run([]string{caseDir}, Options{Strict: true})
	if report.Skipped != 1 || report.Passed != 1 {
		t.Fatalf("want skipped=1 passed=1, got %+v", report)
	}
}

func TestRunLenientModeUsesLenientExpected(t *testing.T) {
	dir := t.TempDir()
	caseDir := filepath.Join(dir, "003-lf-only")
	writeCase(t, caseDir,
		`{"id":"003-lf-only","category":"line-endings","tags":["lenient"],"expected":{"valid":false,"error_type":"truncated"},"lenient_expected":{"valid":true,"parts":[{"name":"x","filename":null,"content_type":null,"body_text":"hello","body_size":5}]}}`,
		`{"content-type":"multipart/form-data; boundary=B"}`,
		"--B\nContent-Disposition: form-data; name=\"x\"\n\nhello\n--B--\n",
	)

	report := Run([]string{caseDir}, Options{Strict: false})
	if report.Passed != 1 || report.Failed != 0 {
		t.Fatalf("want passed=1, got %+v", report)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var dirs []string
	for i := 0; i < 5; i++ {
		caseDir := filepath.Join(dir, "case", string(rune('a'+i)))
		writeCase(t, caseDir,
			`{"id":"x","category":"basic","expected":{"valid":true,"parts":[{"name":"x","filename":null,"content_type":null,"body_text":"hello","body_size":5}]}}`,
			`{"content-type":"multipart/form-data; boundary=B"}`,
			"--B\r\nContent-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n--B--\r\n",
		)
		dirs = append(dirs, caseDir)
	}

	seq := Run(dirs, Options{Strict: true})
	par := Run(dirs, Options{Strict: true, Parallel: 4})
	if seq.Total != par.Total || seq.Passed != par.Passed || seq.Failed != par.Failed {
		t.Errorf("sequential and parallel runs diverge: %+v vs %+v", seq, par)
	}
}

func TestLoadCaseMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadCase(dir); err == nil {
		t.Error("LoadCase: want error for directory missing test.json")
	}
}
