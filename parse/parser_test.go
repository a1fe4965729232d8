/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package parse

import (
	"testing"

	"github.com/badu/mpconform/model"
)

func TestParseSingleTextField(t *testing.T) {
	body := []byte("--B\r\nContent-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n--B--\r\n")
	result := Parse(body, "B", Options{Strict: true})
	if !result.Valid {
		t.Fatalf("want Valid, got error %q: %s", result.ErrorType, result.ErrorMessage)
	}
	if len(result.Parts) != 1 {
		t.Fatalf("want 1 part, got %d", len(result.Parts))
	}
	if result.Parts[0].Name != "x" {
		t.Errorf("Name: want %q, got %q", "x", result.Parts[0].Name)
	}
	if string(result.Parts[0].Body) != "hello" {
		t.Errorf("Body: want %q, got %q", "hello", result.Parts[0].Body)
	}
}

func TestParseEscapedQuoteFilename(t *testing.T) {
	body := []byte("--B\r\nContent-Disposition: form-data; name=\"f\"; filename=\"my \\\"quoted\\\" file.txt\"\r\n\r\ndata\r\n--B--\r\n")
	result := Parse(body, "B", Options{Strict: true})
	if !result.Valid {
		t.Fatalf("want Valid, got error %q: %s", result.ErrorType, result.ErrorMessage)
	}
	if result.Parts[0].Filename == nil || *result.Parts[0].Filename != `my "quoted" file.txt` {
		t.Errorf("Filename: got %v", result.Parts[0].Filename)
	}
}

func TestParseFilenameStarRFC5987(t *testing.T) {
	body := []byte("--B\r\nContent-Disposition: form-data; name=\"f\"; filename*=UTF-8''%e2%82%ac.txt\r\n\r\ndata\r\n--B--\r\n")
	result := Parse(body, "B", Options{Strict: true})
	if !result.Valid {
		t.Fatalf("want Valid, got error %q: %s", result.ErrorType, result.ErrorMessage)
	}
	if result.Parts[0].FilenameStar == nil || *result.Parts[0].FilenameStar != "€.txt" {
		t.Errorf("FilenameStar: got %v", result.Parts[0].FilenameStar)
	}
}

func TestParseMissingTerminator(t *testing.T) {
	body := []byte("--B\r\nContent-Disposition: form-data; name=\"x\"\r\n\r\nhello\r\n")
	result := Parse(body, "B", Options{Strict: true})
	if result.Valid {
		t.Fatal("want Invalid")
	}
	if result.ErrorType != model.ErrMissingTerminator {
		t.Errorf("ErrorType: want %q, got %q", model.ErrMissingTerminator, result.ErrorType)
	}
	if len(result.Parts) != 1 || result.Parts[0].Name != "x" || string(result.Parts[0].Body) != "hello" {
		t.Errorf("want one partial part name=x body=hello, got %+v", result.Parts)
	}
}

func TestParseMissingContentDisposition(t *testing.T) {
	body := []byte("--B\r\nContent-Type: text/plain\r\n\r\nhello\r\n--B--\r\n")
	result := Parse(body, "B", Options{Strict: true})
	if result.Valid {
		t.Fatal("want Invalid")
	}
	if result.ErrorType != model.ErrMissingContentDisposition {
		t.Errorf("ErrorType: want %q, got %q", model.ErrMissingContentDisposition, result.ErrorType)
	}
}

func TestParseLFOnlyStrictRejected(t *testing.T) {
	body := []byte("--B\nContent-Disposition: form-data; name=\"x\"\n\nhello\n--B--\n")
	result := Parse(body, "B", Options{Strict: true})
	if result.Valid {
		t.Fatal("want Invalid in strict mode for LF-only input")
	}
}

func TestParseLFOnlyLenientAccepted(t *testing.T) {
	body := []byte("--B\nContent-Disposition: form-data; name=\"x\"\n\nhello\n--B--\n")
	result := Parse(body, "B", Options{Strict: false})
	if !result.Valid {
		t.Fatalf("want Valid in lenient mode, got error %q: %s", result.ErrorType, result.ErrorMessage)
	}
	if len(result.Parts) != 1 || string(result.Parts[0].Body) != "hello" {
		t.Errorf("want one part body=hello, got %+v", result.Parts)
	}
}

func TestParseEmptyBoundary(t *testing.T) {
	result := Parse([]byte("anything"), "", Options{Strict: true})
	if result.Valid || result.ErrorType != model.ErrInvalidBoundary {
		t.Errorf("want invalid_boundary, got valid=%v type=%q", result.Valid, result.ErrorType)
	}
}

func TestParseBoundaryNotFound(t *testing.T) {
	result := Parse([]byte("no boundary here"), "B", Options{Strict: true})
	if result.Valid || result.ErrorType != model.ErrBoundaryMismatch {
		t.Errorf("want boundary_mismatch, got valid=%v type=%q", result.Valid, result.ErrorType)
	}
}

func TestParseZeroLengthBody(t *testing.T) {
	body := []byte("--b\r\nContent-Disposition: form-data; name=\"x\"\r\n\r\n\r\n--b--\r\n")
	result := Parse(body, "b", Options{Strict: true})
	if !result.Valid {
		t.Fatalf("want Valid, got error %q: %s", result.ErrorType, result.ErrorMessage)
	}
	if len(result.Parts) != 1 || len(result.Parts[0].Body) != 0 {
		t.Errorf("want one part with empty body, got %+v", result.Parts)
	}
}

func TestParseMultipleParts(t *testing.T) {
	body := []byte("--B\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n" +
		"--B\r\n" +
		"Content-Disposition: form-data; name=\"b\"\r\n\r\n2\r\n" +
		"--B--\r\n")
	result := Parse(body, "B", Options{Strict: true})
	if !result.Valid {
		t.Fatalf("want Valid, got error %q: %s", result.ErrorType, result.ErrorMessage)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("want 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[0].Name != "a" || string(result.Parts[0].Body) != "1" {
		t.Errorf("part 0: got %+v", result.Parts[0])
	}
	if result.Parts[1].Name != "b" || string(result.Parts[1].Body) != "2" {
		t.Errorf("part 1: got %+v", result.Parts[1])
	}
}
