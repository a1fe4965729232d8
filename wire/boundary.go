/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package wire implements the byte-level and MIME-header-grammar utilities
// shared by the multipart parser and generator: boundary extraction and
// validation, RFC 5987 encoding, header-parameter tokenization, and the
// MIME header-block reader. No regular expressions are used in the hot
// path (spec.md §9) — everything is direct slice scanning, in the idiom
// of the teacher's scanUntilBoundary/matchAfterPrefix helpers.
package wire

import "strings"

// isBoundaryChar reports whether b is in the RFC 2046 boundary-character set:
// DIGIT / ALPHA / ' / ( / ) / + / _ / , / - / . / / / : / = / ? / SPACE
func isBoundaryChar(b byte) bool {
	switch {
	case '0' <= b && b <= '9':
		return true
	case 'A' <= b && b <= 'Z':
		return true
	case 'a' <= b && b <= 'z':
		return true
	}
	switch b {
	case '\'', '(', ')', '+', '_', ',', '-', '.', '/', ':', '=', '?', ' ':
		return true
	}
	return false
}

// ParseBoundary finds the boundary parameter in a Content-Type header
// value. It prefers the quoted form boundary="..." and falls back to the
// unquoted form up to the next whitespace or ';'. Matching is
// case-insensitive on the parameter name. Returns ("", false) if no
// boundary parameter is present.
func ParseBoundary(contentType string) (string, bool) {
	if contentType == "" {
		return "", false
	}
	if v, ok := findBoundaryParam(contentType, true); ok {
		return v, true
	}
	return findBoundaryParam(contentType, false)
}

// findBoundaryParam scans contentType for a "boundary=" parameter
// (case-insensitive). When quoted is true it only matches the quoted
// form boundary="..."; otherwise it only matches the unquoted form,
// stopping at the next whitespace or ';'.
func findBoundaryParam(contentType string, quoted bool) (string, bool) {
	s := contentType
	for {
		i := indexFoldBoundaryEquals(s)
		if i == -1 {
			return "", false
		}
		rest := s[i+len("boundary="):]
		if quoted {
			if len(rest) > 0 && rest[0] == '"' {
				end := strings.IndexByte(rest[1:], '"')
				if end == -1 {
					s = rest
					continue
				}
				return rest[1 : 1+end], true
			}
			s = rest
			continue
		}
		if len(rest) > 0 && rest[0] == '"' {
			s = rest
			continue
		}
		end := 0
		for end < len(rest) && rest[end] != ';' && rest[end] != ' ' && rest[end] != '\t' {
			end++
		}
		v := strings.TrimRight(rest[:end], " \t")
		return v, true
	}
}

// indexFoldBoundaryEquals returns the index of the first case-insensitive
// occurrence of "boundary=" in s, or -1 if absent. It returns the index
// of the match start (not the end) so callers can slice from "boundary=".
func indexFoldBoundaryEquals(s string) int {
	const needle = "boundary="
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

// ValidateBoundary validates a boundary string per RFC 2046 §5.1.1:
// non-empty, at most 70 characters, not ending in a space, and composed
// only of the boundary character set. Returns ("", true) on success or
// (message, false) describing the first violation found.
func ValidateBoundary(boundary string) (message string, ok bool) {
	if boundary == "" {
		return "boundary cannot be empty", false
	}
	if len(boundary) > 70 {
		return "boundary exceeds maximum length of 70", false
	}
	if boundary[len(boundary)-1] == ' ' {
		return "boundary cannot end with a space", false
	}
	for i := 0; i < len(boundary); i++ {
		if !isBoundaryChar(boundary[i]) {
			return "boundary contains invalid characters", false
		}
	}
	return "", true
}
