/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package model holds the data shapes shared by the parser, generator,
// test-case engine, and suite validator: a Part, a ParseResult, and the
// closed error-type enumeration that ties the two together.
package model

// ErrorType is the closed set of string values a ParseResult may carry
// as its failure reason. The values are part of the wire contract (they
// cross the JSON boundary verbatim) so they're declared as named string
// constants rather than an iota enum.
type ErrorType string

const (
	ErrInvalidBoundary           ErrorType = "invalid_boundary"
	ErrBoundaryMismatch          ErrorType = "boundary_mismatch"
	ErrTruncated                 ErrorType = "truncated"
	ErrInvalidHeader             ErrorType = "invalid_header"
	ErrMissingContentDisposition ErrorType = "missing_content_disposition"
	ErrMissingName               ErrorType = "missing_name"
	ErrMissingTerminator         ErrorType = "missing_terminator"
	ErrParseError                ErrorType = "parse_error"
)

// Header is an ordered, case-insensitive-lookup collection of a part's
// MIME header lines. Storage preserves the original casing and insertion
// order (duplicate headers keep both entries); Get is case-insensitive
// and returns the last value, matching the "latter overwrites the former
// on case-insensitive lookup" rule in spec.md's edge cases.
type Header struct {
	names  []string
	values []string
}

// Add appends a header line, preserving its original casing.
func (h *Header) Add(name, value string) {
	h.names = append(h.names, name)
	h.values = append(h.values, value)
}

// Get returns the last value stored under name, matched case-insensitively,
// or "" with ok=false if no such header exists.
func (h *Header) Get(name string) (string, bool) {
	v, _, ok := h.getIndexed(name)
	return v, ok
}

func (h *Header) getIndexed(name string) (string, int, bool) {
	if h == nil {
		return "", -1, false
	}
	found := -1
	for i, n := range h.names {
		if equalFold(n, name) {
			found = i
		}
	}
	if found == -1 {
		return "", -1, false
	}
	return h.values[found], found, true
}

// AppendToLast appends text to the most recently added header's value,
// separated by a single space. Used to splice an obsolete folded
// continuation line onto the header it continues.
func (h *Header) AppendToLast(text string) {
	if len(h.values) == 0 {
		return
	}
	last := len(h.values) - 1
	h.values[last] = h.values[last] + " " + text
}

// Len reports the number of stored header lines (including duplicates).
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Each calls fn for every stored header line, in insertion order.
func (h *Header) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for i, n := range h.names {
		fn(n, h.values[i])
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Part represents one payload in a multipart message (spec.md §3).
type Part struct {
	Name         string
	Filename     *string
	FilenameStar *string
	ContentType  *string
	Charset      *string
	Headers      *Header
	Body         []byte
}

// ParseResult is the tagged outcome of a parse: either Valid with a
// sequence of Parts, or Invalid with an ErrorType/message. For
// truncated, missing_terminator and boundary_mismatch failures met after
// the first part, Parts holds the parts fully emitted before the
// failure; header, Content-Disposition and name failures carry no Parts
// (spec.md §3, §7 Ambiguity 2).
type ParseResult struct {
	Valid        bool
	Parts        []Part
	ErrorType    ErrorType
	ErrorMessage string
}
