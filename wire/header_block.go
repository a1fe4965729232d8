/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package wire

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/badu/mpconform/model"
)

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// ReadHeaderBlock reads a MIME header block starting at pos: lines
// terminated by CRLF (strict) or CRLF/LF (lenient), ending at the first
// empty line. Each non-empty line is either a "Name: value" header or,
// if it begins with a space/tab and at least one header already exists,
// an obsolete folded continuation of the previous value (spec.md §4.2,
// §9 Ambiguity 3 — folding is always accepted regardless of mode).
//
// Returns the parsed header, the position just past the blank line that
// terminated the block, and ok=false if the block is malformed (a
// non-continuation line without ':') or truncated before a terminating
// blank line is found.
func ReadHeaderBlock(body []byte, pos int, strict bool) (*model.Header, int, bool) {
	h := &model.Header{}
	for pos < len(body) {
		crlfPos := indexFrom(body, crlf, pos)
		lfPos := indexFrom(body, lf, pos)

		if crlfPos == pos {
			return h, pos + 2, true
		}
		if lfPos == pos && !strict {
			return h, pos + 1, true
		}

		var lineEnd, nextPos int
		switch {
		case crlfPos != -1 && (lfPos == -1 || crlfPos < lfPos):
			lineEnd, nextPos = crlfPos, crlfPos+2
		case lfPos != -1 && !strict:
			lineEnd, nextPos = lfPos, lfPos+1
		default:
			return nil, pos, false
		}

		line := body[pos:lineEnd]
		lineStr := decodeHeaderLine(line)

		if len(lineStr) > 0 && (lineStr[0] == ' ' || lineStr[0] == '\t') && h.Len() > 0 {
			foldHeaderContinuation(h, strings.TrimSpace(lineStr))
		} else if colon := strings.IndexByte(lineStr, ':'); colon != -1 {
			name := strings.TrimSpace(lineStr[:colon])
			value := strings.TrimSpace(lineStr[colon+1:])
			h.Add(name, value)
		} else {
			return nil, pos, false
		}

		pos = nextPos
	}
	return nil, pos, false
}

// foldHeaderContinuation appends a folded continuation line to the most
// recently added header's value, joined by a single space.
func foldHeaderContinuation(h *model.Header, continuation string) {
	h.AppendToLast(continuation)
}

func decodeHeaderLine(line []byte) string {
	if utf8.Valid(line) {
		return string(line)
	}
	// Fall back to latin-1 (ISO-8859-1): every byte maps 1:1 to the
	// Unicode code point of the same value, which always succeeds.
	runes := make([]rune, len(line))
	for i, b := range line {
		runes[i] = rune(b)
	}
	return string(runes)
}

func indexFrom(haystack, needle []byte, from int) int {
	if from >= len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[from:], needle)
	if i == -1 {
		return -1
	}
	return from + i
}
