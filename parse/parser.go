/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package parse implements the reference multipart/form-data parser: a
// pure function over an owned byte slice that either yields an ordered
// sequence of Parts or a precise, typed error (spec.md §4.2). Unlike the
// teacher's streaming mime.Reader, this parser consumes the whole body at
// once and returns a model.ParseResult — the shape the conformance suite
// compares against.
package parse

import (
	"bytes"

	"github.com/badu/mpconform/model"
	"github.com/badu/mpconform/wire"
)

// Options controls the parser's strictness policy.
type Options struct {
	// Strict requires CRLF at every structural line-ending. When false,
	// a lone LF is also accepted (spec.md "Mode policy").
	Strict bool
}

// Parse parses body as a multipart message delimited by boundary,
// returning a Valid ParseResult with the parsed parts or an Invalid one
// carrying the first error encountered (and, for truncated/
// missing_terminator, whatever parts were fully emitted beforehand).
func Parse(body []byte, boundary string, opts Options) model.ParseResult {
	if boundary == "" {
		return invalid(model.ErrInvalidBoundary, "no boundary provided", nil)
	}

	delimiter := []byte("--" + boundary)
	closeDelimiter := []byte("--" + boundary + "--")

	firstBoundaryPos := bytes.Index(body, delimiter)
	if firstBoundaryPos == -1 {
		return invalid(model.ErrBoundaryMismatch, "boundary '"+boundary+"' not found in body", nil)
	}

	pos := firstBoundaryPos + len(delimiter)
	newPos, ok := skipLineEnding(body, pos, opts.Strict)
	if !ok {
		return invalid(model.ErrTruncated, "unexpected end after first boundary", nil)
	}
	pos = newPos

	var parts []model.Part

	for pos < len(body) {
		header, headerEnd, ok := wire.ReadHeaderBlock(body, pos, opts.Strict)
		if !ok {
			return invalid(model.ErrInvalidHeader, "failed to parse headers", nil)
		}
		pos = headerEnd

		cdValue, hasCD := header.Get("Content-Disposition")
		if !hasCD {
			return invalid(model.ErrMissingContentDisposition, "missing Content-Disposition header", nil)
		}

		cd := wire.ParseContentDisposition(cdValue)
		if !cd.HasName {
			return invalid(model.ErrMissingName, "missing name parameter in Content-Disposition", nil)
		}

		bodyEnd, found := findNextBoundary(body, pos, delimiter, opts.Strict)
		var partBody []byte
		if found {
			partBody = body[pos:bodyEnd]
		} else {
			// No further boundary occurs anywhere in the remaining
			// input: the message was never closed. The part itself
			// parsed cleanly, so it is still emitted (with the would-be
			// separating line-ending stripped) alongside the terminal
			// error — see DESIGN.md "Open Questions" for why this is
			// missing_terminator rather than truncated.
			partBody = stripTrailingLineEnding(body[pos:], opts.Strict)
		}

		part := model.Part{
			Name:    cd.Name,
			Headers: header,
			Body:    partBody,
		}
		if cd.HasFilename {
			f := cd.Filename
			part.Filename = &f
		}
		if cd.HasFilenameStar {
			f := cd.FilenameStar
			part.FilenameStar = &f
		}
		if ctValue, hasCT := header.Get("Content-Type"); hasCT {
			mediaType, charset, hasCharset := wire.ParseContentType(ctValue)
			part.ContentType = &mediaType
			if hasCharset {
				part.Charset = &charset
			}
		}
		parts = append(parts, part)

		if !found {
			return invalid(model.ErrMissingTerminator, "part body not terminated by boundary", parts)
		}

		pos = bodyEnd
		if hasPrefix(body, pos, crlf) {
			pos += 2
		} else if !opts.Strict && hasPrefix(body, pos, lf) {
			pos += 1
		}

		if hasPrefix(body, pos, closeDelimiter) {
			break
		} else if hasPrefix(body, pos, delimiter) {
			pos += len(delimiter)
			newPos, ok := skipLineEnding(body, pos, opts.Strict)
			if !ok {
				if pos < len(body) {
					return invalid(model.ErrTruncated, "missing line ending after boundary", parts)
				}
				break
			}
			pos = newPos
		} else {
			return invalid(model.ErrBoundaryMismatch, "expected boundary not found", parts)
		}
	}

	if !bytes.Contains(body, closeDelimiter) {
		return invalid(model.ErrMissingTerminator, "missing final boundary terminator", parts)
	}

	return model.ParseResult{Valid: true, Parts: parts}
}

func invalid(errType model.ErrorType, message string, parts []model.Part) model.ParseResult {
	return model.ParseResult{
		Valid:        false,
		ErrorType:    errType,
		ErrorMessage: message,
		Parts:        parts,
	}
}

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

func hasPrefix(body []byte, pos int, prefix []byte) bool {
	if pos < 0 || pos+len(prefix) > len(body) {
		return false
	}
	return bytes.Equal(body[pos:pos+len(prefix)], prefix)
}

// skipLineEnding advances past a CRLF (always) or a lone LF (lenient
// mode only) at pos. It fails when pos is at the end of input, or when a
// lone LF sits at pos in strict mode; when neither CRLF nor LF is
// present it returns pos unchanged with ok=true, leaving the
// caller (the header parser, typically) to decide whether what follows
// is well-formed.
func skipLineEnding(body []byte, pos int, strict bool) (int, bool) {
	if pos >= len(body) {
		return pos, false
	}
	if hasPrefix(body, pos, crlf) {
		return pos + 2, true
	}
	if hasPrefix(body, pos, lf) {
		if strict {
			return pos, false
		}
		return pos + 1, true
	}
	return pos, true
}

// findNextBoundary locates the earliest occurrence at or after pos of
// CRLF+delimiter (always eligible) or LF+delimiter (lenient mode only),
// returning the offset of the line-ending that precedes the boundary.
func findNextBoundary(body []byte, pos int, delimiter []byte, strict bool) (int, bool) {
	searchCRLF := append(append([]byte(nil), crlf...), delimiter...)
	crlfPos := indexFrom(body, searchCRLF, pos)

	if strict {
		if crlfPos == -1 {
			return 0, false
		}
		return crlfPos, true
	}

	searchLF := append(append([]byte(nil), lf...), delimiter...)
	lfPos := indexFrom(body, searchLF, pos)

	switch {
	case crlfPos != -1 && (lfPos == -1 || crlfPos <= lfPos):
		return crlfPos, true
	case lfPos != -1:
		return lfPos, true
	default:
		return 0, false
	}
}

// stripTrailingLineEnding removes one trailing CRLF (or, in lenient
// mode, one trailing lone LF) from b, used when a part runs to the end
// of input without ever reaching another boundary.
func stripTrailingLineEnding(b []byte, strict bool) []byte {
	if bytes.HasSuffix(b, crlf) {
		return b[:len(b)-2]
	}
	if !strict && bytes.HasSuffix(b, lf) {
		return b[:len(b)-1]
	}
	return b
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
