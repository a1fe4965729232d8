/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package generate implements the reference multipart/form-data
// generator: the dual of package parse. It composes a raw body from a
// declarative description of parts, boundary, line-ending style, and
// preamble/epilogue, including deliberate-malformation knobs for
// negative test authoring (spec.md §4.3).
package generate

import (
	"strings"

	"github.com/google/uuid"
)

// LineEnding selects the generator's line-ending style.
type LineEnding int

const (
	CRLF LineEnding = iota
	LF
)

func (le LineEnding) bytes() string {
	if le == LF {
		return "\n"
	}
	return "\r\n"
}

// HeaderField is one extra header line, rendered in insertion order after
// Content-Disposition and Content-Type.
type HeaderField struct {
	Name  string
	Value string
}

// PartSpec describes one part to emit. Exactly one of the structured
// fields (Name/Filename/...) or RawBytes should be populated: RawBytes is
// the escape hatch for crafting deliberately malformed parts, emitted
// verbatim with no header rendering at all.
type PartSpec struct {
	Name            string
	Filename        string
	HasFilename     bool
	FilenameStar    string
	HasFilenameStar bool
	ContentType     string
	HasContentType  bool
	ExtraHeaders    []HeaderField
	Body            []byte

	RawBytes []byte
	IsRaw    bool
}

// Spec is the declarative description of a complete multipart message.
type Spec struct {
	Boundary               string
	LineEnding             LineEnding
	IncludeFinalTerminator bool
	Preamble               []byte
	Epilogue               []byte
	Parts                  []PartSpec
}

// NewBoundary returns a fresh, RFC-2046-legal boundary token. It
// concatenates two random UUIDs (hyphens stripped) rather than the
// teacher's raw crypto/rand hex digest, giving a 64-hex-character token
// well under the 70-byte limit.
func NewBoundary() string {
	a := strings.ReplaceAll(uuid.NewString(), "-", "")
	b := strings.ReplaceAll(uuid.NewString(), "-", "")
	return a + b
}

// Build renders spec into a raw multipart body, following the emission
// order in spec.md §4.3: preamble, then per part "--boundary"+line-ending +
// headers + blank line + body (+ a separating line-ending when another
// part or the terminator follows), then the closing boundary if
// requested, then the epilogue.
func Build(spec Spec) []byte {
	nl := spec.LineEnding.bytes()
	var b strings.Builder

	if len(spec.Preamble) > 0 {
		b.Write(spec.Preamble)
	}

	boundaryLine := "--" + spec.Boundary
	closeLine := boundaryLine + "--"

	for i, part := range spec.Parts {
		b.WriteString(boundaryLine)
		b.WriteString(nl)

		if part.IsRaw {
			b.Write(part.RawBytes)
		} else {
			writeHeaders(&b, part, nl)
			b.Write(part.Body)
		}

		isLast := i == len(spec.Parts)-1
		if !isLast || spec.IncludeFinalTerminator {
			b.WriteString(nl)
		}
	}

	if spec.IncludeFinalTerminator {
		b.WriteString(closeLine)
		b.WriteString(nl)
	}

	if len(spec.Epilogue) > 0 {
		b.Write(spec.Epilogue)
	}

	return []byte(b.String())
}

// writeHeaders renders a structured part's header block: always
// Content-Disposition: form-data; name="...", optionally
// ; filename="..." (backslash-escaped) and ; filename*=..., then
// Content-Type if given, then extra headers in insertion order, each
// line terminated by nl, with a final blank nl closing the block.
func writeHeaders(b *strings.Builder, part PartSpec, nl string) {
	b.WriteString(`Content-Disposition: form-data; name="`)
	b.WriteString(escapeQuoted(part.Name))
	b.WriteByte('"')
	if part.HasFilename {
		b.WriteString(`; filename="`)
		b.WriteString(escapeQuoted(part.Filename))
		b.WriteByte('"')
	}
	if part.HasFilenameStar {
		b.WriteString(`; filename*=`)
		b.WriteString(part.FilenameStar)
	}
	b.WriteString(nl)

	if part.HasContentType {
		b.WriteString("Content-Type: ")
		b.WriteString(part.ContentType)
		b.WriteString(nl)
	}

	for _, h := range part.ExtraHeaders {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString(nl)
	}

	b.WriteString(nl)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuoted(s string) string {
	return quoteEscaper.Replace(s)
}
