/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package engine

import (
	"fmt"

	"github.com/badu/mpconform/model"
)

// compareParts mirrors multipart_utils.py's compare_parts: a part-count
// check followed by a per-part, per-field comparison, only checking the
// body representation the expectation actually declares.
func compareParts(expected []ExpectedPart, actual []model.Part) []string {
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
			diffs = append(diffs, fmt.Sprintf("%s: filename mismatch - expected %s, got %s", prefix, fmtStringPtr(exp.Filename), fmtStringPtr(act.Filename)))
		}

		if exp.ContentType != nil && !stringPtrEqual(exp.ContentType, act.ContentType) {
			diffs = append(diffs, fmt.Sprintf("%s: content_type mismatch - expected %s, got %s", prefix, fmtStringPtr(exp.ContentType), fmtStringPtr(act.ContentType)))
		}

		switch {
		case exp.BodyText != nil:
			text, ok := act.BodyText()
			if !ok || text != *exp.BodyText {
				diffs = append(diffs, fmt.Sprintf("%s: body_text mismatch - expected %q, got %q", prefix, *exp.BodyText, text))
			}
		case exp.BodyBase64 != nil:
			if act.BodyBase64() != *exp.BodyBase64 {
				diffs = append(diffs, fmt.Sprintf("%s: body_base64 mismatch", prefix))
			}
		case exp.BodySHA256 != nil:
			if act.BodySHA256() != *exp.BodySHA256 {
				diffs = append(diffs, fmt.Sprintf("%s: body_sha256 mismatch - expected %s, got %s", prefix, *exp.BodySHA256, act.BodySHA256()))
			}
		}

		if exp.BodySize != nil && *exp.BodySize != act.BodySize() {
			diffs = append(diffs, fmt.Sprintf("%s: body_size mismatch - expected %d, got %d", prefix, *exp.BodySize, act.BodySize()))
		}
	}

	return diffs
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtStringPtr(s *string) string {
	if s == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *s)
}
