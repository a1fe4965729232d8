/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package wire

import "testing"

func TestTokenizeHeaderParamsQuotedSemicolon(t *testing.T) {
	got := TokenizeHeaderParams(`form-data; name="a;b"; filename="c.txt"`)
	want := []string{"form-data", ` name="a;b"`, ` filename="c.txt"`}
	if len(got) != len(want) {
		t.Fatalf("TokenizeHeaderParams: want %d tokens, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestParseContentDispositionEscapedQuote(t *testing.T) {
	cd := ParseContentDisposition(`form-data; name="file"; filename="my \"quoted\" file.txt"`)
	if !cd.HasName || cd.Name != "file" {
		t.Errorf("Name: want %q, got %q (has=%v)", "file", cd.Name, cd.HasName)
	}
	if !cd.HasFilename || cd.Filename != `my "quoted" file.txt` {
		t.Errorf("Filename: want %q, got %q", `my "quoted" file.txt`, cd.Filename)
	}
}

func TestParseContentDispositionFilenameStar(t *testing.T) {
	cd := ParseContentDisposition(`form-data; name="file"; filename*=UTF-8''%e2%82%ac.txt`)
	if !cd.HasFilenameStar {
		t.Fatal("HasFilenameStar: want true")
	}
	if cd.FilenameStar != "€.txt" {
		t.Errorf("FilenameStar: want %q, got %q", "€.txt", cd.FilenameStar)
	}
}

func TestParseContentDispositionNoName(t *testing.T) {
	cd := ParseContentDisposition("form-data")
	if cd.HasName {
		t.Error("HasName: want false when no name parameter present")
	}
}

func TestParseContentType(t *testing.T) {
	mediaType, charset, hasCharset := ParseContentType("text/plain; charset=utf-8")
	if mediaType != "text/plain" {
		t.Errorf("mediaType: want %q, got %q", "text/plain", mediaType)
	}
	if !hasCharset || charset != "utf-8" {
		t.Errorf("charset: want (%q, true), got (%q, %v)", "utf-8", charset, hasCharset)
	}
}

func TestParseContentTypeNoCharset(t *testing.T) {
	mediaType, _, hasCharset := ParseContentType("application/octet-stream")
	if mediaType != "application/octet-stream" || hasCharset {
		t.Errorf("want (%q, false), got (%q, %v)", "application/octet-stream", mediaType, hasCharset)
	}
}
