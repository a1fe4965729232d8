/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package wire

import "testing"

func TestReadHeaderBlockBasic(t *testing.T) {
	body := []byte("Content-Disposition: form-data; name=\"x\"\r\nContent-Type: text/plain\r\n\r\nbody follows")
	h, end, ok := ReadHeaderBlock(body, 0, true)
	if !ok {
		t.Fatal("ReadHeaderBlock: want ok=true")
	}
	if cd, _ := h.Get("Content-Disposition"); cd != `form-data; name="x"` {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	if ct, _ := h.Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if string(body[end:]) != "body follows" {
		t.Errorf("end position: want remainder %q, got %q", "body follows", body[end:])
	}
}

func TestReadHeaderBlockFoldedContinuation(t *testing.T) {
	body := []byte("Subject: first\r\n second\r\n\r\n")
	h, _, ok := ReadHeaderBlock(body, 0, true)
	if !ok {
		t.Fatal("ReadHeaderBlock: want ok=true")
	}
	if v, _ := h.Get("Subject"); v != "first second" {
		t.Errorf("Subject: want %q, got %q", "first second", v)
	}
}

func TestReadHeaderBlockMalformedLine(t *testing.T) {
	body := []byte("not-a-header-line\r\n\r\n")
	if _, _, ok := ReadHeaderBlock(body, 0, true); ok {
		t.Error("ReadHeaderBlock: want ok=false for line with no colon and no leading whitespace")
	}
}

func TestReadHeaderBlockLFRejectedInStrictMode(t *testing.T) {
	body := []byte("Content-Disposition: form-data; name=\"x\"\n\n")
	if _, _, ok := ReadHeaderBlock(body, 0, true); ok {
		t.Error("ReadHeaderBlock: want ok=false for lone LF in strict mode")
	}
}

func TestReadHeaderBlockLFAcceptedInLenientMode(t *testing.T) {
	body := []byte("Content-Disposition: form-data; name=\"x\"\n\n")
	h, _, ok := ReadHeaderBlock(body, 0, false)
	if !ok {
		t.Fatal("ReadHeaderBlock: want ok=true in lenient mode")
	}
	if v, _ := h.Get("Content-Disposition"); v != `form-data; name="x"` {
		t.Errorf("Content-Disposition: got %q", v)
	}
}

func TestReadHeaderBlockTruncated(t *testing.T) {
	body := []byte("Content-Disposition: form-data; name=\"x\"\r\n")
	if _, _, ok := ReadHeaderBlock(body, 0, true); ok {
		t.Error("ReadHeaderBlock: want ok=false when input ends before a blank line")
	}
}
