/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package wire

import "testing"

func TestDecodeRFC5987UTF8(t *testing.T) {
	got := DecodeRFC5987("UTF-8''%e2%82%ac%20rates")
	want := "€ rates"
	if got != want {
		t.Errorf("DecodeRFC5987: want %q, got %q", want, got)
	}
}

func TestDecodeRFC5987NoQuotes(t *testing.T) {
	in := "not-encoded"
	if got := DecodeRFC5987(in); got != in {
		t.Errorf("DecodeRFC5987: want input unchanged, got %q", got)
	}
}

func TestEncodeDecodeRFC5987RoundTrip(t *testing.T) {
	encoded := EncodeRFC5987("café.txt", "utf-8")
	decoded := DecodeRFC5987(encoded)
	if decoded != "café.txt" {
		t.Errorf("round trip: want %q, got %q", "café.txt", decoded)
	}
}
