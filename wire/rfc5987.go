package wire

import (
	"net/url"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// DecodeRFC5987 decodes a charset'language'percent-encoded-value header
// parameter value (RFC 5987), as used by filename*. It percent-decodes
// the value segment and, when the declared charset is not UTF-8, runs
// the decoded bytes through the named IANA charset (e.g. iso-8859-1,
// windows-1252) via golang.org/x/text. Returns the input unchanged if the
// charset'language'value structure is malformed or the charset/escape is
// invalid, matching the original's "return value unchanged on failure"
// policy.
func DecodeRFC5987(value string) string {
	first := strings.IndexByte(value, '\'')
	if first == -1 {
		return value
	}
	second := strings.IndexByte(value[first+1:], '\'')
	if second == -1 {
		return value
	}
	second += first + 1

	charset := value[:first]
	encoded := value[second+1:]
	if charset == "" {
		charset = "utf-8"
	}

	raw, err := percentDecodeBytes(encoded)
	if err != nil {
		return value
	}
	if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
		return string(raw)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return value
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return value
	}
	return string(decoded)
}

// percentDecodeBytes percent-decodes s into raw bytes without also
// interpreting '+' as a space (RFC 3986 path/param decoding, not RFC
// 3986 query-string decoding).
func percentDecodeBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+2 >= len(s) {
				return nil, url.EscapeError(s[i:])
			}
			hi, ok1 := fromHex(s[i+1])
			lo, ok2 := fromHex(s[i+2])
			if !ok1 || !ok2 {
				return nil, url.EscapeError(s[i : i+3])
			}
			out = append(out, hi<<4|lo)
			i += 2
			continue
		}
		out = append(out, s[i])
	}
	return out, nil
}

func fromHex(b byte) (byte, bool) {
	switch {
	case '0' <= b && b <= '9':
		return b - '0', true
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10, true
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

const upperhex = "0123456789ABCDEF"

// isRFC5987Unreserved reports whether b may appear unescaped in an
// RFC 5987 encoded value (RFC 5987 §3.2 attr-char).
func isRFC5987Unreserved(b byte) bool {
	switch {
	case '0' <= b && b <= '9':
		return true
	case 'A' <= b && b <= 'Z':
		return true
	case 'a' <= b && b <= 'z':
		return true
	}
	switch b {
	case '!', '#', '$', '&', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

// EncodeRFC5987 percent-encodes value (assumed to already be in charset,
// typically UTF-8) and returns "charset''encoded", per RFC 5987 §3.2.
func EncodeRFC5987(value string, charset string) string {
	if charset == "" {
		charset = "utf-8"
	}
	var b strings.Builder
	b.WriteString(charset)
	b.WriteString("''")
	for i := 0; i < len(value); i++ {
		c := value[i]
		if isRFC5987Unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}
