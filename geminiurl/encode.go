package geminiurl

import (
	"fmt"
	"strings"
)

// unreserved holds the RFC 3986 unreserved punctuation characters that
// URLEncode leaves untouched, on top of ASCII letters and digits.
const unreserved = "-_.~"

// URLEncode percent-encodes src per RFC 3986, encoding spaces as "+" rather
// than "%20". It is the query-string encoding used for the `query`
// parameter (spec §6) and is the inverse of URLDecode.
func URLEncode(src string) string {
	var b strings.Builder
	b.Grow(len(src) + 8)

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isAlnum(c) || strings.IndexByte(unreserved, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// URLDecode reverses URLEncode: "+" becomes a space and "%XX" escapes are
// decoded. Malformed escapes are copied through verbatim rather than
// rejected, matching a best-effort query-string decoder.
func URLDecode(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(src) {
				if hi, ok := hexVal(src[i+1]); ok {
					if lo, ok := hexVal(src[i+2]); ok {
						b.WriteByte(byte(hi<<4 | lo))
						i += 2
						continue
					}
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
