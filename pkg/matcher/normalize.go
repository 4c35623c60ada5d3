package matcher

import "unicode/utf8"

// Normalize canonicalizes raw query text: ASCII letters are lowered, every
// byte outside ASCII is dropped, and control characters and spaces are
// trimmed from both ends. The result is ASCII-only and possibly empty.
//
// Normalize is idempotent.
func Normalize(query string) string {
	buf := make([]byte, 0, len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c >= utf8.RuneSelf:
			continue
		case 'A' <= c && c <= 'Z':
			buf = append(buf, c+'a'-'A')
		default:
			buf = append(buf, c)
		}
	}

	start, end := 0, len(buf)
	for start < end && buf[start] <= ' ' {
		start++
	}
	for end > start && buf[end-1] <= ' ' {
		end--
	}
	return string(buf[start:end])
}
