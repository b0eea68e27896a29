package classfile

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

var errMalformedUtf8 = errors.New("malformed modified utf-8")

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: NUL is encoded
// as C0 80, supplementary characters as a pair of 3-byte surrogates,
// and bytes 0x00 and 0xF0-0xFF never appear. An unpaired surrogate
// decodes to utf8.RuneError since Go strings cannot carry it.
// The returned int is the offset of the first invalid byte.
func decodeModifiedUtf8(b []byte) (string, int, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), 0, nil
	}

	buf := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0:
			return "", i, errMalformedUtf8
		case c < 0x80:
			buf = append(buf, c)
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", i, errMalformedUtf8
			}
			r := rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			buf = utf8.AppendRune(buf, r)
			i += 2
		case c&0xF0 == 0xE0:
			r, ok := decodeThree(b, i)
			if !ok {
				return "", i, errMalformedUtf8
			}
			i += 3
			if utf16.IsSurrogate(r) && r < 0xDC00 {
				if low, ok := decodeThree(b, i); ok && low >= 0xDC00 && low <= 0xDFFF {
					r = utf16.DecodeRune(r, low)
					i += 3
				}
			}
			buf = utf8.AppendRune(buf, r)
		default:
			return "", i, errMalformedUtf8
		}
	}
	return string(buf), 0, nil
}

func decodeThree(b []byte, i int) (rune, bool) {
	if i+2 >= len(b) || b[i]&0xF0 != 0xE0 || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
		return 0, false
	}
	return rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F), true
}
