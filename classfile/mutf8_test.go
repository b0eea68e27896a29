package classfile

import (
	"errors"
	"testing"
)

func TestDecodeModifiedUtf8(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("Foo"), "Foo"},
		{"empty", nil, ""},
		{"encoded nul", []byte{'a', 0xC0, 0x80, 'b'}, "a\x00b"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"three byte", []byte{0xE2, 0x82, 0xAC}, "€"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "😀"},
		{"unpaired surrogate", []byte{0xED, 0xA0, 0x80}, "�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := decodeModifiedUtf8(tt.input)
			if err != nil {
				t.Fatalf("decodeModifiedUtf8() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeModifiedUtf8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeModifiedUtf8Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		bad   int
	}{
		{"raw nul", []byte{'a', 0x00}, 1},
		{"four byte lead", []byte{'x', 0xF0, 0x9F, 0x98, 0x80}, 1},
		{"truncated two byte", []byte{0xC3}, 0},
		{"bad continuation", []byte{'a', 'b', 0xC3, 'c'}, 2},
		{"truncated three byte", []byte{0xE2, 0x82}, 0},
		{"stray continuation", []byte{0x80}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bad, err := decodeModifiedUtf8(tt.input)
			if !errors.Is(err, errMalformedUtf8) {
				t.Fatalf("error = %v, want malformed", err)
			}
			if bad != tt.bad {
				t.Errorf("bad offset = %d, want %d", bad, tt.bad)
			}
		})
	}
}
