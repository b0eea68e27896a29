package classfile

import (
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b})

	if v, err := c.ReadU8(); err != nil || v != 0x01 {
		t.Errorf("ReadU8() = 0x%x, %v", v, err)
	}
	if v, err := c.ReadU16(); err != nil || v != 0x0203 {
		t.Errorf("ReadU16() = 0x%x, %v", v, err)
	}
	if v, err := c.ReadU32(); err != nil || v != 0x04050607 {
		t.Errorf("ReadU32() = 0x%x, %v", v, err)
	}
	if v, err := c.ReadU16Array(2); err != nil || len(v) != 2 || v[0] != 0x0809 || v[1] != 0x0a0b {
		t.Errorf("ReadU16Array(2) = %v, %v", v, err)
	}
	if c.Remaining() != 0 || c.Position() != 11 {
		t.Errorf("Remaining, Position = %d, %d, want 0, 11", c.Remaining(), c.Position())
	}
}

func TestCursorEOF(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		read func(*Cursor) error
		need int
	}{
		{"u8", 3, func(c *Cursor) error { _, err := c.ReadU8(); return err }, 1},
		{"u16", 2, func(c *Cursor) error { _, err := c.ReadU16(); return err }, 2},
		{"u32", 1, func(c *Cursor) error { _, err := c.ReadU32(); return err }, 4},
		{"bytes", 2, func(c *Cursor) error { _, err := c.ReadBytes(3); return err }, 3},
		{"u16 array", 0, func(c *Cursor) error { _, err := c.ReadU16Array(2); return err }, 4},
		{"skip", 2, func(c *Cursor) error { return c.Skip(5) }, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor([]byte{0xff, 0x00, 0x00})
			c.pos = tt.pos
			err := tt.read(c)
			if !errors.Is(err, ErrUnexpectedEOF) {
				t.Fatalf("error = %v, want unexpected EOF", err)
			}
			var de *DecodeError
			errors.As(err, &de)
			if de.Offset != tt.pos || de.Declared != tt.need || de.Consumed != 3-tt.pos {
				t.Errorf("DecodeError = %+v", de)
			}
			if c.Position() != tt.pos {
				t.Errorf("Position() = %d after failed read, want %d", c.Position(), tt.pos)
			}
		})
	}
}

func TestCursorReadBytesAliases(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	c := NewCursor(buf)
	b, err := c.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if &b[0] != &buf[0] {
		t.Error("ReadBytes should alias the underlying buffer")
	}
	if cap(b) != 2 {
		t.Errorf("cap = %d, want 2", cap(b))
	}
}
