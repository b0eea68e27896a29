package classfile

import "encoding/binary"

// Cursor is a sequential big-endian reader over an in-memory buffer.
// It only guards the absolute bounds of the buffer; callers are
// responsible for staying inside length-prefixed regions.
type Cursor struct {
	buf []byte
	pos int

	// depth counts nested element values and attribute lists.
	depth int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Position returns the number of bytes consumed so far.
func (c *Cursor) Position() int {
	return c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) Len() int {
	return len(c.buf)
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.Remaining() < n {
		return &DecodeError{
			Kind:     KindUnexpectedEOF,
			Offset:   c.pos,
			Declared: n,
			Consumed: c.Remaining(),
		}
	}
	return nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadBytes returns the next n bytes. The returned slice aliases the
// underlying buffer, which is never written to.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return v, nil
}

// ReadU16Array reads n consecutive big-endian u16 values.
func (c *Cursor) ReadU16Array(n int) ([]uint16, error) {
	if err := c.need(2 * n); err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(c.buf[c.pos:])
		c.pos += 2
	}
	return out, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}
