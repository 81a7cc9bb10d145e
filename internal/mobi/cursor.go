package mobi

import (
	"encoding/binary"
	"fmt"
)

// cursor is a bounds-checked big-endian reader over a byte buffer. Every
// read either returns a value or an error; a read never silently yields
// zero for out-of-range positions.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// seek positions the cursor at an absolute offset.
func (c *cursor) seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return fmt.Errorf("seek to %d outside buffer of %d bytes", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

// bytes consumes the next n bytes. The returned slice aliases the buffer.
func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, fmt.Errorf("read of %d bytes at offset %d exceeds buffer of %d bytes", n, c.pos, len(c.buf))
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) uint8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// uint32At reads a big-endian uint32 at an absolute offset without moving
// the cursor.
func (c *cursor) uint32At(pos int) (uint32, error) {
	if pos < 0 || pos+4 > len(c.buf) {
		return 0, fmt.Errorf("read of 4 bytes at offset %d exceeds buffer of %d bytes", pos, len(c.buf))
	}
	return binary.BigEndian.Uint32(c.buf[pos:]), nil
}
