// Package cursor implements the sole bounds-checking locus used by every
// decoder in this module: a bounded reader over a byte slice that fails
// with a Truncated error the instant a read would exceed its limit. No
// other package inspects raw offsets directly.
package cursor

import (
	"encoding/binary"

	"github.com/CSUNetSec/bgpgill/model"
)

// Cursor is a bounded, big-endian reader over a fixed byte slice.
type Cursor struct {
	buf    []byte
	offset int
}

// New wraps buf. The cursor's limit is len(buf); no read may cross it.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset reports the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.offset }

// Remaining reports how many bytes remain before the limit.
func (c *Cursor) Remaining() int { return len(c.buf) - c.offset }

// Len reports the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

func (c *Cursor) require(n int) error {
	if n < 0 || c.offset+n > len(c.buf) {
		return model.ErrTruncated
	}
	return nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.offset]
	c.offset++
	return v, nil
}

// ReadU16 reads a big-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(c.buf[c.offset : c.offset+2])
	c.offset += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(c.buf[c.offset : c.offset+4])
	c.offset += 4
	return v, nil
}

// ReadN reads exactly n bytes and returns a copy of them.
func (c *Cursor) ReadN(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.offset:c.offset+n])
	c.offset += n
	return out, nil
}

// Peek returns the next byte without consuming it; it fails the same way
// a ReadU8 would if no byte remains.
func (c *Cursor) Peek() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	return c.buf[c.offset], nil
}

// Skip advances the offset by n without copying, failing if n would
// cross the limit.
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// Sub returns a new Cursor scoped to exactly the next n bytes, advancing
// this cursor past them. Used to hand an attribute block its own bounded
// sub-cursor so an inner decoder cannot over-read into sibling data.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	b, err := c.ReadN(n)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}
