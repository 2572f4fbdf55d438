package cursor

import (
	"testing"

	"github.com/CSUNetSec/bgpgill/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPrimitives(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03, 0xAA, 0xBB, 0xCC, 0xDD})

	b, err := c.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 1, b)

	u16, err := c.ReadU16()
	require.NoError(t, err)
	assert.EqualValues(t, 0x0203, u16)

	u32, err := c.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 0xAABBCCDD, u32)

	assert.Equal(t, 0, c.Remaining())
}

func TestReadPastLimitIsTruncated(t *testing.T) {
	c := New([]byte{0x01})
	_, err := c.ReadU16()
	assert.ErrorIs(t, err, model.ErrTruncated)
}

func TestPeekDoesNotConsume(t *testing.T) {
	c := New([]byte{0x42, 0x43})
	b, err := c.Peek()
	require.NoError(t, err)
	assert.EqualValues(t, 0x42, b)

	b2, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestSubScopesSubsequentReads(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03, 0x04})
	sub, err := c.Sub(2)
	require.NoError(t, err)

	assert.Equal(t, 2, sub.Remaining())
	assert.Equal(t, 2, c.Remaining())

	_, err = sub.ReadN(3)
	assert.ErrorIs(t, err, model.ErrTruncated)
}

func TestSkip(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03})
	require.NoError(t, c.Skip(2))
	b, err := c.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 3, b)
}
