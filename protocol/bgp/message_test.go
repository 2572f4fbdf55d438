package bgp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSUNetSec/bgpgill/cursor"
	"github.com/CSUNetSec/bgpgill/model"
)

func marker() []byte {
	m := make([]byte, markerLen)
	for i := range m {
		m[i] = 0xFF
	}
	return m
}

func u16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func TestDecodeMessageKeepalive(t *testing.T) {
	body := append(marker(), u16(19)...)
	body = append(body, msgKeepalive)
	res, err := DecodeMessage(cursor.New(body), true)
	require.NoError(t, err)
	assert.Equal(t, model.BgpTypeKeepalive, res.BgpType)
}

func TestDecodeMessageBadMarker(t *testing.T) {
	body := make([]byte, markerLen)
	body = append(body, u16(19)...)
	body = append(body, msgKeepalive)
	_, err := DecodeMessage(cursor.New(body), true)
	assert.ErrorIs(t, err, model.ErrBadMarker)
}

func TestDecodeMessageLengthMismatch(t *testing.T) {
	body := append(marker(), u16(99)...) // wrong length
	body = append(body, msgKeepalive)
	_, err := DecodeMessage(cursor.New(body), true)
	assert.ErrorIs(t, err, model.ErrLenMismatch)
}

func TestDecodeMessageUnknownType(t *testing.T) {
	body := append(marker(), u16(19)...)
	body = append(body, 0xEE)
	_, err := DecodeMessage(cursor.New(body), true)
	assert.ErrorIs(t, err, model.ErrUnknownSubtype)
}

func TestDecodeMessageUpdate(t *testing.T) {
	withdrawn := []byte{24, 10, 0, 1} // 10.0.1.0/24
	attrs := attrTLV(0, attrOrigin, []byte{0})
	nlri := []byte{24, 192, 168, 2} // 192.168.2.0/24

	body := append(u16(uint16(len(withdrawn))), withdrawn...)
	body = append(body, u16(uint16(len(attrs)))...)
	body = append(body, attrs...)
	body = append(body, nlri...)

	full := append(marker(), u16(uint16(markerLen+2+1+len(body)))...)
	full = append(full, msgUpdate)
	full = append(full, body...)

	res, err := DecodeMessage(cursor.New(full), true)
	require.NoError(t, err)
	assert.Equal(t, model.BgpTypeUpdate, res.BgpType)
	require.Len(t, res.Withdrawn, 1)
	assert.Equal(t, "10.0.1.0/24", res.Withdrawn[0].Text)
	require.Len(t, res.Announced, 1)
	assert.Equal(t, "192.168.2.0/24", res.Announced[0].Text)
	assert.Equal(t, model.OriginIGP, res.Origin)
}
