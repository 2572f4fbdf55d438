package bgp

import (
	"github.com/CSUNetSec/bgpgill/cursor"
	"github.com/CSUNetSec/bgpgill/model"
	"github.com/CSUNetSec/bgpgill/protocol/prefix"
)

// BGP message type codes (§6).
const (
	msgOpen         = 1
	msgUpdate       = 2
	msgNotification = 3
	msgKeepalive    = 4
)

const markerLen = 16

// MessageResult is everything a BGP message body (after the envelope)
// contributes to an MrtRecord.
type MessageResult struct {
	BgpType     model.BgpType
	Origin      model.Origin
	ASPath      string
	NextHop     string
	Communities string
	Announced   []model.Prefix
	Withdrawn   []model.Prefix
}

// DecodeMessage reads the 16-byte marker, the 2-byte length, and the
// 1-byte type from body, then dispatches to the UPDATE decoder or simply
// records the type (§4.4). as4 selects the AS-path width used when an
// UPDATE's attributes are decoded.
func DecodeMessage(body *cursor.Cursor, as4 bool) (MessageResult, error) {
	marker, err := body.ReadN(markerLen)
	if err != nil {
		return MessageResult{}, err
	}
	for _, b := range marker {
		if b != 0xFF {
			return MessageResult{}, model.ErrBadMarker
		}
	}

	bgpLen, err := body.ReadU16()
	if err != nil {
		return MessageResult{}, err
	}
	remaining := body.Remaining()
	if int(bgpLen) != markerLen+2+remaining {
		return MessageResult{}, model.ErrLenMismatch
	}

	typ, err := body.ReadU8()
	if err != nil {
		return MessageResult{}, err
	}

	switch typ {
	case msgOpen:
		return MessageResult{BgpType: model.BgpTypeOpen}, nil
	case msgUpdate:
		return decodeUpdate(body, as4)
	case msgNotification:
		return MessageResult{BgpType: model.BgpTypeNotification}, nil
	case msgKeepalive:
		return MessageResult{BgpType: model.BgpTypeKeepalive}, nil
	default:
		return MessageResult{}, model.ErrUnknownSubtype
	}
}

// decodeUpdate reads the UPDATE body: withdrawn IPv4 prefixes, the
// attribute block, and the remaining bytes as advertised IPv4 NLRI
// (§4.4). IPv6 routes never appear here directly — they arrive folded
// into MP_REACH_NLRI/MP_UNREACH_NLRI inside the attribute block.
func decodeUpdate(body *cursor.Cursor, as4 bool) (MessageResult, error) {
	withdrawLen, err := body.ReadU16()
	if err != nil {
		return MessageResult{}, err
	}
	wBuf, err := body.Sub(int(withdrawLen))
	if err != nil {
		return MessageResult{}, err
	}
	var withdrawn []model.Prefix
	for wBuf.Remaining() > 0 {
		p, err := prefix.Decode(wBuf, model.AFI_IPV4)
		if err != nil {
			return MessageResult{}, err
		}
		withdrawn = append(withdrawn, p)
	}

	attrLen, err := body.ReadU16()
	if err != nil {
		return MessageResult{}, err
	}
	attrs, err := DecodeAttrs(body, int(attrLen), as4)
	if err != nil {
		return MessageResult{}, err
	}

	var announced []model.Prefix
	for body.Remaining() > 0 {
		p, err := prefix.Decode(body, model.AFI_IPV4)
		if err != nil {
			return MessageResult{}, err
		}
		announced = append(announced, p)
	}

	announced = append(announced, attrs.MPAdvertised...)
	withdrawn = append(withdrawn, attrs.MPWithdrawn...)

	return MessageResult{
		BgpType:     model.BgpTypeUpdate,
		Origin:      attrs.Origin,
		ASPath:      attrs.ASPath,
		NextHop:     attrs.NextHop,
		Communities: attrs.Communities,
		Announced:   announced,
		Withdrawn:   withdrawn,
	}, nil
}
