// Package bgp decodes the BGP path-attribute TLV stream carried inside an
// MRT BGP4MP UPDATE body or a TABLE_DUMP_V2 RIB entry.
//
// Grounded on the teacher's readAttrs/ParseAttrs (the attribute flag/type
// dispatch, the extended-length-flag bit, the readseg/readseg4 AS-path
// loops for 2- vs 4-byte ASNs, and the MP_REACH/MP_UNREACH handling), with
// every field rendered straight to the plain strings model.MrtRecord
// expects instead of populating a protobuf message.
package bgp

import (
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/CSUNetSec/bgpgill/cursor"
	"github.com/CSUNetSec/bgpgill/model"
	"github.com/CSUNetSec/bgpgill/protocol/prefix"
)

const maxAttrLen = 4096

// Attribute type codes (§6).
const (
	attrOrigin      = 1
	attrASPath      = 2
	attrNextHop     = 3
	attrCommunities = 8
	attrMPReach     = 14
	attrMPUnreach   = 15
)

// AS path segment types, RFC 4271.
const (
	segSet = 1
	segSeq = 2
)

// Result carries everything a path-attribute block can contribute to an
// MrtRecord: rendered strings, plus any prefixes MP_REACH/MP_UNREACH
// smuggled in alongside the attributes (RFC 2283 folds NLRI into
// attributes for non-IPv4-unicast address families).
type Result struct {
	Origin       model.Origin
	ASPath       string
	NextHop      string
	Communities  string
	MPAdvertised []model.Prefix
	MPWithdrawn  []model.Prefix
}

// DecodeAttrs consumes exactly allAttrLen bytes from body and fails
// otherwise (§4.3). as4 selects the AS-path ASN width: 2 bytes for
// BGP4MP_MESSAGE/BGP4MP_MESSAGE_LOCAL, 4 bytes otherwise.
func DecodeAttrs(body *cursor.Cursor, allAttrLen int, as4 bool) (Result, error) {
	sub, err := body.Sub(allAttrLen)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for sub.Remaining() > 0 {
		flags, err := sub.ReadU8()
		if err != nil {
			return Result{}, err
		}
		typ, err := sub.ReadU8()
		if err != nil {
			return Result{}, err
		}

		var length int
		if flags&0x10 != 0 {
			l, err := sub.ReadU16()
			if err != nil {
				return Result{}, err
			}
			length = int(l)
		} else {
			l, err := sub.ReadU8()
			if err != nil {
				return Result{}, err
			}
			length = int(l)
		}
		if length > maxAttrLen {
			return Result{}, model.ErrAttrTooLarge
		}

		attrBody, err := sub.Sub(length)
		if err != nil {
			return Result{}, err
		}

		switch typ {
		case attrOrigin:
			if attrBody.Len() != 1 {
				return Result{}, model.ErrBadAttr
			}
			b, _ := attrBody.ReadU8()
			res.Origin = originFromByte(b)
		case attrASPath:
			s, err := decodeASPath(attrBody, as4)
			if err != nil {
				return Result{}, err
			}
			res.ASPath = s
		case attrNextHop:
			if attrBody.Len() != 4 {
				return Result{}, model.ErrBadAttr
			}
			raw, _ := attrBody.ReadN(4)
			res.NextHop = net.IP(raw).String()
		case attrCommunities:
			s, err := decodeCommunities(attrBody)
			if err != nil {
				return Result{}, err
			}
			res.Communities = s
		case attrMPReach:
			adv, nh, err := decodeMPReach(attrBody)
			if err != nil {
				return Result{}, err
			}
			res.MPAdvertised = adv
			if nh != "" {
				res.NextHop = nh
			}
		case attrMPUnreach:
			wdn, err := decodeMPUnreach(attrBody)
			if err != nil {
				return Result{}, err
			}
			res.MPWithdrawn = wdn
		default:
			// opaque: attrBody was already fully consumed via Sub above,
			// matching the original parser's straight byte-skip for
			// attribute types it doesn't special-case.
		}
	}
	return res, nil
}

func originFromByte(b byte) model.Origin {
	switch b {
	case 0:
		return model.OriginIGP
	case 1:
		return model.OriginEGP
	case 2:
		return model.OriginIncomplete
	default:
		return model.OriginUnknown
	}
}

// decodeASPath renders a series of path segments. SEQ segments render
// ASNs space-separated; SET segments are wrapped in {} comma-separated.
// Segments are concatenated with no separator between them (§4.3).
func decodeASPath(sub *cursor.Cursor, as4 bool) (string, error) {
	var b strings.Builder
	for sub.Remaining() > 0 {
		segType, err := sub.ReadU8()
		if err != nil {
			return "", err
		}
		segLen, err := sub.ReadU8()
		if err != nil {
			return "", err
		}

		asns := make([]uint32, 0, segLen)
		for i := 0; i < int(segLen); i++ {
			var asn uint32
			if as4 {
				v, err := sub.ReadU32()
				if err != nil {
					return "", err
				}
				asn = v
			} else {
				v, err := sub.ReadU16()
				if err != nil {
					return "", err
				}
				asn = uint32(v)
			}
			asns = append(asns, asn)
		}

		switch segType {
		case segSeq:
			for i, a := range asns {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strconv.FormatUint(uint64(a), 10))
			}
		case segSet:
			b.WriteByte('{')
			for i, a := range asns {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.FormatUint(uint64(a), 10))
			}
			b.WriteByte('}')
		default:
			return "", model.ErrBadAttr
		}
		if b.Len() > maxAttrLen {
			return "", model.ErrAttrTooLarge
		}
	}
	return b.String(), nil
}

// decodeCommunities renders pairs of u16 as "ASN:VALUE" space-separated,
// with no trailing separator (original_source's comActStrlen tracking).
func decodeCommunities(sub *cursor.Cursor) (string, error) {
	var b strings.Builder
	first := true
	for sub.Remaining() > 0 {
		asn, err := sub.ReadU16()
		if err != nil {
			return "", err
		}
		val, err := sub.ReadU16()
		if err != nil {
			return "", err
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(strconv.FormatUint(uint64(asn), 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(val), 10))
		if b.Len() > maxAttrLen {
			return "", model.ErrAttrTooLarge
		}
	}
	return b.String(), nil
}

// decodeMPReach handles both the standard RFC 2283 layout and the
// MRT-shortened variant (§4.3): the disambiguator is the attribute's
// first byte. Next hop is always rendered as IPv6 text, even though the
// declared length may not be 16 — this is a deliberate quirk preserved
// for bit-compatible output (original_source's BGP_UPDATE_ATTR_NLRI).
func decodeMPReach(sub *cursor.Cursor) ([]model.Prefix, string, error) {
	first, err := sub.Peek()
	if err != nil {
		return nil, "", err
	}

	standard := first == 0
	if standard {
		if _, err := sub.ReadU16(); err != nil { // AFI
			return nil, "", err
		}
		if _, err := sub.ReadU8(); err != nil { // SAFI
			return nil, "", err
		}
	}

	nhLen, err := sub.ReadU8()
	if err != nil {
		return nil, "", err
	}
	nhBytes, err := sub.ReadN(int(nhLen))
	if err != nil {
		return nil, "", err
	}
	nhBuf := make([]byte, 16)
	copy(nhBuf, nhBytes)
	addr, ok := netip.AddrFromSlice(nhBuf)
	if !ok {
		return nil, "", model.ErrBadAttr
	}
	nextHop := addr.String()

	if standard {
		if err := sub.Skip(1); err != nil { // reserved byte
			return nil, "", err
		}
	}

	var advertised []model.Prefix
	for sub.Remaining() > 0 {
		p, err := prefix.Decode(sub, model.AFI_IPV6)
		if err != nil {
			return nil, "", err
		}
		advertised = append(advertised, p)
	}
	return advertised, nextHop, nil
}

// decodeMPUnreach reads a 2-byte AFI + 1-byte SAFI then a sequence of
// IPv6 prefixes for the remainder (§4.3).
func decodeMPUnreach(sub *cursor.Cursor) ([]model.Prefix, error) {
	if _, err := sub.ReadU16(); err != nil { // AFI
		return nil, err
	}
	if _, err := sub.ReadU8(); err != nil { // SAFI
		return nil, err
	}

	var withdrawn []model.Prefix
	for sub.Remaining() > 0 {
		p, err := prefix.Decode(sub, model.AFI_IPV6)
		if err != nil {
			return nil, err
		}
		withdrawn = append(withdrawn, p)
	}
	return withdrawn, nil
}
