// Package mrt frames RFC 6396 MRT records off a byte stream and decodes
// the envelope each BGP4MP/BGP4MP_ET record carries (peer and local ASN,
// interface index, address family, peer and local addresses) before
// handing the remainder to protocol/bgp or protocol/rib.
//
// Grounded on the teacher's protocol/mrt/mrt.go (mrtHhdrBuf.Parse's
// 12-byte header layout and BGP4MP_ET microsecond extension,
// bgp4mpHdrBuf.Parse's AS-width and address-family dispatch), with the
// protobuf-backed MrtBufferStack/ExaBGPBufStack replaced end to end by
// the plain model.MrtRecord pipeline.
package mrt

import (
	"encoding/binary"
	"io"
	"net"
	"net/netip"

	"github.com/CSUNetSec/bgpgill/cursor"
	"github.com/CSUNetSec/bgpgill/model"
	"github.com/CSUNetSec/bgpgill/protocol/bgp"
	"github.com/CSUNetSec/bgpgill/protocol/rib"
	"github.com/rs/zerolog"
)

// MRT record types (§6).
const (
	Bgp4mp      = 16
	Bgp4mpEt    = 17
	TableDumpV2 = 13
)

// BGP4MP/BGP4MP_ET subtypes (§6). Note MessageLocal=6 corrects the
// teacher's own subtype table, which gave it 7, the same value as
// MessageAS4Local; the values here follow RFC 6396.
const (
	StateChange     = 0
	Message         = 1
	MessageAS4      = 4
	StateChangeAS4  = 5
	MessageLocal    = 6
	MessageAS4Local = 7
)

const headerLen = 12

// addr families used inside the BGP4MP envelope, distinct from the AFI
// codes MP_REACH_NLRI uses.
const (
	afiIP  = 1
	afiIP6 = 2
)

// Framer reads one MRT record at a time off r, dispatching to the BGP4MP
// envelope decoder or the RIB decoder. It owns the peer directory that
// TABLE_DUMP_V2 files build once and reference from every subsequent RIB
// entry.
type Framer struct {
	r      io.Reader
	peers  *model.PeerDirectory
	logger zerolog.Logger
}

// NewFramer wraps r. logger receives one debug-level event per
// log-and-skip record (unsupported MRT type).
func NewFramer(r io.Reader, logger zerolog.Logger) *Framer {
	return &Framer{r: r, peers: model.NewPeerDirectory(), logger: logger}
}

// ReadRecord reads and decodes the next MRT record. skip is true when
// the record was consumed successfully but produces nothing to emit
// (an unsupported MRT type, or a PEER_INDEX_TABLE); callers should loop
// back to ReadRecord rather than treating skip as an error. err ==
// io.EOF (with rec == nil) signals a clean end of stream, including the
// "truncated trailing record" case (§7): a header or body that doesn't
// fully fit in what's left of the source ends the stream without error.
func (f *Framer) ReadRecord() (rec *model.MrtRecord, skip bool, err error) {
	hdr := make([]byte, headerLen)
	n, err := io.ReadFull(f.r, hdr)
	if err != nil {
		if n == 0 {
			return nil, false, io.EOF
		}
		return nil, false, io.EOF
	}

	hc := cursor.New(hdr)
	ts, _ := hc.ReadU32()
	typ, _ := hc.ReadU16()
	subtype, _ := hc.ReadU16()
	length, _ := hc.ReadU32()

	var tsUS uint32
	if typ == Bgp4mpEt {
		usBuf := make([]byte, 4)
		if _, err := io.ReadFull(f.r, usBuf); err != nil {
			return nil, false, io.EOF
		}
		tsUS = binary.BigEndian.Uint32(usBuf)
		length -= 4
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return nil, false, io.EOF
	}
	bc := cursor.New(body)

	switch typ {
	case Bgp4mp, Bgp4mpEt:
		rec, err = decodeBgp4mp(subtype, bc)
	case TableDumpV2:
		rec, err = rib.Decode(bc, subtype, f.peers)
	default:
		f.logger.Debug().Uint16("mrt_type", typ).Msg("skipping unsupported MRT record type")
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, true, nil
	}

	for s := rec; s != nil; s = s.Sibling {
		s.TimestampS = ts
		s.TimestampUS = tsUS
		s.EntryType = typ
		s.EntrySubType = subtype
	}
	return rec, false, nil
}

// decodeBgp4mp decodes the BGP4MP/BGP4MP_ET envelope (peer/local ASN,
// interface index, address family, peer/local address) then, for the
// message subtypes, hands the remaining body to protocol/bgp. Unknown
// subtypes are rejected rather than skipped: the table in §4.4 lists
// "others -> rejected" for the message envelope the same way it does
// for BGP message types.
func decodeBgp4mp(subtype uint16, body *cursor.Cursor) (*model.MrtRecord, error) {
	as4 := subtype == MessageAS4 || subtype == StateChangeAS4 || subtype == MessageAS4Local
	switch subtype {
	case StateChange, Message, MessageAS4, StateChangeAS4, MessageLocal, MessageAS4Local:
	default:
		return nil, model.ErrUnknownSubtype
	}

	var peerASN uint32
	if as4 {
		v, err := body.ReadU32()
		if err != nil {
			return nil, err
		}
		peerASN = v
		if _, err := body.ReadU32(); err != nil { // local ASN, unused
			return nil, err
		}
	} else {
		v, err := body.ReadU16()
		if err != nil {
			return nil, err
		}
		peerASN = uint32(v)
		if _, err := body.ReadU16(); err != nil { // local ASN, unused
			return nil, err
		}
	}
	if err := body.Skip(2); err != nil { // interface index
		return nil, err
	}

	afiRaw, err := body.ReadU16()
	if err != nil {
		return nil, err
	}

	var afi model.AFI
	var addrLen int
	switch afiRaw {
	case afiIP:
		afi = model.AFI_IPV4
		addrLen = 4
	case afiIP6:
		afi = model.AFI_IPV6
		addrLen = 16
	default:
		return nil, model.ErrUnknownSubtype
	}

	peerBytes, err := body.ReadN(addrLen)
	if err != nil {
		return nil, err
	}
	if err := body.Skip(addrLen); err != nil { // local address, unused
		return nil, err
	}
	peerAddr, err := renderAddr(peerBytes, afi)
	if err != nil {
		return nil, err
	}

	rec := &model.MrtRecord{PeerASN: peerASN, PeerAFI: afi, PeerAddress: peerAddr}

	if subtype == StateChange || subtype == StateChangeAS4 {
		if err := body.Skip(2); err != nil { // old state
			return nil, err
		}
		if err := body.Skip(2); err != nil { // new state
			return nil, err
		}
		rec.BgpType = model.BgpTypeStateChange
		return rec, nil
	}

	as4Msg := subtype == MessageAS4 || subtype == MessageAS4Local
	msg, err := bgp.DecodeMessage(body, as4Msg)
	if err != nil {
		return nil, err
	}
	rec.BgpType = msg.BgpType
	rec.Origin = msg.Origin
	rec.ASPath = msg.ASPath
	rec.NextHop = msg.NextHop
	rec.Communities = msg.Communities
	for _, p := range msg.Announced {
		rec.AppendAnnounced(p.Text)
	}
	for _, p := range msg.Withdrawn {
		rec.AppendWithdrawn(p.Text)
	}
	return rec, nil
}

func renderAddr(b []byte, afi model.AFI) (string, error) {
	if afi == model.AFI_IPV6 {
		addr, ok := netip.AddrFromSlice(b)
		if !ok || !addr.Is6() {
			return "", model.ErrBadPrefix
		}
		return addr.String(), nil
	}
	ip := net.IP(b).To4()
	if ip == nil {
		return "", model.ErrBadPrefix
	}
	return ip.String(), nil
}
