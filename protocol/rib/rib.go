// Package rib decodes TABLE_DUMP_V2 records: the PEER_INDEX_TABLE, which
// populates a file's peer directory, and RIB_IPV4_UNICAST /
// RIB_IPV6_UNICAST entries, which fan out into a sibling chain of
// per-peer sub-records sharing one prefix.
//
// Grounded on the teacher's protocol/rib/rib.go (parseIndexTable,
// parsePeerEntry's flag-bit layout, parseRIB/parseRIBEntry's bytelen and
// peer-index framing), cross-checked against original_source's peer
// index bound checks and MRTentry_copy_for_ribs sibling semantics.
package rib

import (
	"net"
	"net/netip"

	"github.com/CSUNetSec/bgpgill/cursor"
	"github.com/CSUNetSec/bgpgill/model"
	"github.com/CSUNetSec/bgpgill/protocol/bgp"
	"github.com/CSUNetSec/bgpgill/protocol/prefix"
)

// TABLE_DUMP_V2 subtypes (§6).
const (
	PeerIndexTable = 1
	RibIPv4Unicast = 2
	RibIPv6Unicast = 4
)

const maxPeerIndex = model.MaxPeers

// Decode dispatches on subtype. For PEER_INDEX_TABLE it populates peers
// and returns (nil, nil): there is nothing to emit to the caller for
// that record. For RIB_IPV4_UNICAST/RIB_IPV6_UNICAST it returns the
// parent MrtRecord with any further per-peer entries linked through
// Sibling, or a non-nil error if any per-peer entry references a peer
// index the directory never populated — that rejects the whole record
// (§4.5), not just the offending entry.
func Decode(body *cursor.Cursor, subtype uint16, peers *model.PeerDirectory) (*model.MrtRecord, error) {
	switch subtype {
	case PeerIndexTable:
		return nil, decodePeerIndexTable(body, peers)
	case RibIPv4Unicast:
		return decodeRib(body, model.AFI_IPV4, peers)
	case RibIPv6Unicast:
		return decodeRib(body, model.AFI_IPV6, peers)
	default:
		return nil, model.ErrUnknownSubtype
	}
}

func decodePeerIndexTable(body *cursor.Cursor, peers *model.PeerDirectory) error {
	if err := body.Skip(4); err != nil { // collector BGP ID
		return err
	}
	viewLen, err := body.ReadU16()
	if err != nil {
		return err
	}
	if err := body.Skip(int(viewLen)); err != nil {
		return err
	}
	peerCount, err := body.ReadU16()
	if err != nil {
		return err
	}

	for i := 0; i < int(peerCount); i++ {
		entry, err := decodePeerEntry(body)
		if err != nil {
			return err
		}
		peers.Add(entry)
	}
	peers.Freeze()
	return nil
}

func decodePeerEntry(body *cursor.Cursor) (model.PeerEntry, error) {
	flags, err := body.ReadU8()
	if err != nil {
		return model.PeerEntry{}, err
	}
	isV6 := flags&0x1 != 0
	isAS4 := flags&0x2 != 0

	if err := body.Skip(4); err != nil { // peer BGP ID
		return model.PeerEntry{}, err
	}

	afi := model.AFI_IPV4
	addrLen := 4
	if isV6 {
		afi = model.AFI_IPV6
		addrLen = 16
	}
	addrBytes, err := body.ReadN(addrLen)
	if err != nil {
		return model.PeerEntry{}, err
	}
	addr, err := renderAddr(addrBytes, isV6)
	if err != nil {
		return model.PeerEntry{}, err
	}

	var asn uint32
	if isAS4 {
		v, err := body.ReadU32()
		if err != nil {
			return model.PeerEntry{}, err
		}
		asn = v
	} else {
		v, err := body.ReadU16()
		if err != nil {
			return model.PeerEntry{}, err
		}
		asn = uint32(v)
	}

	return model.PeerEntry{AFI: afi, Address: addr, ASN: asn}, nil
}

func renderAddr(b []byte, v6 bool) (string, error) {
	if v6 {
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

func decodeRib(body *cursor.Cursor, afi model.AFI, peers *model.PeerDirectory) (*model.MrtRecord, error) {
	if err := body.Skip(4); err != nil { // sequence number
		return nil, err
	}
	pfx, err := prefix.Decode(body, afi)
	if err != nil {
		return nil, err
	}

	count, err := body.ReadU16()
	if err != nil {
		return nil, err
	}

	var head, tail *model.MrtRecord
	for i := 0; i < int(count); i++ {
		// A peer index outside the directory rejects the whole RIB
		// record (§4.5), not just the offending per-peer entry: any
		// already-built siblings are discarded along with it.
		rec, err := decodeRibEntry(body, pfx, peers)
		if err != nil {
			return nil, err
		}
		if head == nil {
			head = rec
		} else {
			tail.Sibling = rec
		}
		tail = rec
	}
	return head, nil
}

func decodeRibEntry(body *cursor.Cursor, pfx model.Prefix, peers *model.PeerDirectory) (*model.MrtRecord, error) {
	peerIndex, err := body.ReadU16()
	if err != nil {
		return nil, err
	}
	if err := body.Skip(4); err != nil { // originated-time; the MRT header's own timestamp wins
		return nil, err
	}
	attrLen, err := body.ReadU16()
	if err != nil {
		return nil, err
	}

	if int(peerIndex) >= maxPeerIndex {
		return nil, model.ErrUnknownPeer
	}

	peer, ok := peers.Lookup(peerIndex)
	if !ok {
		return nil, model.ErrUnknownPeer
	}

	attrs, err := bgp.DecodeAttrs(body, int(attrLen), true)
	if err != nil {
		return nil, err
	}

	rec := &model.MrtRecord{
		BgpType:     model.BgpTypeRib,
		PeerASN:     peer.ASN,
		PeerAddress: peer.Address,
		PeerAFI:     peer.AFI,
		Origin:      attrs.Origin,
		ASPath:      attrs.ASPath,
		NextHop:     attrs.NextHop,
		Communities: attrs.Communities,
	}
	rec.AppendAnnounced(pfx.Text)
	for _, p := range attrs.MPAdvertised {
		rec.AppendAnnounced(p.Text)
	}
	for _, p := range attrs.MPWithdrawn {
		rec.AppendWithdrawn(p.Text)
	}
	return rec, nil
}
