// Package model defines the plain, non-protobuf record types decoded from
// an MRT archive: prefixes, peer directory entries, and the MrtRecord
// emitted by a RecordStream.
package model

import "fmt"

// AFI identifies the address family carried by a Prefix, a peer address,
// or a next hop.
type AFI uint8

const (
	AFI_IPV4 AFI = 1
	AFI_IPV6 AFI = 2
)

func (a AFI) String() string {
	switch a {
	case AFI_IPV4:
		return "v4"
	case AFI_IPV6:
		return "v6"
	default:
		return "unknown"
	}
}

// BgpType is the decoded message kind of an MrtRecord.
type BgpType uint8

const (
	BgpTypeUnknown BgpType = iota
	BgpTypeOpen
	BgpTypeUpdate
	BgpTypeNotification
	BgpTypeKeepalive
	BgpTypeStateChange
	BgpTypeRib
)

// Origin is the rendered BGP ORIGIN attribute value.
type Origin uint8

const (
	OriginUnknown Origin = iota
	OriginIGP
	OriginEGP
	OriginIncomplete
)

func (o Origin) String() string {
	switch o {
	case OriginIGP:
		return "IGP"
	case OriginEGP:
		return "EGP"
	case OriginIncomplete:
		return "INCOMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Prefix is a decoded, canonicalized IP prefix.
type Prefix struct {
	AFI  AFI
	Mask uint8
	Text string // "X.X.X.X/mask" or "aaaa:bbbb:.../mask"
}

// MaxAnnounced and MaxWithdrawn are the per-record caps on prefix lists
// (spec §3, §5); overflow is silently truncated, never rejected.
const (
	MaxAnnounced = 2048
	MaxWithdrawn = 2048
	MaxPeers     = 256
)

// PeerEntry is one row of a PeerDirectory, populated from a
// PEER_INDEX_TABLE record.
type PeerEntry struct {
	Index   uint16
	AFI     AFI
	Address string
	ASN     uint32
}

// PeerDirectory is the per-file ordered map from peer index to PeerEntry.
// Entries must be populated in strictly increasing index order; once set,
// an entry is immutable for the remainder of the stream. Capacity is
// capped at MaxPeers; indices beyond that are accepted by the wire format
// but never stored (§4.5, §9).
type PeerDirectory struct {
	entries []PeerEntry
	set     bool
}

// NewPeerDirectory returns an empty, unset directory.
func NewPeerDirectory() *PeerDirectory {
	return &PeerDirectory{}
}

// Add appends the next sequential peer entry. It is a programming error
// to call Add after Freeze; callers (RibDecoder) must add all peers
// before the directory is read from.
func (d *PeerDirectory) Add(e PeerEntry) {
	if d.set {
		return
	}
	if len(d.entries) >= MaxPeers {
		return
	}
	e.Index = uint16(len(d.entries))
	d.entries = append(d.entries, e)
}

// Freeze marks the directory as fully populated; further Add calls are
// no-ops. A PEER_INDEX_TABLE appears once per file in practice, so Freeze
// is called once the record's peer loop completes.
func (d *PeerDirectory) Freeze() {
	d.set = true
}

// Lookup returns the peer at index, or false if the index was never
// populated (beyond MaxPeers, or the directory hasn't been filled yet).
func (d *PeerDirectory) Lookup(index uint16) (PeerEntry, bool) {
	if int(index) >= len(d.entries) {
		return PeerEntry{}, false
	}
	return d.entries[int(index)], true
}

// Len reports how many peer entries are stored (capped at MaxPeers).
func (d *PeerDirectory) Len() int {
	return len(d.entries)
}

// MrtRecord is the decoded unit handed to callers by RecordStream.
type MrtRecord struct {
	TimestampS  uint32
	TimestampUS uint32 // 0 unless the source was BGP4MP_ET

	EntryType    uint16
	EntrySubType uint16
	BgpType      BgpType

	PeerASN     uint32
	PeerAddress string
	PeerAFI     AFI

	Announced []string
	Withdrawn []string

	NextHop     string
	ASPath      string
	Communities string
	Origin      Origin

	// Sibling is the next RIB sub-entry sharing this record's prefix,
	// or nil. Each sibling carries its own peer and attributes (§9); it
	// never inherits the parent's Origin/NextHop/ASPath/Communities.
	Sibling *MrtRecord
}

func (r *MrtRecord) String() string {
	return fmt.Sprintf("MrtRecord{type=%v peer_asn=%d peer=%s announced=%d withdrawn=%d}",
		r.BgpType, r.PeerASN, r.PeerAddress, len(r.Announced), len(r.Withdrawn))
}

// AppendAnnounced appends a prefix text, silently dropping it once
// MaxAnnounced has been reached (§3 invariant: truncation, not failure).
func (r *MrtRecord) AppendAnnounced(p string) {
	if len(r.Announced) >= MaxAnnounced {
		return
	}
	r.Announced = append(r.Announced, p)
}

// AppendWithdrawn appends a prefix text, silently dropping it once
// MaxWithdrawn has been reached.
func (r *MrtRecord) AppendWithdrawn(p string) {
	if len(r.Withdrawn) >= MaxWithdrawn {
		return
	}
	r.Withdrawn = append(r.Withdrawn, p)
}

// Tag renders the one-letter output tag from §6.
func (r *MrtRecord) Tag() string {
	switch r.BgpType {
	case BgpTypeOpen:
		return "O"
	case BgpTypeUpdate:
		return "U"
	case BgpTypeNotification:
		return "N"
	case BgpTypeKeepalive:
		return "K"
	case BgpTypeStateChange:
		return "S"
	default:
		return "R"
	}
}
