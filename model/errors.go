package model

import "github.com/pkg/errors"

// Decode error taxonomy (§7). Every one of these is terminal for the
// current record: the record is discarded and the owning stream's EOF
// flag is set.
var (
	ErrTruncated      = errors.New("truncated: cursor read past residual length")
	ErrBadPrefix      = errors.New("bad prefix: invalid mask or address rendering failure")
	ErrBadMarker      = errors.New("bad marker: BGP marker is not all 0xff")
	ErrLenMismatch    = errors.New("length mismatch: declared BGP length inconsistent with MRT body")
	ErrBadAttr        = errors.New("bad attribute: malformed attribute body")
	ErrAttrTooLarge   = errors.New("attribute too large: exceeds 4096 byte cap")
	ErrUnknownSubtype = errors.New("unknown MRT subtype")
	ErrUnknownPeer    = errors.New("rib entry references a peer index outside the peer directory")
	ErrIO             = errors.New("io error reading underlying byte source")
)
