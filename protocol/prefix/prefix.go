// Package prefix decodes length-prefixed compressed IP prefixes (the
// "BGP/MRT compressed prefix" wire form) into canonical CIDR strings.
//
// Grounded on protocol/bgp.go's readPrefix and protocol/rib.go's
// parseRIB, which both do the same bytelen = ceil(bits/8), zero-pad,
// trailing-bit-mask dance against a raw []byte; here it is centralized
// behind a cursor so every caller gets identical, bounds-checked
// behavior.
package prefix

import (
	"net"
	"net/netip"

	"github.com/CSUNetSec/bgpgill/cursor"
	"github.com/CSUNetSec/bgpgill/model"
)

// Decode reads one mask-length byte followed by ceil(mask/8) address
// bytes from c, and renders the canonical "addr/mask" text form.
func Decode(c *cursor.Cursor, afi model.AFI) (model.Prefix, error) {
	maskLen, err := c.ReadU8()
	if err != nil {
		return model.Prefix{}, err
	}
	if maskLen > 128 || (afi == model.AFI_IPV4 && maskLen > 32) {
		return model.Prefix{}, model.ErrBadPrefix
	}

	byteLen := int(maskLen+7) / 8
	raw, err := c.ReadN(byteLen)
	if err != nil {
		return model.Prefix{}, err
	}

	addrLen := 4
	if afi == model.AFI_IPV6 {
		addrLen = 16
	}
	buf := make([]byte, addrLen)
	copy(buf, raw)

	// clear trailing bits in the last partial byte, per RFC; gobgp-style
	// implementations do this even though the RFC doesn't strictly
	// require it.
	if maskLen%8 != 0 && byteLen > 0 {
		shift := maskLen % 8
		keep := byte(0xff00 >> shift)
		buf[byteLen-1] &= keep
	}

	text, err := render(buf, maskLen, afi)
	if err != nil {
		return model.Prefix{}, err
	}
	return model.Prefix{AFI: afi, Mask: maskLen, Text: text}, nil
}

func render(buf []byte, mask uint8, afi model.AFI) (string, error) {
	if afi == model.AFI_IPV6 {
		addr, ok := netip.AddrFromSlice(buf)
		if !ok || !addr.Is6() {
			return "", model.ErrBadPrefix
		}
		return addr.String() + "/" + itoa(mask), nil
	}
	ip := net.IP(buf).To4()
	if ip == nil {
		return "", model.ErrBadPrefix
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return "", model.ErrBadPrefix
	}
	return addr.String() + "/" + itoa(mask), nil
}

func itoa(m uint8) string {
	if m == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for m > 0 {
		i--
		buf[i] = byte('0' + m%10)
		m /= 10
	}
	return string(buf[i:])
}
