package util

import (
	"bytes"
	"fmt"
	"net"
)

// IpToRadixkey renders b (an IPv4 or IPv6 address), masked to mask bits,
// as a string of '0'/'1' characters suitable for use as a radix tree
// key: prefixes that share a radix key prefix share an IP prefix.
func IpToRadixkey(b []byte, mask uint8) string {
	var (
		ip     net.IP = b
		buffer bytes.Buffer
	)
	if len(b) == 0 || len(ip) == 0 { // a misparsed ip probably.
		return ""
	}

	if ip.To4() != nil {
		if mask > 32 { //misparsed?
			return ""
		}
		ip = ip.Mask(net.CIDRMask(int(mask), 32)).To4()
	} else {
		if mask > 128 { //misparsed?
			return ""
		}
		ip = ip.Mask(net.CIDRMask(int(mask), 128)).To16()
	}

	for i := 0; i < len(ip) && i < int(mask); i++ {
		fmt.Fprintf(&buffer, "%08b", ip[i])
	}
	return buffer.String()[:mask]
}
