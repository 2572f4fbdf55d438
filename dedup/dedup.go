// Package dedup collapses a stream of prefixes down to the top-level
// ones: if both 10.0.0.0/8 and 10.0.0.0/16 are seen, only 10.0.0.0/8 is
// kept.
//
// Grounded on the teacher's cmd/gobgpdump/format.go (UniquePrefixList,
// deleteChildPrefixes, PrefixWalker), retargeted from *mrt.MrtBufferStack
// input to plain prefix strings and backed by the same
// github.com/armon/go-radix tree.
package dedup

import (
	"net"
	"strconv"
	"strings"

	radix "github.com/armon/go-radix"

	"github.com/CSUNetSec/bgpgill/util"
)

// UniquePrefixes accumulates prefixes across Add calls and reports, on
// Prefixes, only those with no shorter prefix also seen.
type UniquePrefixes struct {
	seen map[string]string // radix key -> original "addr/mask" text
}

// NewUniquePrefixes returns an empty accumulator.
func NewUniquePrefixes() *UniquePrefixes {
	return &UniquePrefixes{seen: make(map[string]string)}
}

// Add records one prefix, in canonical "addr/mask" text form.
func (u *UniquePrefixes) Add(prefixText string) {
	key := radixKey(prefixText)
	if key == "" {
		return
	}
	if _, ok := u.seen[key]; !ok {
		u.seen[key] = prefixText
	}
}

// Prefixes returns the top-level prefixes: any prefix for which a
// shorter prefix was also seen is dropped.
func (u *UniquePrefixes) Prefixes() []string {
	tree := radix.New()
	remaining := make(map[string]string, len(u.seen))
	for key, text := range u.seen {
		tree.Insert(key, text)
		remaining[key] = text
	}

	tree.Walk(func(s string, v interface{}) bool {
		top := true
		tree.WalkPrefix(s, func(sub string, sv interface{}) bool {
			if top {
				top = false
			} else {
				delete(remaining, sub)
			}
			return false
		})
		return false
	})

	out := make([]string, 0, len(remaining))
	for _, text := range remaining {
		out = append(out, text)
	}
	return out
}

func radixKey(prefixText string) string {
	idx := strings.LastIndexByte(prefixText, '/')
	if idx < 0 {
		return ""
	}
	addrPart, maskPart := prefixText[:idx], prefixText[idx+1:]
	ip := net.ParseIP(addrPart)
	if ip == nil {
		return ""
	}
	mask, err := strconv.ParseUint(maskPart, 10, 8)
	if err != nil {
		return ""
	}
	return util.IpToRadixkey(ip, uint8(mask))
}
