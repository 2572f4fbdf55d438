// Package filter implements predicates over decoded MrtRecords: AS-path
// membership filters and prefix-containment filters, composed with
// FilterAll.
//
// Grounded on the teacher's filter/mrtFilter.go and
// cmd/gobgpdump/filter.go (ASFilter's source/destination/midpath/anywhere
// positions, PrefixFilter's prefix-tree containment test), retargeted
// from *mrt.MrtBufferStack to model.MrtRecord. AS paths here are plain
// rendered text (protocol/bgp's decodeASPath output) rather than a
// decoded []uint32, so token extraction treats a "{a,b,c}" AS_SET
// segment as matching any of a, b, or c.
package filter

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/CSUNetSec/bgpgill/model"
)

// Filter reports whether a record passes. A nil Filter in a slice passed
// to FilterAll is skipped.
type Filter func(r *model.MrtRecord) bool

// PrefixLocation selects which side of a record's prefixes a
// PrefixFilter inspects.
type PrefixLocation int

const (
	AdvPrefix PrefixLocation = iota
	WdrPrefix
	AnyPrefix
)

// ASPosition selects which part of the AS path an ASFilter inspects.
type ASPosition int

const (
	AsSource ASPosition = iota
	AsDestination
	AsMidpath
	AsAnywhere
)

// NewPrefixFilterFromString parses a sep-separated list of "addr/mask"
// prefixes and returns a Filter matching records with an announced
// and/or withdrawn prefix contained by one of them.
func NewPrefixFilterFromString(raw, sep string, loc PrefixLocation) (Filter, error) {
	return NewPrefixFilterFromSlice(strings.Split(raw, sep), loc)
}

// NewPrefixFilterFromSlice is NewPrefixFilterFromString without the
// parsing step.
func NewPrefixFilterFromSlice(prefixStrings []string, loc PrefixLocation) (Filter, error) {
	nets := make([]*net.IPNet, 0, len(prefixStrings))
	for _, p := range prefixStrings {
		_, ipnet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed prefix string %q", p)
		}
		nets = append(nets, ipnet)
	}

	return func(r *model.MrtRecord) bool {
		if loc == AdvPrefix || loc == AnyPrefix {
			if anyContained(nets, r.Announced) {
				return true
			}
		}
		if loc == WdrPrefix || loc == AnyPrefix {
			if anyContained(nets, r.Withdrawn) {
				return true
			}
		}
		return false
	}, nil
}

func anyContained(nets []*net.IPNet, prefixes []string) bool {
	for _, p := range prefixes {
		idx := strings.LastIndexByte(p, '/')
		if idx < 0 {
			continue
		}
		ip := net.ParseIP(p[:idx])
		if ip == nil {
			continue
		}
		for _, n := range nets {
			if n.Contains(ip) {
				return true
			}
		}
	}
	return false
}

// NewASFilter parses a comma-separated list of ASNs ("1,2,3,4") and
// returns a Filter matching records whose rendered AS path contains one
// of them at the given position.
func NewASFilter(list string, pos ASPosition) (Filter, error) {
	asList, err := parseASList(list)
	if err != nil {
		return nil, err
	}
	return NewASFilterFromSlice(asList, pos)
}

// NewASFilterFromSlice is NewASFilter without the parsing step.
func NewASFilterFromSlice(asList []uint32, pos ASPosition) (Filter, error) {
	want := make(map[uint32]bool, len(asList))
	for _, a := range asList {
		want[a] = true
	}

	switch pos {
	case AsSource:
		return func(r *model.MrtRecord) bool {
			path := asPathTokens(r.ASPath)
			return len(path) > 0 && matchesAny(want, path[len(path)-1])
		}, nil
	case AsDestination:
		return func(r *model.MrtRecord) bool {
			path := asPathTokens(r.ASPath)
			return len(path) > 0 && matchesAny(want, path[0])
		}, nil
	case AsMidpath:
		return func(r *model.MrtRecord) bool {
			path := asPathTokens(r.ASPath)
			if len(path) < 3 {
				return false
			}
			for _, asns := range path[1 : len(path)-1] {
				if matchesAny(want, asns) {
					return true
				}
			}
			return false
		}, nil
	case AsAnywhere:
		return func(r *model.MrtRecord) bool {
			for _, asns := range asPathTokens(r.ASPath) {
				if matchesAny(want, asns) {
					return true
				}
			}
			return false
		}, nil
	}
	return nil, errors.New("unsupported AS position argument")
}

func matchesAny(want map[uint32]bool, asns []uint32) bool {
	for _, a := range asns {
		if want[a] {
			return true
		}
	}
	return false
}

// asPathTokens splits a rendered AS path into per-hop groups. A plain
// SEQ hop yields a single ASN; a "{a,b,c}" SET hop yields all of a, b,
// and c, any of which is treated as matching that hop.
func asPathTokens(path string) [][]uint32 {
	if path == "" {
		return nil
	}
	// decodeASPath joins segments with no separator, so a SET can sit
	// directly against its neighbours ("65001 65002{10001,10002}").
	path = strings.NewReplacer("{", " {", "}", "} ").Replace(path)
	var out [][]uint32
	for _, tok := range strings.Fields(path) {
		tok = strings.Trim(tok, "{}")
		var group []uint32
		for _, part := range strings.Split(tok, ",") {
			n, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				continue
			}
			group = append(group, uint32(n))
		}
		if len(group) > 0 {
			out = append(out, group)
		}
	}
	return out
}

func parseASList(str string) ([]uint32, error) {
	parts := strings.Split(str, ",")
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing AS number %q", p)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// FilterAll reports whether r passes every non-nil filter.
func FilterAll(filters []Filter, r *model.MrtRecord) bool {
	for _, f := range filters {
		if f != nil && !f(r) {
			return false
		}
	}
	return true
}
