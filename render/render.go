// Package render turns a decoded model.MrtRecord into the two output
// representations bgpgill supports: the pipe-separated text line and a
// JSON object.
//
// Grounded on the teacher's cmd/gobgpdump/format.go (TextFormatter and
// JSONFormatter), with the text layout itself pinned to
// original_source/c_mrt_parser/mrt_entry.c's MRTentry_print so output is
// byte-for-byte compatible with the format the original tool produced.
package render

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/CSUNetSec/bgpgill/model"
	"github.com/pkg/errors"
)

// Text renders one record as the pipe-separated line from §6:
// TAG|timestamp|announced|withdrawn|origin|next_hop|as_path|communities|peer_asn|peer_address
func Text(r *model.MrtRecord) string {
	var b strings.Builder
	b.WriteString(r.Tag())
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(uint64(r.TimestampS), 10))
	b.WriteByte('|')
	b.WriteString(strings.Join(r.Announced, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(r.Withdrawn, ","))
	b.WriteByte('|')
	b.WriteString(r.Origin.String())
	b.WriteByte('|')
	b.WriteString(r.NextHop)
	b.WriteByte('|')
	b.WriteString(r.ASPath)
	b.WriteByte('|')
	b.WriteString(r.Communities)
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(uint64(r.PeerASN), 10))
	b.WriteByte('|')
	b.WriteString(r.PeerAddress)
	return b.String()
}

// jsonRecord is the wire shape JSON renders, kept separate from
// model.MrtRecord so the decode-time struct is never constrained by an
// output contract.
type jsonRecord struct {
	Tag         string   `json:"tag"`
	TimestampS  uint32   `json:"timestamp_s"`
	TimestampUS uint32   `json:"timestamp_us,omitempty"`
	Announced   []string `json:"announced,omitempty"`
	Withdrawn   []string `json:"withdrawn,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	NextHop     string   `json:"next_hop,omitempty"`
	ASPath      string   `json:"as_path,omitempty"`
	Communities string   `json:"communities,omitempty"`
	PeerASN     uint32   `json:"peer_asn"`
	PeerAddress string   `json:"peer_address"`
}

// JSON renders one record as a single JSON object followed by a
// newline, matching the teacher's one-object-per-line JSONFormatter
// output convention.
func JSON(r *model.MrtRecord) (string, error) {
	jr := jsonRecord{
		Tag:         r.Tag(),
		TimestampS:  r.TimestampS,
		TimestampUS: r.TimestampUS,
		Announced:   r.Announced,
		Withdrawn:   r.Withdrawn,
		Origin:      r.Origin.String(),
		NextHop:     r.NextHop,
		ASPath:      r.ASPath,
		Communities: r.Communities,
		PeerASN:     r.PeerASN,
		PeerAddress: r.PeerAddress,
	}
	buf, err := json.Marshal(jr)
	if err != nil {
		return "", errors.Wrap(err, "marshal record")
	}
	return string(buf) + "\n", nil
}
