package mrt

import (
	"io"

	"github.com/CSUNetSec/bgpgill/model"
	"github.com/rs/zerolog"
)

// streamState mirrors the INIT/OPEN/END states the teacher's original
// buffer stack walked through, collapsed here into a single pull
// iterator over decoded MrtRecords instead of a protobuf stack.
type streamState int

const (
	stateInit streamState = iota
	stateOpen
	stateEnd
)

// RecordStream pulls one MrtRecord at a time from an MRT byte source,
// fanning a RIB entry's sibling chain out into successive Next() calls
// so callers never need to know about Sibling directly.
type RecordStream struct {
	framer *Framer
	state  streamState
	next   *model.MrtRecord // queued sibling not yet returned

	Parsed   int // records attempted, including failures
	ParsedOK int // records successfully decoded and returned
	Err      error
}

// NewRecordStream wraps r. logger is forwarded to the underlying Framer
// for log-and-skip diagnostics.
func NewRecordStream(r io.Reader, logger zerolog.Logger) *RecordStream {
	return &RecordStream{framer: NewFramer(r, logger), state: stateInit}
}

// Next returns the next record, or (nil, false) once the stream has
// ended, either cleanly (EOF) or because a decode error occurred. Check
// Err after Next returns false to distinguish the two; Err == nil means
// clean EOF.
func (s *RecordStream) Next() (*model.MrtRecord, bool) {
	if s.state == stateEnd {
		return nil, false
	}
	s.state = stateOpen

	if s.next != nil {
		rec := s.next
		s.next = s.next.Sibling
		rec.Sibling = nil
		return rec, true
	}

	for {
		rec, skip, err := s.framer.ReadRecord()
		if err == io.EOF {
			s.state = stateEnd
			return nil, false
		}
		s.Parsed++
		if err != nil {
			s.state = stateEnd
			s.Err = err
			return nil, false
		}
		if skip {
			continue
		}
		s.ParsedOK++
		s.next = rec.Sibling
		rec.Sibling = nil
		return rec, true
	}
}
