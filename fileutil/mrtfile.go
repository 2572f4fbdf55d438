// Package fileutil opens MRT archive files, transparently decompressing
// gzip or bzip2 sources by file extension, and wraps them in a
// protocol/mrt.RecordStream.
//
// Grounded on the teacher's fileutil/mrtfile.go (NewMrtFileReader's
// stat-then-open-then-scan shape, getScanner's extension dispatch), with
// the bufio.Scanner+SplitMrt approach replaced by handing the decoder
// the raw io.Reader directly, and the bzip2 reader swapped from the
// standard library to github.com/klauspost/compress/bzip2.
package fileutil

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/bzip2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/CSUNetSec/bgpgill/filter"
	"github.com/CSUNetSec/bgpgill/model"
	"github.com/CSUNetSec/bgpgill/protocol/mrt"
)

// MrtFileReader wraps an open, possibly-compressed MRT archive file and
// exposes it as a filtered sequence of decoded records.
type MrtFileReader struct {
	file    *os.File
	stream  *mrt.RecordStream
	filters []filter.Filter

	current *model.MrtRecord
}

// NewMrtFileReader opens fname, transparently decompressing a .gz or
// .bz2 source by extension, and prepares it for scanning. The caller
// must call Close() when done.
func NewMrtFileReader(fname string, filters []filter.Filter, logger zerolog.Logger) (*MrtFileReader, error) {
	if _, err := os.Stat(fname); err != nil {
		return nil, errors.Wrap(err, "stat")
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	r, err := decompress(fp)
	if err != nil {
		fp.Close()
		return nil, err
	}

	return &MrtFileReader{
		file:    fp,
		stream:  mrt.NewRecordStream(r, logger),
		filters: filters,
	}, nil
}

func decompress(fp *os.File) (io.Reader, error) {
	switch filepath.Ext(fp.Name()) {
	case ".gz":
		gr, err := gzip.NewReader(fp)
		if err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		return gr, nil
	case ".bz2":
		return bzip2.NewReader(fp), nil
	default:
		return fp, nil
	}
}

// Scan advances to the next record that passes filters, returning false
// once the stream ends (cleanly or due to a decode error; call Err to
// tell them apart).
func (m *MrtFileReader) Scan() bool {
	for {
		rec, ok := m.stream.Next()
		if !ok {
			return false
		}
		if filter.FilterAll(m.filters, rec) {
			m.current = rec
			return true
		}
	}
}

// Record returns the record most recently produced by Scan.
func (m *MrtFileReader) Record() *model.MrtRecord {
	return m.current
}

// Err reports a terminal decode error, if the stream ended because of
// one rather than a clean EOF.
func (m *MrtFileReader) Err() error {
	return m.stream.Err
}

// Stats returns the attempted and successfully-decoded record counts.
func (m *MrtFileReader) Stats() (parsed, parsedOK int) {
	return m.stream.Parsed, m.stream.ParsedOK
}

// Close closes the underlying file.
func (m *MrtFileReader) Close() error {
	return m.file.Close()
}
