package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func be32(v uint32) []byte { return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)} }
func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

// keepaliveRecord mirrors spec.md's Scenario A (BGP4MP AS4 KEEPALIVE).
func keepaliveRecord() []byte {
	body := be32(65000)
	body = append(body, be32(1)...)
	body = append(body, be16(0)...)
	body = append(body, be16(1)...)
	body = append(body, []byte{10, 0, 0, 1}...)
	body = append(body, []byte{10, 0, 0, 2}...)
	marker := make([]byte, 16)
	for i := range marker {
		marker[i] = 0xFF
	}
	body = append(body, marker...)
	body = append(body, be16(19)...)
	body = append(body, 4)

	hdr := be32(1)
	hdr = append(hdr, be16(16)...)
	hdr = append(hdr, be16(4)...)
	hdr = append(hdr, be32(uint32(len(body)))...)
	return append(hdr, body...)
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mrt")
	require.NoError(t, os.WriteFile(path, keepaliveRecord(), 0o644))
	return path
}

func TestRunTextOutput(t *testing.T) {
	path := writeSample(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{path}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, "K|1|||UNKNOWN||||65000|10.0.0.1\n", stdout.String())
}

func TestRunJSONOutput(t *testing.T) {
	path := writeSample(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-json", path}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), `"peer_asn":65000`)
	assert.Contains(t, stdout.String(), `"tag":"K"`)
}

func TestRunUsageErrorOnMissingFileArg(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "usage:")
}

func TestRunNonexistentFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"/nonexistent/path.mrt"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRunUniquePrefixes(t *testing.T) {
	path := writeSample(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-unique-prefixes", path}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	// a KEEPALIVE carries no announced prefixes, so output is empty.
	assert.Empty(t, stdout.String())
}
