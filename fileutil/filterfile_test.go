package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSUNetSec/bgpgill/model"
)

func TestNewFiltersFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.json")
	contents := `{
		"MonitoredPrefixes": ["10.0.0.0/8"],
		"SourceASes": [65001],
		"DestASes": [65002],
		"MidPathASes": [65003],
		"AnywhereASes": [65004]
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	filters, err := NewFiltersFromFile(path)
	require.NoError(t, err)
	require.Len(t, filters, 5)

	prefixMatch := &model.MrtRecord{Announced: []string{"10.1.0.0/16"}}
	assert.True(t, filters[0](prefixMatch))

	srcMatch := &model.MrtRecord{ASPath: "65000 65001"}
	assert.True(t, filters[1](srcMatch))

	destMatch := &model.MrtRecord{ASPath: "65002 65000"}
	assert.True(t, filters[2](destMatch))
}

func TestNewFiltersFromFileMissingFile(t *testing.T) {
	_, err := NewFiltersFromFile("/nonexistent/filters.json")
	assert.Error(t, err)
}

func TestNewFiltersFromFileMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFiltersFromFile(path)
	assert.Error(t, err)
}

func TestNewFiltersFromFileEmptyYieldsNoFilters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	filters, err := NewFiltersFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, filters)
}
