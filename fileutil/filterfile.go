package fileutil

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/CSUNetSec/bgpgill/filter"
)

// FilterFile structs should be populated straight from a JSON object
// (the -filter-file CLI flag).
type FilterFile struct {
	MonitoredPrefixes []string
	SourceASes        []uint32
	DestASes          []uint32
	MidPathASes       []uint32
	AnywhereASes      []uint32
}

func (f FilterFile) getFilters() ([]filter.Filter, error) {
	var ret []filter.Filter
	if len(f.MonitoredPrefixes) > 0 {
		fil, err := filter.NewPrefixFilterFromSlice(f.MonitoredPrefixes, filter.AnyPrefix)
		if err != nil {
			return nil, errors.Wrap(err, "can not create prefix filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.SourceASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.SourceASes, filter.AsSource)
		if err != nil {
			return nil, errors.Wrap(err, "can not create source AS filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.DestASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.DestASes, filter.AsDestination)
		if err != nil {
			return nil, errors.Wrap(err, "can not create destination AS filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.MidPathASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.MidPathASes, filter.AsMidpath)
		if err != nil {
			return nil, errors.Wrap(err, "can not create midpath AS filter from conf")
		}
		ret = append(ret, fil)
	}
	if len(f.AnywhereASes) > 0 {
		fil, err := filter.NewASFilterFromSlice(f.AnywhereASes, filter.AsAnywhere)
		if err != nil {
			return nil, errors.Wrap(err, "can not create anywhere AS filter from conf")
		}
		ret = append(ret, fil)
	}
	return ret, nil
}

// NewFiltersFromFile reads a JSON FilterFile from fname and builds the
// filters it describes.
func NewFiltersFromFile(fname string) ([]filter.Filter, error) {
	contents, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "reading filter file")
	}
	var ff FilterFile
	if err := json.Unmarshal(contents, &ff); err != nil {
		return nil, errors.Wrap(err, "json unmarshal")
	}
	return ff.getFilters()
}
