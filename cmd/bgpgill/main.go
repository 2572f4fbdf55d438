// bgpgill reads an MRT archive file (optionally gzip- or bzip2-
// compressed) and writes one line per decoded record to stdout, either
// as the pipe-separated text format or as JSON.
//
// Grounded on the teacher's cmd/gobgpdump/gobgpdump.go (the single-file
// open/scan/format/write pipeline), cmd/gobgpdump/filter.go (the
// -src/-dest AS flag shape), and fileutil/filterfile.go (the
// -filter-file JSON config), collapsed from gobgpdump's multi-file
// worker-pool config down to the single-file CLI contract bgpgill's
// spec calls for.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/CSUNetSec/bgpgill/dedup"
	"github.com/CSUNetSec/bgpgill/filter"
	"github.com/CSUNetSec/bgpgill/fileutil"
	"github.com/CSUNetSec/bgpgill/render"
)

const errPrefix = "bgpgill:"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, fileArg, err := parseFlags(args, stderr)
	if err != nil {
		return 1
	}

	logger := zerolog.New(stderr).With().Timestamp().Logger().Level(cfg.logLevel)

	var filters []filter.Filter
	if len(cfg.srcASes) > 0 {
		fil, err := filter.NewASFilter(cfg.srcASes, filter.AsSource)
		if err != nil {
			fmt.Fprintln(stderr, errPrefix, err)
			return 1
		}
		filters = append(filters, fil)
	}
	if len(cfg.destASes) > 0 {
		fil, err := filter.NewASFilter(cfg.destASes, filter.AsDestination)
		if err != nil {
			fmt.Fprintln(stderr, errPrefix, err)
			return 1
		}
		filters = append(filters, fil)
	}
	if cfg.filterFile != "" {
		fileFilters, err := fileutil.NewFiltersFromFile(cfg.filterFile)
		if err != nil {
			fmt.Fprintln(stderr, errPrefix, err)
			return 1
		}
		filters = append(filters, fileFilters...)
	}

	reader, err := fileutil.NewMrtFileReader(fileArg, filters, logger)
	if err != nil {
		fmt.Fprintln(stderr, errPrefix, err)
		return 1
	}
	defer reader.Close()

	uniq := dedup.NewUniquePrefixes()

	for reader.Scan() {
		rec := reader.Record()
		if cfg.uniquePrefixes {
			for _, p := range rec.Announced {
				uniq.Add(p)
			}
			continue
		}
		var line string
		if cfg.json {
			line, err = render.JSON(rec)
		} else {
			line = render.Text(rec) + "\n"
		}
		if err != nil {
			logger.Error().Err(err).Msg("rendering record")
			continue
		}
		fmt.Fprint(stdout, line)
	}

	if cfg.uniquePrefixes {
		for _, p := range uniq.Prefixes() {
			fmt.Fprintln(stdout, p)
		}
	}

	if err := reader.Err(); err != nil {
		logger.Error().Err(err).Msg("stream ended with a decode error")
	}
	parsed, parsedOK := reader.Stats()
	logger.Info().Int("parsed", parsed).Int("parsed_ok", parsedOK).Msg("done")

	return 0
}
