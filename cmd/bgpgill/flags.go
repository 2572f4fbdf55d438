package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// config is the parsed CLI contract from §6:
// bgpgill [-json] [-src AS,...] [-dest AS,...] [-filter-file PATH] [-unique-prefixes] [-log-level LEVEL] <file>
type config struct {
	json           bool
	srcASes        string
	destASes       string
	filterFile     string
	uniquePrefixes bool
	logLevel       zerolog.Level
}

func parseFlags(args []string, stderr io.Writer) (config, string, error) {
	fs := flag.NewFlagSet("bgpgill", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg config
	var levelStr string
	fs.BoolVar(&cfg.json, "json", false, "render records as JSON instead of the pipe-separated text format")
	fs.StringVar(&cfg.srcASes, "src", "", "comma-separated list of source AS numbers to filter by")
	fs.StringVar(&cfg.destASes, "dest", "", "comma-separated list of destination AS numbers to filter by")
	fs.StringVar(&cfg.filterFile, "filter-file", "", "path to a JSON file describing prefix/AS filters (MonitoredPrefixes, SourceASes, DestASes, MidPathASes, AnywhereASes)")
	fs.BoolVar(&cfg.uniquePrefixes, "unique-prefixes", false, "instead of per-record output, print the deduplicated set of announced prefixes")
	fs.StringVar(&levelStr, "log-level", "info", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return config{}, "", err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: bgpgill [-json] [-src AS,...] [-dest AS,...] [-filter-file PATH] [-unique-prefixes] [-log-level LEVEL] <file>")
		return config{}, "", errUsage
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		fmt.Fprintf(stderr, "%s invalid -log-level %q: %s\n", errPrefix, levelStr, err)
		return config{}, "", err
	}
	cfg.logLevel = level

	return cfg, fs.Arg(0), nil
}

var errUsage = fmt.Errorf("usage error")
