package pngdefilter

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-level logger used by Check and Bench to report
// mismatches and timings. It defaults to a human-readable console writer —
// the structured equivalent of the teacher's plain fmt.Println-based
// benchmark output — since both the harness and the benchmark CLI are
// local developer-facing tools, not a service with a log aggregator behind
// it. Callers embedding this package in a larger decoder can replace it
// with SetLogger to route output through their own structured sink.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).With().Timestamp().Logger()

// SetLogger overrides the logger Check and Bench write to.
func SetLogger(l zerolog.Logger) {
	log = l
}
