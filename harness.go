package pngdefilter

import "time"

// randTable is the fixed 299-byte table the deterministic image generator
// draws from (§6). Its exact contents are not a stable contract — only
// that two genImage calls with the same seed produce identical buffers.
var randTable [299]byte

func init() {
	var x byte = 0x2F
	for i := range randTable {
		x = x*167 + 53
		randTable[i] = x
	}
}

// genImage deterministically produces one h*bpl-byte image: row 0's filter
// byte is always 0 (the verification harness never feeds the oracle an
// already-filtered first row); later rows use filter, or cycle through
// {0..4} one filter per row when filter == filterCycle (value 5). Pixel
// bytes are drawn from randTable via two indices advancing by 1 and by 2
// per byte, both wrapped modulo len(randTable) — the two advancing indices
// the source's generator uses instead of a general-purpose PRNG.
func genImage(seed, w, h, bpp, filter int) []byte {
	bpl := w*bpp + 1
	buf := make([]byte, h*bpl)

	i1 := ((seed % len(randTable)) + len(randTable)) % len(randTable)
	i2 := ((seed*2)%len(randTable) + len(randTable)) % len(randTable)
	next := func() byte {
		b := randTable[i1] ^ randTable[i2]
		i1 = (i1 + 1) % len(randTable)
		i2 = (i2 + 2) % len(randTable)
		return b
	}

	for y := 0; y < h; y++ {
		var f byte
		switch {
		case y == 0:
			f = 0
		case filter == filterCycle:
			f = byte((y - 1) % 5)
		default:
			f = byte(filter)
		}
		row := buf[y*bpl : (y+1)*bpl]
		row[0] = f
		for x := 1; x < bpl; x++ {
			row[x] = next()
		}
	}
	return buf
}

// seedFor derives a deterministic per-tuple seed from the check loop's
// coordinates, so every (filter, h, w, bpp) combination exercises a
// different image while remaining fully reproducible — required by the
// source's "OptDePngCheck uses the same seed for the two buffers it
// compares" invariant (§9 Open Questions).
func seedFor(filter, h, w, bpp int) int {
	return filter*1_000_000 + h*10_000 + w*100 + bpp
}

// Check is the verification harness (§6): it exhaustively compares
// reference against candidate over every (filter, h, w, bpp) combination
// the source specifies, returning the first MismatchError encountered (and
// logging it) or nil if every case agreed byte-for-byte.
func Check(name string, reference, candidate defilterFunc) error {
	for filter := 0; filter < 6; filter++ {
		for h := 1; h < 20; h++ {
			for w := 1; w < 100; w++ {
				for _, bpp := range supportedBPP {
					bpl := w*bpp + 1
					seed := seedFor(filter, h, w, bpp)

					imgA := genImage(seed, w, h, bpp, filter)
					imgB := genImage(seed, w, h, bpp, filter)

					reference(imgA, h, bpp, bpl)
					candidate(imgB, h, bpp, bpl)

					if mismatch := compareImages(imgA, imgB, h, bpp, bpl); mismatch != nil {
						mismatch.Name = name
						mismatch.W, mismatch.H, mismatch.BPP, mismatch.BPL = w, h, bpp, bpl
						log.Error().
							Str("kernel", name).
							Int("filter", int(mismatch.Filter)).
							Int("w", w).Int("h", h).Int("bpp", bpp).Int("bpl", bpl).
							Int("row", mismatch.Row).Int("col", mismatch.Col).
							Uint8("expected", mismatch.Expected).Uint8("actual", mismatch.Actual).
							Msg("kernel disagreement")
						return mismatch
					}
				}
			}
		}
	}
	return nil
}

// compareImages returns the first pixel-byte disagreement between two
// already-defiltered images, or nil if they match byte-for-byte. Filter
// bytes are read (to attribute the mismatch to a filter type) but not
// compared, since §3 permits them to be left stale.
func compareImages(a, b []byte, h, bpp, bpl int) *MismatchError {
	for y := 0; y < h; y++ {
		rowA := a[y*bpl : (y+1)*bpl]
		rowB := b[y*bpl : (y+1)*bpl]
		filter := FilterType(rowA[0])
		for x := 1; x < bpl; x++ {
			if rowA[x] != rowB[x] {
				return &MismatchError{
					Filter: filter,
					Row:    y, Col: x - 1,
					Expected: rowA[x], Actual: rowB[x],
				}
			}
		}
	}
	return nil
}

func filterName(f FilterType) string {
	switch f {
	case FilterNone:
		return "none"
	case FilterSub:
		return "sub"
	case FilterUp:
		return "up"
	case FilterAvg:
		return "avg"
	case FilterPaeth:
		return "paeth"
	default:
		return "unknown"
	}
}

// benchSeed is a fixed seed for Bench's images; benchmark timings don't
// need varied content, only a stable, realistic byte distribution.
const benchSeed = 0xBEEF

// BenchOptions configures Bench, mirroring the flags
// cmd/pngdefilter-bench exposes (-w, -h, -iterations, -bpp, -filter).
// A zero value is not valid; use DefaultBenchOptions for the spec's
// defaults.
type BenchOptions struct {
	W, H       int
	Iterations int
	// BPP restricts the sweep to one value; 0 means "every supported bpp".
	BPP int
	// Filter restricts the sweep to one filter; -1 means "every filter".
	Filter int
}

// DefaultBenchOptions is the 256x256, 1000-iteration, all-filters,
// all-bpp sweep the harness runs when a caller wants no customization.
func DefaultBenchOptions() BenchOptions {
	return BenchOptions{W: 256, H: 256, Iterations: 1000, BPP: 0, Filter: -1}
}

// Bench is the micro-benchmark harness (§6): for every (filter, bpp)
// combination opts selects, it times iterations runs of fn over a
// deterministically generated w x h image, logging per-filter and total
// elapsed time at the end.
func Bench(name string, fn defilterFunc, opts BenchOptions) {
	w, h, iterations := opts.W, opts.H, opts.Iterations

	bpps := supportedBPP[:]
	if opts.BPP != 0 {
		bpps = []int{opts.BPP}
	}
	firstFilter, lastFilter := FilterNone, FilterPaeth
	if opts.Filter >= 0 {
		firstFilter, lastFilter = FilterType(opts.Filter), FilterType(opts.Filter)
	}

	perFilter := make(map[FilterType]time.Duration)
	var total time.Duration

	for _, bpp := range bpps {
		bpl := w*bpp + 1
		for filter := firstFilter; filter <= lastFilter; filter++ {
			src := genImage(benchSeed, w, h, bpp, int(filter))
			scratch := make([]byte, len(src))

			start := time.Now()
			for i := 0; i < iterations; i++ {
				copy(scratch, src)
				fn(scratch, h, bpp, bpl)
			}
			elapsed := time.Since(start)

			perFilter[filter] += elapsed
			total += elapsed
		}
	}

	for filter := firstFilter; filter <= lastFilter; filter++ {
		log.Info().
			Str("kernel", name).
			Str("filter", filterName(filter)).
			Dur("elapsed", perFilter[filter]).
			Msg("benchmark")
	}
	log.Info().Str("kernel", name).Dur("elapsed", total).Msg("benchmark total")
}
