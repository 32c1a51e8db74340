// Command pngdefilter-bench runs the package's benchmark harness against
// each of the three kernels and prints their timings, matching the
// teacher's preference for a flag-only CLI over a framework the teacher
// never imports.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sauravbiswasiupr/pngdefilter"
)

func main() {
	w := flag.Int("w", 256, "image width in pixels")
	h := flag.Int("h", 256, "image height in pixels")
	iterations := flag.Int("iterations", 1000, "iterations per (filter, bpp) pair")
	bpp := flag.Int("bpp", 0, "restrict to one bytes-per-pixel value (0 = all supported)")
	filter := flag.Int("filter", -1, "restrict to one filter type 0-4 (-1 = all)")
	kernel := flag.String("kernel", "all", "kernel to benchmark: ref, opt, simd, or all")
	flag.Parse()

	opts := pngdefilter.BenchOptions{
		W: *w, H: *h, Iterations: *iterations, BPP: *bpp, Filter: *filter,
	}

	kernels := map[string]func([]byte, int, int, int){
		"ref":  pngdefilter.DefilterRef,
		"opt":  pngdefilter.DefilterOpt,
		"simd": pngdefilter.DefilterSIMD,
	}

	names := []string{*kernel}
	if *kernel == "all" {
		names = []string{"ref", "opt", "simd"}
	}

	for _, name := range names {
		fn, ok := kernels[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "pngdefilter-bench: unknown kernel %q\n", name)
			os.Exit(1)
		}
		pngdefilter.Bench(name, fn, opts)
	}
}
