//go:build avogen
// +build avogen

package main

import (
	"flag"
	"strings"

	. "github.com/mmcloughlin/avo/build"
)

var (
	component = flag.String("component", "all", "component to generate")
)

// main emits the Sub and Paeth SSE2 kernels so go:generate stays simple.
// This generator is never part of the default build (see the package-level
// avogen build tag): it exists to document, as real assembly, the 128-bit
// vector algorithms simd_generic.go implements portably on top of
// github.com/ajroetker/go-highway/hwy, the same relationship the teacher's
// own internal/avo held to its hand-written SIMD entry points.
func main() {
	flag.Parse()

	comp := strings.ToLower(*component)

	Package("github.com/sauravbiswasiupr/pngdefilter")
	ConstraintExpr("amd64")
	ConstraintExpr("!noasm")

	if comp == "sub" || comp == "all" {
		genSubKernel()
	}

	if comp == "paeth" || comp == "all" {
		genPaethKernel()
	}

	Generate()
}
