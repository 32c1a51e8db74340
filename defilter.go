// Package pngdefilter implements the reverse of the PNG per-scanline filter
// step: given an already-inflated block of scanlines, each prefixed with a
// one-byte filter type, it reconstructs the original pixel bytes in place.
//
// Three kernels share the same external contract (see Defilter, DefilterRef,
// DefilterOpt, DefilterSIMD): a straight scalar translation of the PNG spec
// used as the test oracle, a per-bpp monomorphized scalar kernel, and a
// hand-vectorized kernel built on 128-bit byte vectors. All three MUST agree
// byte-for-byte; Check in harness.go verifies this exhaustively.
package pngdefilter

// FilterType identifies the per-scanline reconstruction transform a PNG
// encoder applied before compression.
type FilterType byte

const (
	FilterNone  FilterType = 0
	FilterSub   FilterType = 1
	FilterUp    FilterType = 2
	FilterAvg   FilterType = 3
	FilterPaeth FilterType = 4

	// filterCycle is the harness-only sentinel meaning "cycle through
	// {None,Sub,Up,Avg,Paeth} once per row", used by genImage and Check.
	filterCycle = 5
)

// supportedBPP enumerates the bytes-per-pixel values the kernels handle.
// Bit depths below one byte per pixel are out of scope.
var supportedBPP = [...]int{1, 2, 3, 4, 6, 8}

func bppSupported(bpp int) bool {
	for _, v := range supportedBPP {
		if v == bpp {
			return true
		}
	}
	return false
}

// sumMod256 adds two byte values with wraparound, matching PNG's mod-256
// reconstruction arithmetic.
func sumMod256(a, b byte) byte {
	return byte((uint32(a) + uint32(b)) & 0xFF)
}

// avg returns the FLOORED average of two byte values. PNG's Average filter
// requires floor((a+b)/2), not the rounded (a+b+1)/2 that hardware PAVGB-style
// instructions compute — using a rounded average here is a correctness bug,
// not a performance tradeoff.
func avg(a, b byte) byte {
	return byte((uint32(a) + uint32(b)) >> 1)
}

// udiv3 computes x/3 for x in [0,255] using a multiply-high by 0xAB, shifted
// to account for the implicit fractional bits (0xAB<<7 == 0x5580 is the
// 16-bit multiply-high form used by the vectorized Paeth kernel).
func udiv3(x uint32) uint32 {
	return (x * 0xAB) >> 9
}

// paethRef is the canonical branching Paeth predictor from the PNG spec.
// a is the left pixel, b is the above pixel, c is the above-left pixel.
func paethRef(a, b, c byte) byte {
	pa := absInt(int(b) - int(c))
	pb := absInt(int(a) - int(c))
	pc := absInt(int(a) + int(b) - 2*int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// paethOpt is a branchless reformulation of paethRef, algebraically
// equivalent for all (a,b,c) in [0,255]^3. It is the scalar shape of the
// same recurrence the SIMD kernel runs in 16-bit lanes (see simd_generic.go).
//
// paethOpt(a,b,c) == paethRef(b,a,c) is the form TestPaethOptMatchesPaethRef
// checks. The branchless form is symmetric in its first two arguments
// (min/max erase the distinction between "left" and "above"), and so is
// paethRef: its only tie between a and b (pa == pb <= pc) forces a == b.
func paethOpt(a, b, c byte) byte {
	lo, hi := int32(a), int32(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	d := int32(udiv3(uint32(hi - lo)))

	loC := lo - int32(c)
	hiC := hi - int32(c)

	maskHi := ^((d + loC) >> 31)
	maskLo := ^((d - hiC) >> 31)

	result := int32(c) + (hiC & maskHi) + (loC & maskLo)
	return byte(uint32(result) & 0xFF)
}
