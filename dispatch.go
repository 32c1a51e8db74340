package pngdefilter

import (
	"fmt"

	"golang.org/x/sys/cpu"
)

// simdAvailable records whether the running CPU supports the baseline this
// package's SIMD kernel targets. Set once at init time, mirroring the
// teacher's initSIMDSelection (simdpack.go), which gates its own packLanes/
// unpackLanes/deltaEncode choice on cpu.X86.HasSSE2.
var simdAvailable bool

func init() {
	if cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD {
		simdAvailable = true
	}
}

// defilterFunc is the shared signature all three kernels, and Defilter
// itself, implement.
type defilterFunc func(buf []byte, h, bpp, bpl int)

// Defilter is the consumer-facing entry point: it picks DefilterSIMD when
// the running CPU supports it, DefilterOpt otherwise. DefilterSIMD falls
// back to the scalar Avg/Paeth step itself for the bpp values with no
// vector path (see avgVectorBPP/paethVectorBPP), so this choice depends
// only on CPU support, not on bpp. A decoder
// embedding this core is expected to call this rather than reaching for one
// of the three raw kernels directly, the same way a caller of the teacher's
// codec uses packLanes/unpackLanes (package-level vars initSIMDSelection
// reassigns) rather than naming a specific SIMD or scalar implementation.
func Defilter(buf []byte, h, bpp, bpl int) {
	if simdAvailable {
		DefilterSIMD(buf, h, bpp, bpl)
		return
	}
	DefilterOpt(buf, h, bpp, bpl)
}

// DefilterChecked validates preconditions before delegating to Defilter,
// returning a wrapped sentinel error instead of invoking undefined
// behavior on malformed input. This is the one validating entry point
// SPEC_FULL.md adds beyond the three raw, precondition-only kernels; it
// does not change their documented contract.
func DefilterChecked(buf []byte, h, bpp, bpl int) error {
	if !bppSupported(bpp) {
		return fmt.Errorf("%w: bpp=%d", ErrUnsupportedBPP, bpp)
	}
	if bpl < 2 || (bpl-1)%bpp != 0 {
		return fmt.Errorf("%w: bpl=%d bpp=%d", ErrInvalidRowLength, bpl, bpp)
	}
	if h < 1 {
		return fmt.Errorf("%w: h=%d", ErrInvalidRowLength, h)
	}
	if len(buf) < h*bpl {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrBufferTooShort, h*bpl, len(buf))
	}
	for y := 0; y < h; y++ {
		b := buf[y*bpl]
		if b > byte(FilterPaeth) {
			return rowFilterError(y, b)
		}
	}
	Defilter(buf, h, bpp, bpl)
	return nil
}
