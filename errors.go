package pngdefilter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned, wrapped with context, by the validating entry
// point DefilterChecked (and, for the geometry checks, by
// ScanlineReader.Load). Check does not return them: it reports a kernel
// disagreement as a *MismatchError. The three raw kernels (DefilterRef,
// DefilterOpt, DefilterSIMD) never return an error: their preconditions are
// documented, not checked.
var (
	ErrBufferTooShort    = errors.New("pngdefilter: buffer shorter than h*bpl")
	ErrUnsupportedBPP    = errors.New("pngdefilter: bpp not in {1,2,3,4,6,8}")
	ErrInvalidRowLength  = errors.New("pngdefilter: bpl does not equal w*bpp+1 for any integer w>=1")
	ErrInvalidFilterByte = errors.New("pngdefilter: scanline filter byte outside {0..4}")

	// ErrNotLoaded and ErrRowOutOfRange are returned by ScanlineReader,
	// mirroring the teacher's Reader.ErrNotLoaded/ErrPositionOutOfRange.
	ErrNotLoaded     = errors.New("pngdefilter: reader not loaded")
	ErrRowOutOfRange = errors.New("pngdefilter: row out of range")
)

// MismatchError describes a byte-level disagreement between two kernels for
// a single (filter, bpp, geometry) case, as produced by Check. Its fields
// mirror the (w, h, bpp, bpl, y, x, byte, expected, actual, filter_name)
// tuple the verification harness is specified to report.
type MismatchError struct {
	Name       string
	Filter     FilterType
	W, H, BPP  int
	BPL        int
	Row, Col   int
	Expected   byte
	Actual     byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"pngdefilter: %s mismatch at filter=%d bpp=%d w=%d h=%d bpl=%d row=%d col=%d: expected %#02x, got %#02x",
		e.Name, e.Filter, e.BPP, e.W, e.H, e.BPL, e.Row, e.Col, e.Expected, e.Actual,
	)
}

// rowFilterError wraps ErrInvalidFilterByte with the offending row and byte
// value, following the teacher's Reader.Load pattern of wrapping a sentinel
// with call-specific context via %w.
func rowFilterError(row int, b byte) error {
	return fmt.Errorf("%w: row %d has byte %d", ErrInvalidFilterByte, row, b)
}
