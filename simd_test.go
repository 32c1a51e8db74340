package pngdefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefilterSIMDMatchesRefAcrossWidths(t *testing.T) {
	// Widths chosen to cross the 16-byte vector block boundary (and the
	// alignment-head boundary alignDiff computes) at several bpp values:
	// w=1 is a single pixel, smaller widths stay fully scalar, larger ones
	// exercise at least one full 16-byte block plus a scalar tail.
	widths := []int{1, 2, 3, 4, 5, 15, 16, 17, 31, 32, 33, 100}

	for _, bpp := range supportedBPP {
		bpp := bpp
		for _, w := range widths {
			w := w
			t.Run("", func(t *testing.T) {
				assert := assert.New(t)
				const h = 3
				bpl := w*bpp + 1

				for filter := 0; filter < 6; filter++ {
					seed := seedFor(filter, h, w, bpp) + 7
					imgRef := genImage(seed, w, h, bpp, filter)
					imgSimd := genImage(seed, w, h, bpp, filter)

					DefilterRef(imgRef, h, bpp, bpl)
					DefilterSIMD(imgSimd, h, bpp, bpl)

					assert.Equal(imgRef, imgSimd, "bpp=%d w=%d filter=%d", bpp, w, filter)
				}
			})
		}
	}
}

func TestDefilterSIMDRow0ImplicitZeroNeighbors(t *testing.T) {
	// Row 0 has no row above; DefilterSIMD must treat it as all-zero
	// without any special-case branch (§9's "zero scratch row" design),
	// which this compares directly against the reference kernel.
	require := require.New(t)
	const bpp, w, h = 4, 10, 1
	bpl := w*bpp + 1

	for filter := 0; filter < 5; filter++ {
		seed := seedFor(filter, h, w, bpp) + 99
		imgRef := genImage(seed, w, h, bpp, filter)
		imgSimd := genImage(seed, w, h, bpp, filter)
		// genImage always gives row 0 filter None; set the filter under test.
		imgRef[0] = byte(filter)
		imgSimd[0] = byte(filter)

		DefilterRef(imgRef, h, bpp, bpl)
		DefilterSIMD(imgSimd, h, bpp, bpl)

		require.Equal(imgRef, imgSimd, "filter=%d", filter)
	}
}

func TestAlignDiffBounds(t *testing.T) {
	assert := assert.New(t)

	p := make([]byte, 4)
	assert.Equal(4, alignDiff(p, 4), "shorter than bpp+1 returns full length")

	p = make([]byte, 64)
	head := alignDiff(p, 4)
	assert.GreaterOrEqual(head, 0)
	assert.LessOrEqual(head, 16)
}

func TestAvgVectorBPPMatchesScalarFallback(t *testing.T) {
	// Every bpp, vectorized or not, must agree with the scalar Avg path —
	// avgRow's dispatch is an optimization, not a semantics change.
	assert := assert.New(t)
	for _, bpp := range supportedBPP {
		const w, h = 9, 2
		bpl := w*bpp + 1
		seed := seedFor(3, h, w, bpp) + 1

		imgA := genImage(seed, w, h, bpp, int(FilterAvg))
		imgB := genImage(seed, w, h, bpp, int(FilterAvg))

		row := imgA[bpl : 2*bpl]
		u := imgA[1:bpl]
		avgRowScalar(row[1:], u, bpp)

		row2 := imgB[bpl : 2*bpl]
		u2 := imgB[1:bpl]
		avgRow(row2[1:], u2, bpp)

		assert.Equal(row[1:], row2[1:], "bpp=%d", bpp)
	}
}

func TestPaethVectorBPPMatchesScalarFallback(t *testing.T) {
	assert := assert.New(t)
	for _, bpp := range supportedBPP {
		const w, h = 9, 2
		bpl := w*bpp + 1
		seed := seedFor(4, h, w, bpp) + 1

		imgA := genImage(seed, w, h, bpp, int(FilterPaeth))
		imgB := genImage(seed, w, h, bpp, int(FilterPaeth))

		row := imgA[bpl : 2*bpl]
		u := imgA[1:bpl]
		paethRowScalar(row[1:], u, bpp)

		row2 := imgB[bpl : 2*bpl]
		u2 := imgB[1:bpl]
		paethRow(row2[1:], u2, bpp)

		assert.Equal(row[1:], row2[1:], "bpp=%d", bpp)
	}
}
