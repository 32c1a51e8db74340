package pngdefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildImage assembles h rows of bpl bytes (filter byte + pixel bytes) from
// per-row filter types and raw (already-filtered) pixel bytes, for tests
// that want to hand-construct a specific filtered image.
func buildImage(bpl int, rows []FilterType, pixels [][]byte) []byte {
	buf := make([]byte, len(rows)*bpl)
	for y, f := range rows {
		row := buf[y*bpl : (y+1)*bpl]
		row[0] = byte(f)
		copy(row[1:], pixels[y])
	}
	return buf
}

func TestDefilterRefFilterNoneIsNoop(t *testing.T) {
	assert := assert.New(t)
	const bpp, bpl, h = 3, 4, 2
	buf := buildImage(bpl, []FilterType{FilterNone, FilterNone}, [][]byte{
		{1, 2, 3}, {4, 5, 6},
	})
	want := append([]byte(nil), buf...)
	DefilterRef(buf, h, bpp, bpl)
	assert.Equal(want, buf)
}

func TestDefilterRefSubRow0(t *testing.T) {
	require := require.New(t)
	const bpp, bpl, h = 1, 2, 1
	buf := buildImage(bpl, []FilterType{FilterSub}, [][]byte{{5}})
	DefilterRef(buf, h, bpp, bpl)
	require.Equal(byte(5), buf[1])
}

func TestDefilterRefSubChainsAcrossPixels(t *testing.T) {
	assert := assert.New(t)
	const bpp, bpl, h = 1, 4, 1
	// raw deltas 1,1,1 starting from 0 reconstruct to 1,2,3.
	buf := buildImage(bpl, []FilterType{FilterSub}, [][]byte{{1, 1, 1}})
	DefilterRef(buf, h, bpp, bpl)
	assert.Equal([]byte{1, 2, 3}, buf[1:])
}

func TestDefilterRefUpUsesRowAbove(t *testing.T) {
	assert := assert.New(t)
	const bpp, bpl, h = 1, 3, 2
	buf := buildImage(bpl, []FilterType{FilterNone, FilterUp}, [][]byte{
		{10, 20}, {1, 1},
	})
	DefilterRef(buf, h, bpp, bpl)
	assert.Equal([]byte{10, 20}, buf[1:3])
	assert.Equal([]byte{11, 21}, buf[4:6])
}

func TestDefilterRefUpRow0TreatsAboveAsZero(t *testing.T) {
	assert := assert.New(t)
	const bpp, bpl, h = 1, 3, 1
	buf := buildImage(bpl, []FilterType{FilterUp}, [][]byte{{7, 8}})
	DefilterRef(buf, h, bpp, bpl)
	assert.Equal([]byte{7, 8}, buf[1:])
}

func TestDefilterRefAvgRow0ColumnHalvesAbove(t *testing.T) {
	assert := assert.New(t)
	// Row 0, column 0: above and left both implicitly zero, so the
	// reconstructed value is raw + floor(0/2) == raw.
	const bpp, bpl, h = 1, 2, 1
	buf := buildImage(bpl, []FilterType{FilterAvg}, [][]byte{{9}})
	DefilterRef(buf, h, bpp, bpl)
	assert.Equal(byte(9), buf[1])
}

func TestDefilterRefPaethRow0ColumnPassesThrough(t *testing.T) {
	assert := assert.New(t)
	// Row 0, column 0: a=b=c=0, paeth(0,0,0) == 0, so raw passes through.
	const bpp, bpl, h = 1, 2, 1
	buf := buildImage(bpl, []FilterType{FilterPaeth}, [][]byte{{42}})
	DefilterRef(buf, h, bpp, bpl)
	assert.Equal(byte(42), buf[1])
}

func TestDefilterRefRunsForEveryBPPAndFilter(t *testing.T) {
	// Every supported bpp should run through DefilterRef without panicking
	// across every filter, serving as a smoke test ahead of the full
	// cross-kernel Check in harness_test.go.
	for _, bpp := range supportedBPP {
		bpp := bpp
		t.Run("", func(t *testing.T) {
			const w, h = 5, 4
			bpl := w*bpp + 1
			for filter := FilterNone; filter <= FilterPaeth; filter++ {
				img := genImage(seedFor(int(filter), h, w, bpp), w, h, bpp, int(filter))
				DefilterRef(img, h, bpp, bpl)
			}
		})
	}
}
