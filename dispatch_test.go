package pngdefilter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefilterAgreesWithDefilterRef(t *testing.T) {
	assert := assert.New(t)
	for _, bpp := range supportedBPP {
		const w, h = 11, 5
		bpl := w*bpp + 1
		for filter := 0; filter < 6; filter++ {
			seed := seedFor(filter, h, w, bpp) + 3
			imgRef := genImage(seed, w, h, bpp, filter)
			imgDispatch := genImage(seed, w, h, bpp, filter)

			DefilterRef(imgRef, h, bpp, bpl)
			Defilter(imgDispatch, h, bpp, bpl)

			assert.Equal(imgRef, imgDispatch, "bpp=%d filter=%d", bpp, filter)
		}
	}
}

func TestDefilterCheckedRejectsUnsupportedBPP(t *testing.T) {
	require := require.New(t)
	buf := make([]byte, 10)
	err := DefilterChecked(buf, 1, 5, 10)
	require.ErrorIs(err, ErrUnsupportedBPP)
}

func TestDefilterCheckedRejectsBadRowLength(t *testing.T) {
	require := require.New(t)
	buf := make([]byte, 10)
	// bpl=10, bpp=4: (10-1)%4 != 0.
	err := DefilterChecked(buf, 1, 4, 10)
	require.ErrorIs(err, ErrInvalidRowLength)
}

func TestDefilterCheckedRejectsShortBuffer(t *testing.T) {
	require := require.New(t)
	const bpp, bpl, h = 1, 2, 3
	buf := make([]byte, bpl) // only one row's worth for h=3
	err := DefilterChecked(buf, h, bpp, bpl)
	require.ErrorIs(err, ErrBufferTooShort)
}

func TestDefilterCheckedRejectsInvalidFilterByte(t *testing.T) {
	require := require.New(t)
	const bpp, bpl, h = 1, 2, 1
	buf := []byte{5, 0}
	err := DefilterChecked(buf, h, bpp, bpl)
	require.Error(err)
	var mismatch *MismatchError
	require.True(errors.As(err, &mismatch) || errors.Is(err, ErrInvalidFilterByte))
}

func TestDefilterCheckedSucceedsOnValidInput(t *testing.T) {
	require := require.New(t)
	const bpp, bpl, h = 1, 2, 1
	buf := []byte{0, 42}
	err := DefilterChecked(buf, h, bpp, bpl)
	require.NoError(err)
	require.Equal(byte(42), buf[1])
}
