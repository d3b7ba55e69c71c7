package overlay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-overlay/internal/domain/entity"
)

func TestDecode(t *testing.T) {
	img, err := Decode(solidPNG(t, 12, 7))
	require.NoError(t, err)
	require.Equal(t, 12, img.Bounds().Dx())
	require.Equal(t, 7, img.Bounds().Dy())

	_, err = Decode([]byte{0x89, 'P', 'N', 'G'})
	require.True(t, errors.Is(err, entity.ErrDecodeFailure))

	_, err = Decode(nil)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))
}

func TestDecodeSize(t *testing.T) {
	w, h, err := DecodeSize(solidPNG(t, 30, 20))
	require.NoError(t, err)
	require.Equal(t, 30, w)
	require.Equal(t, 20, h)

	_, _, err = DecodeSize([]byte("garbage"))
	require.True(t, errors.Is(err, entity.ErrDecodeFailure))
}
