package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetection_Label(t *testing.T) {
	d := Detection{Class: "defect", Confidence: 0.87, BBox: BBox{100, 100, 300, 300}}
	require.Equal(t, "defect (87%)", d.Label())

	d.Confidence = 0.005
	require.Equal(t, "defect (1%)", d.Label())

	d.Confidence = 1
	require.Equal(t, "defect (100%)", d.Label())
}

func TestBBox_Geometry(t *testing.T) {
	b := BBox{10, 20, 40, 20}
	require.Equal(t, 30.0, b.Width())
	require.Equal(t, 0.0, b.Height())
}

func TestDetection_Validate(t *testing.T) {
	valid := Detection{Class: "bean", Confidence: 0.5, BBox: BBox{0, 0, 10, 10}}
	require.NoError(t, valid.Validate())

	cases := map[string]Detection{
		"empty class":   {Confidence: 0.5, BBox: BBox{0, 0, 1, 1}},
		"confidence>1":  {Class: "a", Confidence: 1.2},
		"negative conf": {Class: "a", Confidence: -0.1},
		"nan bbox":      {Class: "a", Confidence: 0.1, BBox: BBox{math.NaN(), 0, 1, 1}},
		"inverted x":    {Class: "a", Confidence: 0.1, BBox: BBox{5, 0, 1, 1}},
		"inverted y":    {Class: "a", Confidence: 0.1, BBox: BBox{0, 5, 1, 1}},
	}
	for name, d := range cases {
		err := d.Validate()
		require.Error(t, err, name)
		require.True(t, errors.Is(err, ErrInvalidDetection), name)
	}
}
