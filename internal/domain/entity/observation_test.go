package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawDetection_Normalize(t *testing.T) {
	raw := &RawDetection{
		Classes:     []string{"  Damaged Door ", "dent"},
		Confidences: []float64{90.5, 77},
		Boxes:       [][]int{{10, 20, 30, 40}, {1, 2, 3, 4}},
	}

	observations, err := raw.Normalize("img-1")
	require.NoError(t, err)
	require.Len(t, observations, 2)

	require.Equal(t, "damaged door", observations[0].DamageType)
	require.Equal(t, 90.5, observations[0].Confidence)
	require.Equal(t, "img-1", observations[0].SourceImageID)
	require.NotNil(t, observations[0].Box)
	require.Equal(t, DamageBox{X: 10, Y: 20, Width: 30, Height: 40}, *observations[0].Box)

	require.Equal(t, "dent", observations[1].DamageType)
}

func TestRawDetection_NormalizeWithoutBoxes(t *testing.T) {
	raw := &RawDetection{
		Classes:     []string{"dent"},
		Confidences: []float64{50},
	}

	observations, err := raw.Normalize("img-1")
	require.NoError(t, err)
	require.Len(t, observations, 1)
	require.Nil(t, observations[0].Box)
}

func TestRawDetection_NormalizeLengthMismatch(t *testing.T) {
	raw := &RawDetection{
		Classes:     []string{"dent", "dent"},
		Confidences: []float64{50},
	}

	_, err := raw.Normalize("img-1")
	require.ErrorIs(t, err, ErrMalformedDetection)
}

func TestRawDetection_NormalizeEmptyClass(t *testing.T) {
	raw := &RawDetection{
		Classes:     []string{"   "},
		Confidences: []float64{50},
	}

	_, err := raw.Normalize("img-1")
	require.ErrorIs(t, err, ErrMalformedDetection)
}

func TestDamageBoxCenter(t *testing.T) {
	b := DamageBox{X: 10, Y: 20, Width: 8, Height: 6}
	x, y := b.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}
