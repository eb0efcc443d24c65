package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func obs(imageID string, damageTypes ...string) []DamageObservation {
	observations := make([]DamageObservation, 0, len(damageTypes))
	for _, damageType := range damageTypes {
		observations = append(observations, DamageObservation{
			DamageType:    damageType,
			Confidence:    80,
			SourceImageID: imageID,
		})
	}
	return observations
}

func TestPhaseAccumulator_AppendKeepsOrder(t *testing.T) {
	acc := NewPhaseAccumulator()

	require.NoError(t, acc.Append(ImageDetections{ImageID: "a", FileName: "a.jpg", Observations: obs("a", "dent")}))
	require.NoError(t, acc.Append(ImageDetections{ImageID: "b", FileName: "b.jpg", Observations: obs("b", "damaged door", "dent")}))

	require.Equal(t, 2, acc.TotalImages())
	require.Equal(t, 3, acc.TotalDamages())

	var seen []string
	for o := range acc.AllObservations() {
		seen = append(seen, o.DamageType)
	}
	require.Equal(t, []string{"dent", "damaged door", "dent"}, seen)
}

func TestPhaseAccumulator_AllObservationsRestartable(t *testing.T) {
	acc := NewPhaseAccumulator()
	require.NoError(t, acc.Append(ImageDetections{ImageID: "a", Observations: obs("a", "dent", "dent")}))

	seq := acc.AllObservations()
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	require.Equal(t, 2, first)
	require.Equal(t, 2, second)
}

func TestPhaseAccumulator_DuplicateImageRejected(t *testing.T) {
	acc := NewPhaseAccumulator()
	require.NoError(t, acc.Append(ImageDetections{ImageID: "a", Observations: obs("a", "dent")}))

	err := acc.Append(ImageDetections{ImageID: "a", Observations: obs("a", "damaged door")})
	require.ErrorIs(t, err, ErrDuplicateImage)

	// Неудачное добавление ничего не меняет
	require.Equal(t, 1, acc.TotalImages())
	require.Equal(t, 1, acc.TotalDamages())
}

func TestPhaseAccumulator_DamageTypeCounts(t *testing.T) {
	acc := NewPhaseAccumulator()
	require.NoError(t, acc.Append(ImageDetections{ImageID: "a", Observations: obs("a", "dent", "damaged door")}))
	require.NoError(t, acc.Append(ImageDetections{ImageID: "b", Observations: obs("b", "dent")}))

	counts := acc.DamageTypeCounts()
	require.Equal(t, []string{"dent", "damaged door"}, counts.Types())
	require.Equal(t, 2, counts.Get("dent"))
	require.Equal(t, 1, counts.Get("damaged door"))
	require.Equal(t, 0, counts.Get("damaged mirror"))
	require.Equal(t, 3, counts.Total())
}

func TestDamageTypeCounts_OrderIsFirstAppearance(t *testing.T) {
	counts := NewDamageTypeCounts()
	counts.Add("damaged mirror", 1)
	counts.Add("dent", 1)
	counts.Add("damaged mirror", 1)

	require.Equal(t, []string{"damaged mirror", "dent"}, counts.Types())
	require.Equal(t, 2, counts.Get("damaged mirror"))
}
