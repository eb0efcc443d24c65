package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func accWith(t *testing.T, images ...[]string) *PhaseAccumulator {
	t.Helper()
	acc := NewPhaseAccumulator()
	for i, damageTypes := range images {
		imageID := string(rune('a' + i))
		require.NoError(t, acc.Append(ImageDetections{
			ImageID:      imageID,
			Observations: obs(imageID, damageTypes...),
		}))
	}
	return acc
}

func TestDiffDamages_ExcessCountsAsNew(t *testing.T) {
	// Выдача: одна вмятина, возврат: две — новой считается одна
	pickup := accWith(t, []string{"dent"})
	ret := accWith(t, []string{"dent", "dent"})

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 1, total)
	require.Len(t, breakdown, 1)
	require.Equal(t, "dent", breakdown[0].DamageType)
	require.Equal(t, 1, breakdown[0].Count)
	require.Equal(t, CostRange{Min: 150, Max: 600}, breakdown[0].CostPerUnit)
}

func TestDiffDamages_EmptyPickupCountsAllAsNew(t *testing.T) {
	pickup := NewPhaseAccumulator()
	ret := accWith(t, []string{"damaged door", "damaged mirror"})

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 2, total)
	require.Len(t, breakdown, 2)
	require.Equal(t, "damaged door", breakdown[0].DamageType)
	require.Equal(t, "damaged mirror", breakdown[1].DamageType)
}

func TestDiffDamages_EmptyReturnYieldsNothing(t *testing.T) {
	pickup := accWith(t, []string{"dent", "damaged hood"})
	ret := NewPhaseAccumulator()

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 0, total)
	require.Empty(t, breakdown)
}

func TestDiffDamages_PreexistingDamageNotReported(t *testing.T) {
	pickup := accWith(t, []string{"damaged bumper"})
	ret := accWith(t, []string{"damaged bumper"})

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 0, total)
	require.Empty(t, breakdown)
}

func TestDiffDamages_PickupOnlyTypeNeverNegative(t *testing.T) {
	// Повреждение с выдачи, не снятое на возврате, не уходит в минус
	pickup := accWith(t, []string{"dent", "dent", "damaged hood"})
	ret := accWith(t, []string{"dent", "damaged mirror"})

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 1, total)
	require.Len(t, breakdown, 1)
	require.Equal(t, "damaged mirror", breakdown[0].DamageType)
}

func TestDiffDamages_CountsSumAcrossImagesWithinPhase(t *testing.T) {
	pickup := accWith(t, []string{"dent"}, []string{"dent"})
	ret := accWith(t, []string{"dent", "dent"}, []string{"dent"})

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 1, total)
	require.Equal(t, "dent", breakdown[0].DamageType)
	require.Equal(t, 1, breakdown[0].Count)
}

func TestDiffDamages_Monotonic(t *testing.T) {
	ret := accWith(t, []string{"dent", "dent", "dent"})

	_, before := DiffDamages(accWith(t, []string{"dent"}), ret, DefaultCostTable())
	_, after := DiffDamages(accWith(t, []string{"dent", "dent"}), ret, DefaultCostTable())
	require.LessOrEqual(t, after, before)
}

func TestDiffDamages_OrderFollowsReturnFirstAppearance(t *testing.T) {
	pickup := NewPhaseAccumulator()
	ret := accWith(t, []string{"damaged mirror", "dent"}, []string{"damaged bumper"})

	breakdown, _ := DiffDamages(pickup, ret, DefaultCostTable())
	require.Len(t, breakdown, 3)
	require.Equal(t, "damaged mirror", breakdown[0].DamageType)
	require.Equal(t, "dent", breakdown[1].DamageType)
	require.Equal(t, "damaged bumper", breakdown[2].DamageType)
}

func TestDiffDamages_UnknownTypeGetsFallbackRange(t *testing.T) {
	pickup := NewPhaseAccumulator()
	ret := accWith(t, []string{"scratch on roof"})

	breakdown, total := DiffDamages(pickup, ret, DefaultCostTable())
	require.Equal(t, 1, total)
	require.Equal(t, CostRange{Min: 100, Max: 500}, breakdown[0].CostPerUnit)
}

func TestEstimateCost(t *testing.T) {
	breakdown := []DamageTypeCount{
		{DamageType: "damaged door", Count: 1, CostPerUnit: CostRange{Min: 300, Max: 1500}},
		{DamageType: "damaged mirror", Count: 2, CostPerUnit: CostRange{Min: 140, Max: 330}},
	}

	estimate := EstimateCost(breakdown)
	require.Equal(t, 580, estimate.Min)
	require.Equal(t, 2160, estimate.Max)
	require.Equal(t, 1370, estimate.Average)
}

func TestEstimateCost_AverageOverTotals(t *testing.T) {
	// Среднее по итогам, а не по позициям: (301+502)/2 = 401, без накопления
	// ошибки округления от отдельных строк
	breakdown := []DamageTypeCount{
		{DamageType: "a", Count: 1, CostPerUnit: CostRange{Min: 100, Max: 201}},
		{DamageType: "b", Count: 1, CostPerUnit: CostRange{Min: 201, Max: 301}},
	}

	estimate := EstimateCost(breakdown)
	require.Equal(t, 301, estimate.Min)
	require.Equal(t, 502, estimate.Max)
	require.Equal(t, 401, estimate.Average)
}

func TestEstimateCost_Empty(t *testing.T) {
	estimate := EstimateCost(nil)
	require.Equal(t, CostEstimate{}, estimate)
}
