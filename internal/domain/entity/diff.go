package entity

// DamageTypeCount — тип повреждения, признанный новым, с числом случаев
// и вилкой стоимости за единицу.
type DamageTypeCount struct {
	DamageType  string    `json:"damage_type"`
	Count       int       `json:"count"`
	CostPerUnit CostRange `json:"cost_per_unit"`
}

// DiffDamages сравнивает фазы выдачи и возврата и возвращает повреждения,
// появившиеся к возврату, вместе с их общим числом.
//
// Сопоставить отдельные повреждения между двумя съёмками с разных ракурсов
// надёжно нельзя, поэтому сравнение идёт по количеству случаев каждого типа:
// новым считается только численный избыток типа на возврате относительно
// выдачи. Типы, замеченные только на выдаче, в отчёт не попадают.
// Порядок результата — порядок первого появления типа на возврате.
func DiffDamages(pickup, ret *PhaseAccumulator, costs *CostTable) ([]DamageTypeCount, int) {
	pickupCounts := pickup.DamageTypeCounts()
	returnCounts := ret.DamageTypeCounts()

	breakdown := make([]DamageTypeCount, 0, len(returnCounts.Types()))
	total := 0
	for _, damageType := range returnCounts.Types() {
		newCount := returnCounts.Get(damageType) - pickupCounts.Get(damageType)
		if newCount <= 0 {
			continue
		}
		breakdown = append(breakdown, DamageTypeCount{
			DamageType:  damageType,
			Count:       newCount,
			CostPerUnit: costs.Lookup(damageType),
		})
		total += newCount
	}

	return breakdown, total
}

// CostEstimate — итоговая оценка стоимости ремонта новых повреждений.
type CostEstimate struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Average int `json:"average"`
}

// EstimateCost складывает стоимость по всем позициям разбивки.
// Среднее считается один раз по итоговым суммам, а не по позициям,
// чтобы ошибка округления не накапливалась.
func EstimateCost(breakdown []DamageTypeCount) CostEstimate {
	estimate := CostEstimate{}
	for _, item := range breakdown {
		estimate.Min += item.Count * item.CostPerUnit.Min
		estimate.Max += item.Count * item.CostPerUnit.Max
	}
	estimate.Average = (estimate.Min + estimate.Max) / 2
	return estimate
}
