package entity

import "strings"

// CostRange — вилка стоимости ремонта в условных денежных единицах.
type CostRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CostTable — неизменяемый справочник стоимости ремонта по типам повреждений.
// Неизвестные типы получают запасную вилку, поиск никогда не ошибается.
type CostTable struct {
	ranges   map[string]CostRange
	fallback CostRange
}

// NewCostTable создаёт справочник из копии переданных значений.
// Ключи приводятся к нижнему регистру.
func NewCostTable(ranges map[string]CostRange, fallback CostRange) *CostTable {
	copied := make(map[string]CostRange, len(ranges))
	for damageType, r := range ranges {
		copied[strings.ToLower(strings.TrimSpace(damageType))] = r
	}
	return &CostTable{
		ranges:   copied,
		fallback: fallback,
	}
}

// DefaultCostTable возвращает справочник с известными классами повреждений.
func DefaultCostTable() *CostTable {
	return NewCostTable(map[string]CostRange{
		"damaged door":        {Min: 300, Max: 1500},
		"damaged window":      {Min: 200, Max: 400},
		"damaged headlight":   {Min: 200, Max: 780},
		"damaged mirror":      {Min: 140, Max: 330},
		"dent":                {Min: 150, Max: 600},
		"damaged hood":        {Min: 300, Max: 1500},
		"damaged bumper":      {Min: 325, Max: 1000},
		"damaged wind shield": {Min: 200, Max: 500},
	}, CostRange{Min: 100, Max: 500})
}

// Lookup возвращает вилку стоимости для типа повреждения.
// Регистр не учитывается, для неизвестного типа — запасная вилка.
func (t *CostTable) Lookup(damageType string) CostRange {
	if r, ok := t.ranges[strings.ToLower(strings.TrimSpace(damageType))]; ok {
		return r
	}
	return t.fallback
}
