package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCostTable_Lookup(t *testing.T) {
	table := DefaultCostTable()

	require.Equal(t, CostRange{Min: 300, Max: 1500}, table.Lookup("damaged door"))
	require.Equal(t, CostRange{Min: 150, Max: 600}, table.Lookup("dent"))
}

func TestCostTable_LookupCaseInsensitive(t *testing.T) {
	table := DefaultCostTable()

	require.Equal(t, CostRange{Min: 140, Max: 330}, table.Lookup("Damaged Mirror"))
	require.Equal(t, CostRange{Min: 140, Max: 330}, table.Lookup("  damaged mirror  "))
}

func TestCostTable_LookupUnknownFallsBack(t *testing.T) {
	table := DefaultCostTable()

	require.Equal(t, CostRange{Min: 100, Max: 500}, table.Lookup("scratch on roof"))
}

func TestCostTable_CustomTable(t *testing.T) {
	table := NewCostTable(map[string]CostRange{
		"Broken Axle": {Min: 1000, Max: 2000},
	}, CostRange{Min: 5, Max: 10})

	require.Equal(t, CostRange{Min: 1000, Max: 2000}, table.Lookup("broken axle"))
	require.Equal(t, CostRange{Min: 5, Max: 10}, table.Lookup("anything else"))
}
