package main

import (
	"calcSheets/contracts"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseCellAddress(t *testing.T) {
	t.Run("valid_addresses", func(t *testing.T) {
		testCases := map[string]contracts.CellAddress{
			"A1":      {Column: 1, Row: 1},
			"B14":     {Column: 2, Row: 14},
			"Z9":      {Column: 26, Row: 9},
			"AA27":    {Column: 27, Row: 27},
			"AZ1":     {Column: 52, Row: 1},
			"BA2":     {Column: 53, Row: 2},
			"b4":      {Column: 2, Row: 4},
			"  D6  ":  {Column: 4, Row: 6},
			"XFD1048576": {Column: contracts.MaxColumn, Row: contracts.MaxRow},
		}

		for text, expected := range testCases {
			actual, err := ParseCellAddress(text)
			assert.NoError(t, err, text)
			assert.Equal(t, expected, actual, text)
		}
	})

	t.Run("round_trip", func(t *testing.T) {
		addresses := []contracts.CellAddress{
			{Column: 1, Row: 1},
			{Column: 26, Row: 3},
			{Column: 27, Row: 100},
			{Column: 702, Row: 7},
			{Column: 703, Row: 1048576},
		}

		for _, address := range addresses {
			parsed, err := ParseCellAddress(address.String())
			assert.NoError(t, err)
			assert.Equal(t, address, parsed)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{"", "B", "14", "B-4", "4B", "B4C", "B4.5", "B 4"} {
			_, err := ParseCellAddress(text)
			assert.ErrorIs(t, err, contracts.MalformedAddressError, text)
		}
	})

	t.Run("row_zero_is_malformed", func(t *testing.T) {
		_, err := ParseCellAddress("B0")
		assert.ErrorIs(t, err, contracts.MalformedAddressError)
	})

	t.Run("out_of_bounds", func(t *testing.T) {
		for _, text := range []string{"XFE1", "A1048577"} {
			_, err := ParseCellAddress(text)
			assert.ErrorIs(t, err, contracts.OutOfBoundsAddressError, text)
		}
	})
}

func TestParseCellRange(t *testing.T) {
	t.Run("rectangle", func(t *testing.T) {
		actual, err := ParseCellRange("B2:D5")
		assert.NoError(t, err)
		assert.Equal(t, contracts.CellRange{
			TopLeft:     contracts.CellAddress{Column: 2, Row: 2},
			BottomRight: contracts.CellAddress{Column: 4, Row: 5},
		}, actual)
	})

	t.Run("single_cell_degenerate_range", func(t *testing.T) {
		actual, err := ParseCellRange("C3")
		assert.NoError(t, err)
		assert.Equal(t, actual.TopLeft, actual.BottomRight)
	})

	t.Run("inverted", func(t *testing.T) {
		_, err := ParseCellRange("D5:B2")
		assert.ErrorIs(t, err, contracts.MalformedAddressError)
	})

	t.Run("malformed_half", func(t *testing.T) {
		_, err := ParseCellRange("B2:xx")
		assert.ErrorIs(t, err, contracts.MalformedAddressError)
	})
}

func TestCellRangeContains(t *testing.T) {
	cellRange := contracts.CellRange{
		TopLeft:     contracts.CellAddress{Column: 2, Row: 2},
		BottomRight: contracts.CellAddress{Column: 4, Row: 5},
	}

	assert.True(t, cellRange.Contains(contracts.CellAddress{Column: 2, Row: 2}))
	assert.True(t, cellRange.Contains(contracts.CellAddress{Column: 4, Row: 5}))
	assert.True(t, cellRange.Contains(contracts.CellAddress{Column: 3, Row: 4}))
	assert.False(t, cellRange.Contains(contracts.CellAddress{Column: 1, Row: 3}))
	assert.False(t, cellRange.Contains(contracts.CellAddress{Column: 3, Row: 6}))
}
