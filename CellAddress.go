package main

import (
	"calcSheets/contracts"
	"fmt"
	"strings"
)

// ParseCellAddress parses an A1-style reference, case-insensitive.
// Parsing is total: anything that is not letters followed by digits fails
// with MalformedAddressError, never a silent default.
func ParseCellAddress(text string) (contracts.CellAddress, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(text))
	if trimmed == "" {
		return contracts.CellAddress{}, fmt.Errorf("%w: empty reference", contracts.MalformedAddressError)
	}

	column := 0
	index := 0
	for ; index < len(trimmed); index++ {
		char := trimmed[index]
		if char < 'A' || char > 'Z' {
			break
		}
		column = column*26 + int(char-'A'+1)
		if column > contracts.MaxColumn {
			return contracts.CellAddress{}, fmt.Errorf("%w: column in `%s`", contracts.OutOfBoundsAddressError, text)
		}
	}

	if index == 0 || index == len(trimmed) {
		return contracts.CellAddress{}, fmt.Errorf("%w: `%s`", contracts.MalformedAddressError, text)
	}

	row := 0
	for ; index < len(trimmed); index++ {
		char := trimmed[index]
		if char < '0' || char > '9' {
			return contracts.CellAddress{}, fmt.Errorf("%w: `%s`", contracts.MalformedAddressError, text)
		}
		row = row*10 + int(char-'0')
		if row > contracts.MaxRow {
			return contracts.CellAddress{}, fmt.Errorf("%w: row in `%s`", contracts.OutOfBoundsAddressError, text)
		}
	}

	if row == 0 {
		return contracts.CellAddress{}, fmt.Errorf("%w: row 0 in `%s`", contracts.MalformedAddressError, text)
	}

	return contracts.CellAddress{Column: column, Row: row}, nil
}

// ParseCellRange parses "A1:B4". A single reference is a degenerate range.
func ParseCellRange(text string) (contracts.CellRange, error) {
	first, rest, found := strings.Cut(text, ":")

	topLeft, err := ParseCellAddress(first)
	if err != nil {
		return contracts.CellRange{}, err
	}

	if !found {
		return contracts.CellRange{TopLeft: topLeft, BottomRight: topLeft}, nil
	}

	bottomRight, err := ParseCellAddress(rest)
	if err != nil {
		return contracts.CellRange{}, err
	}

	if bottomRight.Column < topLeft.Column || bottomRight.Row < topLeft.Row {
		return contracts.CellRange{}, fmt.Errorf("%w: inverted range `%s`", contracts.MalformedAddressError, text)
	}

	return contracts.CellRange{TopLeft: topLeft, BottomRight: bottomRight}, nil
}
