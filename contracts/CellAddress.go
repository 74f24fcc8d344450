package contracts

import (
	"errors"
	"strconv"
)

// CellAddress is a 1-based spreadsheet coordinate.
type CellAddress struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// CellRange is an inclusive rectangle, TopLeft <= BottomRight on both axes.
type CellRange struct {
	TopLeft     CellAddress `json:"top_left"`
	BottomRight CellAddress `json:"bottom_right"`
}

// Excel grid limits, used as default workbook bounds.
const (
	MaxColumn = 16384
	MaxRow    = 1048576
)

var MalformedAddressError = errors.New("malformed cell address")

var OutOfBoundsAddressError = errors.New("cell address out of workbook bounds")

// String serializes the address as column letters followed by the row number,
// e.g. {2, 14} -> "B14". Column letters use bijective base-26 (A=1 .. Z=26, AA=27).
func (a CellAddress) String() string {
	letters := make([]byte, 0, 3)
	column := a.Column
	for column > 0 {
		column--
		letters = append(letters, byte('A'+column%26))
		column /= 26
	}

	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}

	return string(letters) + strconv.Itoa(a.Row)
}

func (r CellRange) String() string {
	return r.TopLeft.String() + ":" + r.BottomRight.String()
}

// Contains reports whether address lies inside the range, borders included.
func (r CellRange) Contains(address CellAddress) bool {
	return address.Column >= r.TopLeft.Column && address.Column <= r.BottomRight.Column &&
		address.Row >= r.TopLeft.Row && address.Row <= r.BottomRight.Row
}
