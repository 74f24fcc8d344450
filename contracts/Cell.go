package contracts

import "errors"

// Cell is the API representation of one workbook cell.
type Cell struct {
	CellID  string `json:"cell_id"`
	Value   string `json:"value"`
	Formula string `json:"formula,omitempty"`
}

var CellNotFoundError = errors.New("cell not found")
