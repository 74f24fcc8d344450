package contracts

import "strconv"

// CellValueKind tags the variant held by a CellValue.
type CellValueKind int

const (
	KindEmpty CellValueKind = iota
	KindNumber
	KindText
	KindBool
	KindError
)

// Error markers rendered into cells, spreadsheet convention.
const (
	DivisionByZeroMarker = "#DIV/0!"
	ValueErrorMarker     = "#VALUE!"
	NumErrorMarker       = "#NUM!"
)

// CellValue is the tagged variant a cell evaluates to. Exactly one of the
// payload fields is meaningful, selected by Kind.
type CellValue struct {
	Kind   CellValueKind `json:"kind"`
	Number float64       `json:"number,omitempty"`
	Text   string        `json:"text,omitempty"`
	Bool   bool          `json:"bool,omitempty"`
	Marker string        `json:"marker,omitempty"`
}

func EmptyValue() CellValue {
	return CellValue{Kind: KindEmpty}
}

func NumberValue(n float64) CellValue {
	return CellValue{Kind: KindNumber, Number: n}
}

func TextValue(s string) CellValue {
	return CellValue{Kind: KindText, Text: s}
}

func BoolValue(b bool) CellValue {
	return CellValue{Kind: KindBool, Bool: b}
}

func ErrorValue(marker string) CellValue {
	return CellValue{Kind: KindError, Marker: marker}
}

func (v CellValue) IsError() bool {
	return v.Kind == KindError
}

// Display renders the value the way a sheet shows it.
func (v CellValue) Display() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindError:
		return v.Marker
	default:
		return ""
	}
}

// Native converts the value into the plain Go value handed to API callers.
func (v CellValue) Native() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindText:
		return v.Text
	case KindBool:
		return v.Bool
	case KindError:
		return v.Marker
	default:
		return nil
	}
}
