package main

import (
	"calcSheets/contracts"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// FormulaEvaluator evaluates the restricted calculator grammar: literals,
// cell references, + - * /, = <> < <= > >= and the closed function set
// IF, SQRT, MIN, MAX. Formulas are tokenized with the efp Excel parser.
type FormulaEvaluator struct{}

const FormulaPrefix = "="

func NewFormulaEvaluator() *FormulaEvaluator {
	return &FormulaEvaluator{}
}

// operand is an evaluated sub-expression. Range references expand to a list,
// legal only as MIN/MAX arguments.
type operand struct {
	value contracts.CellValue
	list  []contracts.CellValue
}

func (o operand) isList() bool {
	return o.list != nil
}

type formulaParser struct {
	tokens   []efp.Token
	pos      int
	snapshot contracts.CellSnapshot
}

func (e *FormulaEvaluator) Evaluate(formula string, snapshot contracts.CellSnapshot) (contracts.CellValue, error) {
	parser, err := e.newParser(formula, snapshot)
	if err != nil {
		return contracts.CellValue{}, err
	}

	result, err := parser.parseComparison()
	if err != nil {
		return contracts.CellValue{}, err
	}

	if !parser.atEnd() {
		return contracts.CellValue{}, fmt.Errorf("%w: `%s`", contracts.UnsupportedFormulaError, parser.current().TValue)
	}

	if result.isList() {
		return contracts.CellValue{}, fmt.Errorf("%w: range used outside MIN/MAX", contracts.UnsupportedFormulaError)
	}

	return result.value, nil
}

func (e *FormulaEvaluator) ExtractReferences(formula string) ([]contracts.CellAddress, []contracts.CellRange, error) {
	parser, err := e.newParser(formula, nil)
	if err != nil {
		return nil, nil, err
	}

	addresses := make([]contracts.CellAddress, 0)
	ranges := make([]contracts.CellRange, 0)

	for _, token := range parser.tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}

		if strings.Contains(token.TValue, "!") {
			return nil, nil, fmt.Errorf("%w: cross-sheet reference `%s`", contracts.UnsupportedFormulaError, token.TValue)
		}

		reference := strings.ReplaceAll(token.TValue, "$", "")
		if strings.Contains(reference, ":") {
			cellRange, rangeErr := ParseCellRange(reference)
			if rangeErr != nil {
				return nil, nil, fmt.Errorf("%w: reference `%s`", contracts.UnsupportedFormulaError, token.TValue)
			}
			ranges = append(ranges, cellRange)
		} else {
			address, addressErr := ParseCellAddress(reference)
			if addressErr != nil {
				return nil, nil, fmt.Errorf("%w: reference `%s`", contracts.UnsupportedFormulaError, token.TValue)
			}
			addresses = append(addresses, address)
		}
	}

	return addresses, ranges, nil
}

func (e *FormulaEvaluator) newParser(formula string, snapshot contracts.CellSnapshot) (*formulaParser, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(formula), FormulaPrefix)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty formula", contracts.FormulaError)
	}

	parser := efp.ExcelParser()
	raw := parser.Parse(trimmed)
	if raw == nil {
		return nil, fmt.Errorf("%w: `%s`", contracts.FormulaError, formula)
	}

	tokens := make([]efp.Token, 0, len(raw))
	for _, token := range raw {
		if token.TType == efp.TokenTypeWhitespace || token.TType == efp.TokenTypeNoop {
			continue
		}
		if token.TType == efp.TokenTypeUnknown {
			return nil, fmt.Errorf("%w: `%s`", contracts.UnsupportedFormulaError, token.TValue)
		}
		tokens = append(tokens, token)
	}

	return &formulaParser{tokens: tokens, snapshot: snapshot}, nil
}

func (p *formulaParser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *formulaParser) current() efp.Token {
	if p.atEnd() {
		return efp.Token{}
	}
	return p.tokens[p.pos]
}

func (p *formulaParser) isInfix(values ...string) bool {
	token := p.current()
	if token.TType != efp.TokenTypeOperatorInfix {
		return false
	}
	for _, value := range values {
		if token.TValue == value {
			return true
		}
	}
	return false
}

func (p *formulaParser) parseComparison() (operand, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return operand{}, err
	}

	for p.isInfix("=", "<>", "<", "<=", ">", ">=") {
		op := p.current().TValue
		p.pos++

		right, err := p.parseAddSub()
		if err != nil {
			return operand{}, err
		}

		left, err = compareOperands(op, left, right)
		if err != nil {
			return operand{}, err
		}
	}

	return left, nil
}

func (p *formulaParser) parseAddSub() (operand, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return operand{}, err
	}

	for p.isInfix("+", "-") {
		op := p.current().TValue
		p.pos++

		right, err := p.parseMulDiv()
		if err != nil {
			return operand{}, err
		}

		left, err = arithmeticOperands(op, left, right)
		if err != nil {
			return operand{}, err
		}
	}

	return left, nil
}

func (p *formulaParser) parseMulDiv() (operand, error) {
	left, err := p.parseUnary()
	if err != nil {
		return operand{}, err
	}

	for p.isInfix("*", "/") {
		op := p.current().TValue
		p.pos++

		right, err := p.parseUnary()
		if err != nil {
			return operand{}, err
		}

		left, err = arithmeticOperands(op, left, right)
		if err != nil {
			return operand{}, err
		}
	}

	return left, nil
}

func (p *formulaParser) parseUnary() (operand, error) {
	token := p.current()

	if token.TType == efp.TokenTypeOperatorPrefix {
		if token.TValue != "-" && token.TValue != "+" {
			return operand{}, fmt.Errorf("%w: `%s`", contracts.UnsupportedFormulaError, token.TValue)
		}
		p.pos++

		inner, err := p.parseUnary()
		if err != nil {
			return operand{}, err
		}
		if token.TValue == "+" {
			return inner, nil
		}
		return negateOperand(inner)
	}

	return p.parsePrimary()
}

func (p *formulaParser) parsePrimary() (operand, error) {
	token := p.current()

	switch token.TType {
	case efp.TokenTypeOperand:
		p.pos++
		return p.resolveOperand(token)

	case efp.TokenTypeSubexpression:
		if token.TSubType != efp.TokenSubTypeStart {
			break
		}
		p.pos++

		inner, err := p.parseComparison()
		if err != nil {
			return operand{}, err
		}

		closing := p.current()
		if closing.TType != efp.TokenTypeSubexpression || closing.TSubType != efp.TokenSubTypeStop {
			return operand{}, fmt.Errorf("%w: unclosed parenthesis", contracts.FormulaError)
		}
		p.pos++
		return inner, nil

	case efp.TokenTypeFunction:
		if token.TSubType != efp.TokenSubTypeStart {
			break
		}
		return p.parseFunction(token.TValue)
	}

	return operand{}, fmt.Errorf("%w: `%s`", contracts.UnsupportedFormulaError, token.TValue)
}

func (p *formulaParser) parseFunction(name string) (operand, error) {
	p.pos++

	args := make([]operand, 0, 3)

	if token := p.current(); !(token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStop) {
		for {
			arg, err := p.parseComparison()
			if err != nil {
				return operand{}, err
			}
			args = append(args, arg)

			separator := p.current()
			if separator.TType == efp.TokenTypeArgument {
				p.pos++
				continue
			}
			break
		}
	}

	closing := p.current()
	if closing.TType != efp.TokenTypeFunction || closing.TSubType != efp.TokenSubTypeStop {
		return operand{}, fmt.Errorf("%w: unclosed call of `%s`", contracts.FormulaError, name)
	}
	p.pos++

	return callFunction(name, args)
}

func (p *formulaParser) resolveOperand(token efp.Token) (operand, error) {
	switch token.TSubType {
	case efp.TokenSubTypeNumber:
		number, err := strconv.ParseFloat(token.TValue, 64)
		if err != nil {
			return operand{}, fmt.Errorf("%w: number `%s`", contracts.FormulaError, token.TValue)
		}
		return operand{value: contracts.NumberValue(number)}, nil

	case efp.TokenSubTypeText:
		return operand{value: contracts.TextValue(token.TValue)}, nil

	case efp.TokenSubTypeLogical:
		return operand{value: contracts.BoolValue(strings.EqualFold(token.TValue, "TRUE"))}, nil

	case efp.TokenSubTypeRange:
		return p.resolveReference(token.TValue)
	}

	return operand{}, fmt.Errorf("%w: `%s`", contracts.UnsupportedFormulaError, token.TValue)
}

func (p *formulaParser) resolveReference(reference string) (operand, error) {
	if strings.Contains(reference, "!") {
		return operand{}, fmt.Errorf("%w: cross-sheet reference `%s`", contracts.UnsupportedFormulaError, reference)
	}

	if p.snapshot == nil {
		return operand{}, fmt.Errorf("%w: no snapshot for reference `%s`", contracts.FormulaError, reference)
	}

	reference = strings.ReplaceAll(reference, "$", "")

	if strings.Contains(reference, ":") {
		cellRange, err := ParseCellRange(reference)
		if err != nil {
			return operand{}, fmt.Errorf("%w: reference `%s`", contracts.UnsupportedFormulaError, reference)
		}

		list := make([]contracts.CellValue, 0)
		for row := cellRange.TopLeft.Row; row <= cellRange.BottomRight.Row; row++ {
			for column := cellRange.TopLeft.Column; column <= cellRange.BottomRight.Column; column++ {
				if value, ok := p.snapshot(contracts.CellAddress{Column: column, Row: row}); ok {
					list = append(list, value)
				}
			}
		}
		return operand{list: list}, nil
	}

	address, err := ParseCellAddress(reference)
	if err != nil {
		return operand{}, fmt.Errorf("%w: reference `%s`", contracts.UnsupportedFormulaError, reference)
	}

	value, ok := p.snapshot(address)
	if !ok {
		value = contracts.EmptyValue()
	}
	return operand{value: value}, nil
}

// asNumber coerces a scalar for arithmetic: numbers pass, booleans count as
// 1/0, empty cells as 0. Text is not coerced.
func asNumber(value contracts.CellValue) (float64, bool) {
	switch value.Kind {
	case contracts.KindNumber:
		return value.Number, true
	case contracts.KindBool:
		if value.Bool {
			return 1, true
		}
		return 0, true
	case contracts.KindEmpty:
		return 0, true
	}
	return 0, false
}

func scalarPair(op string, left, right operand) (contracts.CellValue, contracts.CellValue, error) {
	if left.isList() || right.isList() {
		return contracts.CellValue{}, contracts.CellValue{}, fmt.Errorf("%w: range operand of `%s`", contracts.UnsupportedFormulaError, op)
	}
	return left.value, right.value, nil
}

func arithmeticOperands(op string, left, right operand) (operand, error) {
	leftValue, rightValue, err := scalarPair(op, left, right)
	if err != nil {
		return operand{}, err
	}

	// error markers propagate through anything referencing them
	if leftValue.IsError() {
		return operand{value: leftValue}, nil
	}
	if rightValue.IsError() {
		return operand{value: rightValue}, nil
	}

	leftNumber, leftOk := asNumber(leftValue)
	rightNumber, rightOk := asNumber(rightValue)
	if !leftOk || !rightOk {
		return operand{value: contracts.ErrorValue(contracts.ValueErrorMarker)}, nil
	}

	switch op {
	case "+":
		return operand{value: contracts.NumberValue(leftNumber + rightNumber)}, nil
	case "-":
		return operand{value: contracts.NumberValue(leftNumber - rightNumber)}, nil
	case "*":
		return operand{value: contracts.NumberValue(leftNumber * rightNumber)}, nil
	case "/":
		if rightNumber == 0 {
			return operand{value: contracts.ErrorValue(contracts.DivisionByZeroMarker)}, nil
		}
		return operand{value: contracts.NumberValue(leftNumber / rightNumber)}, nil
	}

	return operand{}, fmt.Errorf("%w: operator `%s`", contracts.UnsupportedFormulaError, op)
}

func compareOperands(op string, left, right operand) (operand, error) {
	leftValue, rightValue, err := scalarPair(op, left, right)
	if err != nil {
		return operand{}, err
	}

	if leftValue.IsError() {
		return operand{value: leftValue}, nil
	}
	if rightValue.IsError() {
		return operand{value: rightValue}, nil
	}

	leftNumber, leftOk := asNumber(leftValue)
	rightNumber, rightOk := asNumber(rightValue)

	var condition bool
	switch {
	case leftOk && rightOk:
		condition = compareFloats(op, leftNumber, rightNumber)
	case leftValue.Kind == contracts.KindText && rightValue.Kind == contracts.KindText:
		condition = compareStrings(op, leftValue.Text, rightValue.Text)
	default:
		// mixed text/number never matches except for inequality
		condition = op == "<>"
	}

	return operand{value: contracts.BoolValue(condition)}, nil
}

func compareFloats(op string, left, right float64) bool {
	switch op {
	case "=":
		return left == right
	case "<>":
		return left != right
	case "<":
		return left < right
	case "<=":
		return left <= right
	case ">":
		return left > right
	default:
		return left >= right
	}
}

func compareStrings(op string, left, right string) bool {
	switch op {
	case "=":
		return left == right
	case "<>":
		return left != right
	case "<":
		return left < right
	case "<=":
		return left <= right
	case ">":
		return left > right
	default:
		return left >= right
	}
}

func negateOperand(inner operand) (operand, error) {
	if inner.isList() {
		return operand{}, fmt.Errorf("%w: range operand of unary `-`", contracts.UnsupportedFormulaError)
	}
	if inner.value.IsError() {
		return inner, nil
	}

	number, ok := asNumber(inner.value)
	if !ok {
		return operand{value: contracts.ErrorValue(contracts.ValueErrorMarker)}, nil
	}
	return operand{value: contracts.NumberValue(-number)}, nil
}

// callFunction dispatches the closed function set. Adding a function here is
// a deliberate extension, not an open lookup.
func callFunction(name string, args []operand) (operand, error) {
	switch strings.ToUpper(name) {
	case "IF":
		return callIf(args)
	case "SQRT":
		return callSqrt(args)
	case "MIN":
		return callMinMax(name, args, func(candidate, best float64) bool { return candidate < best })
	case "MAX":
		return callMinMax(name, args, func(candidate, best float64) bool { return candidate > best })
	}

	return operand{}, fmt.Errorf("%w: function `%s`", contracts.UnsupportedFormulaError, name)
}

func callIf(args []operand) (operand, error) {
	if len(args) != 3 {
		return operand{}, fmt.Errorf("%w: IF takes 3 arguments, got %d", contracts.UnsupportedFormulaError, len(args))
	}

	condition, err := scalarArg("IF", args[0])
	if err != nil {
		return operand{}, err
	}
	if condition.IsError() {
		return operand{value: condition}, nil
	}

	truthy := false
	switch condition.Kind {
	case contracts.KindBool:
		truthy = condition.Bool
	case contracts.KindNumber:
		truthy = condition.Number != 0
	default:
		return operand{value: contracts.ErrorValue(contracts.ValueErrorMarker)}, nil
	}

	chosen := args[2]
	if truthy {
		chosen = args[1]
	}

	value, err := scalarArg("IF", chosen)
	if err != nil {
		return operand{}, err
	}
	return operand{value: value}, nil
}

func callSqrt(args []operand) (operand, error) {
	if len(args) != 1 {
		return operand{}, fmt.Errorf("%w: SQRT takes 1 argument, got %d", contracts.UnsupportedFormulaError, len(args))
	}

	value, err := scalarArg("SQRT", args[0])
	if err != nil {
		return operand{}, err
	}
	if value.IsError() {
		return operand{value: value}, nil
	}

	number, ok := asNumber(value)
	if !ok {
		return operand{value: contracts.ErrorValue(contracts.ValueErrorMarker)}, nil
	}
	if number < 0 {
		return operand{value: contracts.ErrorValue(contracts.NumErrorMarker)}, nil
	}

	return operand{value: contracts.NumberValue(math.Sqrt(number))}, nil
}

func callMinMax(name string, args []operand, better func(candidate, best float64) bool) (operand, error) {
	if len(args) == 0 {
		return operand{}, fmt.Errorf("%w: %s takes at least 1 argument", contracts.UnsupportedFormulaError, strings.ToUpper(name))
	}

	found := false
	var best float64

	for _, arg := range args {
		values := arg.list
		if !arg.isList() {
			values = []contracts.CellValue{arg.value}
		}

		for _, value := range values {
			if value.IsError() {
				return operand{value: value}, nil
			}
			if value.Kind == contracts.KindEmpty || value.Kind == contracts.KindText {
				continue
			}

			number, ok := asNumber(value)
			if !ok {
				return operand{value: contracts.ErrorValue(contracts.ValueErrorMarker)}, nil
			}
			if !found || better(number, best) {
				best = number
				found = true
			}
		}
	}

	if !found {
		return operand{value: contracts.NumberValue(0)}, nil
	}
	return operand{value: contracts.NumberValue(best)}, nil
}

func scalarArg(name string, arg operand) (contracts.CellValue, error) {
	if arg.isList() {
		return contracts.CellValue{}, fmt.Errorf("%w: range argument of `%s`", contracts.UnsupportedFormulaError, name)
	}
	return arg.value, nil
}
