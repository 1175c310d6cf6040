package strategy

import "fmt"

// UnknownTableStrategyError reports a table entry whose value matched none of
// the recognized notations. It aborts the parse and is surfaced unchanged.
type UnknownTableStrategyError struct {
	Table string
	Value any
}

func NewUnknownTableStrategyError(table string, value any) *UnknownTableStrategyError {
	return &UnknownTableStrategyError{Table: table, Value: value}
}

func (e *UnknownTableStrategyError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("unknown table strategy notation: %v (%T)", e.Value, e.Value)
	}
	return fmt.Sprintf("table %q: unknown table strategy notation: %v (%T)", e.Table, e.Value, e.Value)
}

// UnknownColumnStrategyError reports a column entry whose value matched none
// of the recognized notations. It aborts the parse and is surfaced unchanged.
type UnknownColumnStrategyError struct {
	Table  string
	Column string
	Value  any
}

func NewUnknownColumnStrategyError(table, column string, value any) *UnknownColumnStrategyError {
	return &UnknownColumnStrategyError{Table: table, Column: column, Value: value}
}

func (e *UnknownColumnStrategyError) Error() string {
	return fmt.Sprintf("table %q column %q: unknown column strategy notation: %v (%T)",
		e.Table, e.Column, e.Value, e.Value)
}
