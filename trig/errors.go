package trig

import "errors"

var (
	// ErrEmptyCandidateSet is returned when no baseline trigger remains after exclusions.
	ErrEmptyCandidateSet = errors.New("no eligible baseline trigger")
	// ErrZeroDenominator is returned for samples without events.
	ErrZeroDenominator = errors.New("denominator must be positive")
	// ErrUnknownVariableRange is returned when a histogram is requested for a variable
	// without a configured range.
	ErrUnknownVariableRange = errors.New("no histogram range configured")
	// ErrMissingColumn is returned by strict lookups only. Evaluation skips absent
	// interest and score columns instead.
	ErrMissingColumn = errors.New("column not in table")
	// ErrColumnLength is returned when a column does not match the table's event count.
	ErrColumnLength = errors.New("column length does not match event count")
	// ErrDenominatorMismatch is returned when a table holds more events than the denominator.
	ErrDenominatorMismatch = errors.New("table has more events than denominator")
)
