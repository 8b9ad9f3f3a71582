package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoAccounts       = errors.New("no accounts registered. Add a cost CSV with the add command first")
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("an account with this name is already registered")
	ErrNotAnalyzed      = errors.New("no aggregated data available. Run the analyze command first")
	ErrNoDataInPeriod   = errors.New("no data found within the requested period")
)

// ParseError indica uma estrutura de CSV inválida (ex.: menos de duas linhas).
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "csv parse error: " + e.Reason
}

// TransformError indica que as linhas do CSV não formam um conjunto de custos válido.
type TransformError struct {
	Account string
	Reason  string
}

func (e *TransformError) Error() string {
	if e.Account == "" {
		return "cost data transform error: " + e.Reason
	}
	return fmt.Sprintf("cost data transform error for account %q: %s", e.Account, e.Reason)
}

// ValidationError reports structurally invalid caller-supplied parameters.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
