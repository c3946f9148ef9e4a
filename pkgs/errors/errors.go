package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a failure category.
type Code string

const (
	// Input errors
	CodeParse           Code = "PARSE_ERROR"
	CodeAddressNotFound Code = "ADDRESS_NOT_FOUND"

	// Resolution errors
	CodeNoApplicableRule              Code = "NO_APPLICABLE_RULE"
	CodePreferredPrimitiveUnavailable Code = "PREFERRED_PRIMITIVE_UNAVAILABLE"
	CodeUnknownPrimitive              Code = "UNKNOWN_PRIMITIVE"

	// Execution errors
	CodeGuardMismatch         Code = "GUARD_MISMATCH"
	CodeDivisionByZero        Code = "DIVISION_BY_ZERO"
	CodeNonTerminatingDecimal Code = "NON_TERMINATING_DECIMAL"

	// Catalog errors
	CodeInvalidCatalog Code = "INVALID_CATALOG"
)

// Sentinels for errors.Is. A StepError matches a sentinel with the same code.
var (
	ErrParse                         = &StepError{Code: CodeParse}
	ErrAddressNotFound               = &StepError{Code: CodeAddressNotFound}
	ErrNoApplicableRule              = &StepError{Code: CodeNoApplicableRule}
	ErrPreferredPrimitiveUnavailable = &StepError{Code: CodePreferredPrimitiveUnavailable}
	ErrUnknownPrimitive              = &StepError{Code: CodeUnknownPrimitive}
	ErrGuardMismatch                 = &StepError{Code: CodeGuardMismatch}
	ErrDivisionByZero                = &StepError{Code: CodeDivisionByZero}
	ErrNonTerminatingDecimal         = &StepError{Code: CodeNonTerminatingDecimal}
	ErrInvalidCatalog                = &StepError{Code: CodeInvalidCatalog}
)

// StepError is a structured engine error with a code and context.
type StepError struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *StepError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap allows error unwrapping
func (e *StepError) Unwrap() error {
	return e.Cause
}

// Is matches any StepError carrying the same code.
func (e *StepError) Is(target error) bool {
	t, ok := target.(*StepError)
	return ok && t.Code == e.Code
}

// New creates a new StepError
func New(code Code, message string) *StepError {
	return &StepError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new StepError wrapping an existing error
func Wrap(code Code, message string, cause error) *StepError {
	return &StepError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *StepError) WithContext(key string, value interface{}) *StepError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *StepError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Helper functions for the engine's failure modes

// NewAddressNotFound reports an address that does not resolve in a tree.
func NewAddressNotFound(address string) *StepError {
	return New(CodeAddressNotFound, fmt.Sprintf("address %q does not resolve in this tree", address)).
		WithContext("address", address)
}

// NewNoApplicableRule reports that no catalog rule matched a click.
func NewNoApplicableRule(address string) *StepError {
	return New(CodeNoApplicableRule, fmt.Sprintf("no rule applies at %q", address)).
		WithContext("address", address)
}

// NewPreferredUnavailable reports that a caller's preferred primitive is not
// among the matches at the clicked location.
func NewPreferredUnavailable(primitive string) *StepError {
	return New(CodePreferredPrimitiveUnavailable, fmt.Sprintf("preferred primitive %q unavailable", primitive)).
		WithContext("primitive", primitive)
}

// NewUnknownPrimitive reports a primitive id with no executor. suggestion may
// be empty.
func NewUnknownPrimitive(primitive, suggestion string) *StepError {
	msg := fmt.Sprintf("unknown primitive %q", primitive)
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return New(CodeUnknownPrimitive, msg).
		WithContext("primitive", primitive).
		WithContext("suggestion", suggestion)
}

// NewGuardMismatch reports an executor precondition that failed at run time.
func NewGuardMismatch(guard, detail string) *StepError {
	return New(CodeGuardMismatch, fmt.Sprintf("guard %s not satisfied: %s", guard, detail)).
		WithContext("guard", guard)
}

// NewDivisionByZero reports a division whose divisor is zero.
func NewDivisionByZero(dividend string) *StepError {
	return New(CodeDivisionByZero, fmt.Sprintf("cannot divide %s by zero", dividend)).
		WithContext("dividend", dividend)
}

// NewNonTerminatingDecimal reports a quotient with no terminating decimal
// expansion within the precision limit.
func NewNonTerminatingDecimal(dividend, divisor string, limit int) *StepError {
	return New(CodeNonTerminatingDecimal,
		fmt.Sprintf("%s / %s does not terminate within %d decimal digits", dividend, divisor, limit)).
		WithContext("dividend", dividend).
		WithContext("divisor", divisor).
		WithContext("limit", limit)
}

// NewInvalidCatalog wraps a rule catalog load failure.
func NewInvalidCatalog(message string, cause error) *StepError {
	return Wrap(CodeInvalidCatalog, message, cause)
}

// CodeOf returns the code of the first StepError in err's chain.
func CodeOf(err error) (Code, bool) {
	var se *StepError
	if stderrors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}

// IsCode checks if an error is a StepError with the given code
func IsCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
