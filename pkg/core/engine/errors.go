package engine

import "fmt"

// ValidationError rejects a whole calculation request with a specific
// reason. Nothing is partially computed once one is returned.
//
// Degenerate numerics (zero denominators in CCE/CI/LCOP, non-positive
// weighted energy content) are deliberately NOT validation errors; they
// are resolved by the documented epsilon guards and fallbacks in the
// layer functions, which are part of the numeric contract.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// Validationf builds a ValidationError with a formatted reason.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
