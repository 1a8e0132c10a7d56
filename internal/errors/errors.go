package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/mlakeland/timeblock/internal/logger"
)

// ErrExternalUnavailable marks a provider call that failed or timed out.
// Callers degrade per component policy instead of aborting the run.
var ErrExternalUnavailable = errors.New("external service unavailable")

// ValidationError reports structurally malformed input. It is fatal to the
// scheduling run that encountered it; bad records are never silently repaired.
type ValidationError struct {
	Record string // identifier of the offending record
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Record, e.Reason)
}

// NewValidation creates a ValidationError for the given record.
func NewValidation(record, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Record: record, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UnresolvedRuleError reports a rule whose target matched no current task or
// project. The rule is dropped and the run continues.
type UnresolvedRuleError struct {
	Rule string
}

func (e *UnresolvedRuleError) Error() string {
	return fmt.Sprintf("rule target not found: %q", e.Rule)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
