package main

import (
	"fmt"
	"sort"
	"strings"
)

// Error codes for every failure the simulator and the game shell surface.
const (
	CodeInvalidQubit           = "INVALID_QUBIT"
	CodeInvalidRepetitionCount = "INVALID_REPETITION_COUNT"
	CodeInvalidShotCount       = "INVALID_SHOT_COUNT"
	CodeUnnormalizedState      = "UNNORMALIZED_STATE"
	CodeUnsupportedGate        = "UNSUPPORTED_GATE"
	CodeInvalidCell            = "INVALID_CELL"
	CodeCellScanned            = "CELL_ALREADY_SCANNED"
	CodeConfigInvalid          = "CONFIG_INVALID"
)

// SimError is a structured error carrying a stable code plus optional
// key/value context. Two SimErrors match under errors.Is when their codes match.
type SimError struct {
	Code    string
	Message string
	Context map[string]string
	Cause   error
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidQubit           = &SimError{Code: CodeInvalidQubit, Message: "invalid qubit"}
	ErrInvalidRepetitionCount = &SimError{Code: CodeInvalidRepetitionCount, Message: "invalid repetition count"}
	ErrInvalidShotCount       = &SimError{Code: CodeInvalidShotCount, Message: "invalid shot count"}
	ErrUnnormalizedState      = &SimError{Code: CodeUnnormalizedState, Message: "unnormalized state"}
	ErrInvalidCell            = &SimError{Code: CodeInvalidCell, Message: "invalid cell"}
	ErrCellScanned            = &SimError{Code: CodeCellScanned, Message: "cell already scanned"}
	ErrConfigInvalid          = &SimError{Code: CodeConfigInvalid, Message: "invalid configuration"}
)

func newSimError(code, message string) *SimError {
	return &SimError{Code: code, Message: message, Context: make(map[string]string)}
}

// Error implements the error interface. Context keys are printed sorted so the
// message is stable.
func (e *SimError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code)
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, e.Context[k])
		}
		sb.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *SimError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a SimError with the same code.
func (e *SimError) Is(target error) bool {
	if t, ok := target.(*SimError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds a key/value pair and returns the error for chaining.
func (e *SimError) WithContext(key string, value any) *SimError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = fmt.Sprint(value)
	return e
}

// WithCause wraps an underlying error.
func (e *SimError) WithCause(cause error) *SimError {
	e.Cause = cause
	return e
}

func invalidQubit(message string, qubit, numQubits int) *SimError {
	return newSimError(CodeInvalidQubit, message).
		WithContext("qubit", qubit).
		WithContext("num_qubits", numQubits)
}
