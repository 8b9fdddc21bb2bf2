// Package status defines the error taxonomy used across the engine.
//
// It mirrors the exception-code pattern used by govship's CGo bindings
// (a small enum with an IsNone check and a lazily-built error), adapted to
// a pure-Go, dependency-free error type carrying one of a fixed set of
// coarse kinds.
package status

import (
	"errors"
	"fmt"
)

// Code names a coarse error kind. The zero value, CodeNone, indicates
// success and is never wrapped in a Status.
type Code int

const (
	CodeNone Code = iota
	CodeParse
	CodeInput
	CodeCompatibility
	CodeResource
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeParse:
		return "parse error"
	case CodeInput:
		return "input error"
	case CodeCompatibility:
		return "compatibility error"
	case CodeResource:
		return "resource error"
	case CodeInternal:
		return "internal error"
	default:
		return "unknown error"
	}
}

// IsNone reports whether c represents success.
func (c Code) IsNone() bool { return c == CodeNone }

// Status is an error carrying a coarse Code alongside a human-readable
// message.
type Status struct {
	Code Code
	Msg  string
}

func (s *Status) Error() string { return s.Msg }

// New builds a Status with a formatted message, in the style of
// fmt.Errorf.
func New(code Code, format string, args ...any) *Status {
	return &Status{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches code to an existing error by copying its message; the
// original error value is not kept, so errors.Is/As cannot reach it
// through the returned Status.
func Wrap(code Code, err error) *Status {
	if err == nil {
		return nil
	}
	return &Status{Code: code, Msg: err.Error()}
}

// CodeOf extracts the Code from err if it is (or wraps) a *Status,
// otherwise returns CodeInternal for any non-nil error.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}
	var s *Status
	if !errors.As(err, &s) {
		return CodeInternal
	}
	return s.Code
}

// Reason names a fatal condition; exitCodes below maps each Reason to its
// process exit code, mirroring errors_table[] and the exit(...) call sites
// of the reference driver's main(). Codes -7 and -8 are reserved slots in
// the original table that this engine never produces, so no Reason and no
// exitCodes entry exists for them.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonTokenParse
	ReasonEmptyMask
	ReasonOpenSource1
	ReasonOpenSource2
	ReasonEmptyFile
	ReasonChromaMismatch
	ReasonFamilyMismatch
	ReasonInterlaceMismatch
	ReasonAllocFailure
	ReasonScheduleConflict
)

var exitCodes = map[Reason]int{
	ReasonNone:              0,
	ReasonTokenParse:        -1,
	ReasonEmptyMask:         -2,
	ReasonOpenSource1:       -3,
	ReasonOpenSource2:       -4,
	ReasonEmptyFile:         -6,
	ReasonChromaMismatch:    -9,
	ReasonFamilyMismatch:    -10,
	ReasonInterlaceMismatch: -11,
	ReasonAllocFailure:      -13,
	ReasonScheduleConflict:  -14,
}

// ReasonedError pairs an error with the fixed Reason that produced it, so
// the CLI entrypoint can look up its exit code without re-classifying the
// error text.
type ReasonedError struct {
	Reason Reason
	Err    error
}

func (r *ReasonedError) Error() string { return r.Err.Error() }
func (r *ReasonedError) Unwrap() error { return r.Err }

// Fail constructs a ReasonedError, the standard way components report a
// fatal condition that must map to a specific process exit code.
func Fail(reason Reason, format string, args ...any) *ReasonedError {
	return &ReasonedError{Reason: reason, Err: fmt.Errorf(format, args...)}
}

// ExitCode returns the process exit code for err. Success (nil) is 0;
// a *ReasonedError resolves through the fixed table; any other non-nil
// error is treated as an unclassified internal failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var re *ReasonedError
	if as, ok := err.(*ReasonedError); ok {
		re = as
	} else {
		return -1
	}
	if code, ok := exitCodes[re.Reason]; ok {
		return code
	}
	return -1
}
