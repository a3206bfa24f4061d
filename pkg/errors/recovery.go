// Package errors provides error handling utilities for housereg.
//
// This file contains panic recovery utilities. gonum signals shape and
// factorization misuse by panicking; library entry points convert those
// panics into structured errors with debugging information.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError represents an error that was created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap exposes the panic value when it is itself an error,
// e.g. mat.ErrShape raised by gonum.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is used with defer to recover from panics and convert them into errors.
// It must be called with a pointer to the named error return value.
//
// Usage:
//
//	func SomeMethod() (err error) {
//	    defer Recover(&err, "SomeMethod")
//	    // ... method implementation ...
//	    return nil
//	}
//
// If the function already has an error, the panic information wraps it.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)

		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)",
				operation, r, *err)
		} else {
			*err = panicErr
		}
	}
}

// SafeExecute executes fn and converts any panic into a PanicError.
//
// Example:
//
//	err := SafeExecute("qr solve", func() error {
//	    return qr.SolveVecTo(&theta, false, y)
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
