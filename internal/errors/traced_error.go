package errors

import (
	"fmt"
	"runtime/debug"
	"time"
)

// TracedError is an AppError captured together with the stack and the request it happened in
type TracedError struct {
	*AppError
	Stack     string
	Timestamp time.Time
	Context   ErrorContext
}

// ErrorContext identifies the request an error belongs to
type ErrorContext struct {
	RequestID string
	UserID    string
	Path      string
	Method    string
}

// NewTracedError captures the current stack; non-AppErrors become ErrInternal
func NewTracedError(err error, ctx ErrorContext) *TracedError {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = Wrap(ErrInternal, "Internal Server Error", err)
	}

	return &TracedError{
		AppError:  appErr,
		Stack:     string(debug.Stack()),
		Timestamp: time.Now(),
		Context:   ctx,
	}
}

// FromPanic converts a recovered panic value into a TracedError
func FromPanic(r interface{}, ctx ErrorContext) *TracedError {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}
	return NewTracedError(err, ctx)
}

func (e *TracedError) Unwrap() error {
	return e.AppError
}
