package weekgo

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrOverlap         = errors.New("task overlaps")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCorruptData     = errors.New("corrupt data")
	ErrIO              = errors.New("io failure")

	// ErrNoPlan is returned by a PlanRepo that has never been saved to.
	ErrNoPlan = errors.New("no saved plan")
)

// ValidationError reports malformed user input. Nothing is mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// OverlapError carries the existing task a candidate collided with.
type OverlapError struct {
	Candidate Task
	Conflict  Task
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s overlaps %s on %s", e.Candidate, e.Conflict, e.Conflict.Weekday)
}

func (e *OverlapError) Is(target error) bool { return target == ErrOverlap }

// CorruptDataError reports a persisted plan that could not be read back.
type CorruptDataError struct {
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt plan data: %v", e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

func corrupt(format string, args ...any) error {
	return &CorruptDataError{Err: fmt.Errorf(format, args...)}
}

// IoError reports a failed write of the plan. Retrying is up to the caller.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

func (e *IoError) Is(target error) bool { return target == ErrIO }
