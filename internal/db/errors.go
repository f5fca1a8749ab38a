package db

import "fmt"

// Op names the kind of storage operation that failed.
type Op int

const (
	OpInit Op = iota + 1
	OpRead
	OpWrite
)

func (o Op) String() string {
	switch o {
	case OpInit:
		return "init"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error wraps a storage engine failure with the operation that caused it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s error", e.Op)
	}
	return fmt.Sprintf("store %s error: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Op when the target carries no cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == e.Op && t.Err == nil
}

var (
	ErrInit  = &Error{Op: OpInit}
	ErrRead  = &Error{Op: OpRead}
	ErrWrite = &Error{Op: OpWrite}
)

func initErr(err error) error  { return &Error{Op: OpInit, Err: err} }
func readErr(err error) error  { return &Error{Op: OpRead, Err: err} }
func writeErr(err error) error { return &Error{Op: OpWrite, Err: err} }
