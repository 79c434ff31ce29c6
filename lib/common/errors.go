package common

import "fmt"

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint8

const (
	ErrCUnknown          ErrCode = iota // 0: unclassified failure
	ErrCCorruption                      // 1: offsets, indices or self-index checks failed
	ErrCSchemaMismatch                  // 2: decoded field is missing from the blueprint or has another type
	ErrCEncode                          // 3: a field or node could not be encoded
	ErrCInvalidOperation                // 4: the caller asked for something the data does not support
)

func (c ErrCode) String() string {
	switch c {
	case ErrCCorruption:
		return "Corruption"
	case ErrCSchemaMismatch:
		return "SchemaMismatch"
	case ErrCEncode:
		return "Encode"
	case ErrCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps an error code and a message. Errors with an empty message act as
// sentinels: errors.Is(err, ErrCorruption) matches every corruption error.
type Error struct {
	Code ErrCode // The error class
	Msg  string  // The error message
	Err  error   // Optional cause
}

// Sentinels for errors.Is
var (
	ErrCorruption       = &Error{Code: ErrCCorruption}
	ErrSchemaMismatch   = &Error{Code: ErrCSchemaMismatch}
	ErrEncode           = &Error{Code: ErrCEncode}
	ErrInvalidOperation = &Error{Code: ErrCInvalidOperation}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("csav error (%s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("csav error (%s): %s", e.Code, e.Msg)
}

// Unwrap returns the cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same code when target is a sentinel (no message).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Msg == "" && t.Err == nil {
		return t.Code == e.Code
	}
	return t == e
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Corruptionf creates a corruption error.
func Corruptionf(format string, args ...interface{}) *Error {
	return NewError(ErrCCorruption, fmt.Sprintf(format, args...))
}

// SchemaMismatchf creates a schema mismatch error.
func SchemaMismatchf(format string, args ...interface{}) *Error {
	return NewError(ErrCSchemaMismatch, fmt.Sprintf(format, args...))
}

// Encodef creates an encode error.
func Encodef(format string, args ...interface{}) *Error {
	return NewError(ErrCEncode, fmt.Sprintf(format, args...))
}

// WrapCorruption turns a low level read error (e.g. packing.ErrShortRead) into a corruption error.
func WrapCorruption(err error, format string, args ...interface{}) *Error {
	e := Corruptionf(format, args...)
	e.Err = err
	return e
}
