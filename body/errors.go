package body

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge is returned when a request body exceeds the
	// configured maximum size.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrAlreadyWritten is returned when a response is written twice.
	ErrAlreadyWritten = errors.New("response already written")
)

// EncodingError is returned when the raw bytes of a body are not valid
// in the declared character encoding.
type EncodingError struct {
	Charset string

	// Offset is the position of the first invalid byte, or -1 if unknown.
	Offset int

	Err error
}

func (e *EncodingError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid %s at byte %d: %v", e.Charset, e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// SchemaDecodeError is returned when a body cannot be decoded into a
// structured record.
type SchemaDecodeError struct {
	Schema string

	// Field is the JSON path of the offending field, if it could be determined.
	Field string

	Err error
}

func (e *SchemaDecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Schema, e.Err)
}

func (e *SchemaDecodeError) Unwrap() error { return e.Err }

// SchemaEncodeError is returned when a record cannot be serialized.
type SchemaEncodeError struct {
	Schema string
	Field  string
	Err    error
}

func (e *SchemaEncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Schema, e.Err)
}

func (e *SchemaEncodeError) Unwrap() error { return e.Err }
