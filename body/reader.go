package body

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"

	"github.com/lambda-feedback/msgbody/body/schema"
)

// DefaultMaxBytes is the body size limit used when none is configured (1 MiB).
const DefaultMaxBytes int64 = 1 << 20

// Config is the body handling configuration.
type Config struct {
	// MaxBytes is the maximum size of a request body in bytes.
	MaxBytes int64 `conf:"max_bytes"`

	// Strict rejects structured bodies that carry unknown fields.
	Strict bool `conf:"strict"`
}

// Reader reads request bodies into memory. It holds no per-request state
// and is safe for concurrent use.
type Reader struct {
	maxBytes int64
}

// NewReader creates a new body reader.
func NewReader(config Config) *Reader {
	maxBytes := config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Reader{maxBytes: maxBytes}
}

// MaxBytes returns the body size limit of the reader.
func (r *Reader) MaxBytes() int64 { return r.maxBytes }

// ReadBody drains stream into memory. A nil, empty or already closed
// stream yields an empty body. A stream longer than the configured limit
// fails with ErrPayloadTooLarge.
func (r *Reader) ReadBody(stream io.Reader, charset string) (*Request, error) {
	if stream == nil {
		return newRequest(nil, charset), nil
	}

	// read one byte past the limit to tell "exactly at" from "over"
	data, err := io.ReadAll(io.LimitReader(stream, r.maxBytes+1))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, maxBytesErr.Limit)
		case isClosed(err) && len(data) == 0:
			return newRequest(nil, charset), nil
		default:
			return nil, fmt.Errorf("read body: %w", err)
		}
	}

	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, r.maxBytes)
	}

	return newRequest(data, charset), nil
}

// ReadRequest reads the body of an http request, taking the charset from
// its Content-Type header.
func (r *Reader) ReadRequest(req *http.Request) (*Request, error) {
	return r.ReadBody(req.Body, Charset(req.Header))
}

// Charset returns the charset parameter of the Content-Type header, or
// an empty string if there is none.
func Charset(header http.Header) string {
	ct := header.Get("Content-Type")
	if ct == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}

	return params["charset"]
}

// DecodeStructured decodes raw as text and maps it onto target using s.
// Encoding errors are returned before any parsing takes place.
func DecodeStructured(raw []byte, charset string, s *schema.Schema, target any) error {
	text, err := DecodeText(raw, charset)
	if err != nil {
		return err
	}

	return decodeText(text, s, target)
}

func decodeText(text string, s *schema.Schema, target any) error {
	if err := s.Decode(text, target); err != nil {
		decodeErr := &SchemaDecodeError{Schema: s.Name(), Err: err}

		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			decodeErr.Field = schemaErr.Field
		}

		return decodeErr
	}

	return nil
}

func isClosed(err error) bool {
	return errors.Is(err, http.ErrBodyReadAfterClose) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
