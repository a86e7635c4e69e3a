package body

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lambda-feedback/msgbody/body/schema"
)

const (
	// ContentTypeText is the content type of text responses.
	ContentTypeText = "text/plain; charset=UTF-8"

	// ContentTypeJSON is the content type of structured responses.
	ContentTypeJSON = "application/json"
)

// Writer produces response bodies. It is stateless and safe for
// concurrent use.
type Writer struct{}

// NewWriter creates a new body writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteText encodes text as UTF-8.
func (w *Writer) WriteText(text string) *Response {
	return NewResponse(ContentTypeText, []byte(strings.ToValidUTF8(text, "\uFFFD")))
}

// WriteStructured serializes record using s. Fields are written in
// declaration order.
func (w *Writer) WriteStructured(record any, s *schema.Schema) (*Response, error) {
	data, err := s.Encode(record)
	if err != nil {
		encodeErr := &SchemaEncodeError{Schema: s.Name(), Err: err}

		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			encodeErr.Field = schemaErr.Field
		}

		return nil, encodeErr
	}

	return NewResponse(ContentTypeJSON, data), nil
}

// Response is a complete response body. It is written to the transport
// at most once.
type Response struct {
	contentType string
	data        []byte
	written     bool
}

// NewResponse creates a response from already encoded bytes.
func NewResponse(contentType string, data []byte) *Response {
	return &Response{contentType: contentType, data: data}
}

// ContentType returns the content type of the response.
func (r *Response) ContentType() string { return r.contentType }

// Bytes returns the encoded body. The returned slice must not be modified.
func (r *Response) Bytes() []byte { return r.data }

func (r *Response) String() string { return string(r.data) }

// WriteTo writes headers, status and the complete body to w in one go.
func (r *Response) WriteTo(w http.ResponseWriter, status int) error {
	if r.written {
		return ErrAlreadyWritten
	}
	r.written = true

	w.Header().Set("Content-Type", r.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(r.data)))
	w.WriteHeader(status)

	_, err := w.Write(r.data)
	return err
}
