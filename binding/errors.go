package binding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lambda-feedback/msgbody/body"
)

var (
	ErrMissingSchema = errors.New("missing schema")
)

var wellKnownErrors = map[error]int{
	body.ErrPayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrMissingSchema:        http.StatusInternalServerError,
}

// ErrorResponse is the body of an error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StatusCode returns the http status code for the given error.
func StatusCode(err error) int {
	for known, status := range wellKnownErrors {
		if errors.Is(err, known) {
			return status
		}
	}

	var (
		encodingErr *body.EncodingError
		decodeErr   *body.SchemaDecodeError
	)

	if errors.As(err, &encodingErr) || errors.As(err, &decodeErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// newErrorResponse creates the response body for the given error.
func newErrorResponse(err error) *body.Response {
	responseErr := ErrorResponse{
		Message: err.Error(),
	}

	var decodeErr *body.SchemaDecodeError
	if errors.As(err, &decodeErr) {
		responseErr.Field = decodeErr.Field
	}

	// ErrorResponse only holds strings, marshalling cannot fail
	data, _ := json.Marshal(struct {
		Error ErrorResponse `json:"error"`
	}{
		Error: responseErr,
	})

	return body.NewResponse(body.ContentTypeJSON, data)
}
