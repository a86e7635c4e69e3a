package body_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/models"
	"github.com/lambda-feedback/msgbody/util"
)

func TestWriteText(t *testing.T) {
	writer := body.NewWriter()

	resp := writer.WriteText("ok")

	assert.Equal(t, "text/plain; charset=UTF-8", resp.ContentType())
	assert.Equal(t, []byte("ok"), resp.Bytes())
}

func TestWriteText_InvalidUTF8IsReplaced(t *testing.T) {
	writer := body.NewWriter()

	resp := writer.WriteText("a\xffb")

	assert.Equal(t, "a�b", resp.String())
}

func TestWriteStructured(t *testing.T) {
	writer := body.NewWriter()
	s := helloSchema(t)

	tests := []struct {
		name   string
		record models.HelloData
		want   string
	}{
		{
			name:   "declaration order",
			record: models.HelloData{Age: util.Ptr(20), Username: util.Ptr("hello")},
			want:   `{"username":"hello","age":20}`,
		},
		{
			name:   "html characters are not escaped",
			record: models.HelloData{Username: util.Ptr("<b>&</b>")},
			want:   `{"username":"<b>&</b>","age":null}`,
		},
		{
			name:   "absent fields are null",
			record: models.HelloData{},
			want:   `{"username":null,"age":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := writer.WriteStructured(&tt.record, s)
			require.NoError(t, err)

			assert.Equal(t, "application/json", resp.ContentType())
			assert.Equal(t, tt.want, resp.String())
		})
	}
}

func TestWriteStructured_RoundTrip(t *testing.T) {
	writer := body.NewWriter()
	s := helloSchema(t)

	records := []models.HelloData{
		{Username: util.Ptr("hello"), Age: util.Ptr(20)},
		{Username: util.Ptr("")},
		{Age: util.Ptr(-1)},
		{Username: util.Ptr(`quote " and \ slash`), Age: util.Ptr(math.MaxInt32)},
		{},
	}

	for _, record := range records {
		resp, err := writer.WriteStructured(&record, s)
		require.NoError(t, err)

		var decoded models.HelloData
		require.NoError(t, body.DecodeStructured(resp.Bytes(), "", s, &decoded))

		assert.Equal(t, record, decoded)
	}
}

func TestWriteStructured_Errors(t *testing.T) {
	writer := body.NewWriter()
	s := helloSchema(t)

	tests := []struct {
		name      string
		record    any
		wantField string
	}{
		{
			name:   "unsupported field type",
			record: struct{ Ch chan int }{Ch: make(chan int)},
		},
		{
			name:   "unsupported value",
			record: struct{ Score float64 }{Score: math.NaN()},
		},
		{
			name: "field violates schema",
			record: struct {
				Age string `json:"age"`
			}{Age: "twenty"},
			wantField: "age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := writer.WriteStructured(tt.record, s)
			assert.Nil(t, resp)

			var encodeErr *body.SchemaEncodeError
			require.ErrorAs(t, err, &encodeErr)
			assert.Equal(t, tt.wantField, encodeErr.Field)
		})
	}
}

func TestResponse_WriteTo(t *testing.T) {
	writer := body.NewWriter()
	resp := writer.WriteText("ok")

	w := httptest.NewRecorder()
	require.NoError(t, resp.WriteTo(w, http.StatusOK))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Equal(t, "text/plain; charset=UTF-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "2", w.Header().Get("Content-Length"))

	// a response is written exactly once
	second := httptest.NewRecorder()
	require.ErrorIs(t, resp.WriteTo(second, http.StatusOK), body.ErrAlreadyWritten)
	assert.Zero(t, second.Body.Len())
}
