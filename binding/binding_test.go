package binding

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/body/schema"
	"github.com/lambda-feedback/msgbody/models"
	"github.com/lambda-feedback/msgbody/util"
)

func newBinder(t *testing.T, log *zap.Logger) *Binder {
	t.Helper()

	if log == nil {
		log = zaptest.NewLogger(t)
	}

	return New(BinderParams{
		Reader: body.NewReader(body.Config{MaxBytes: 64}),
		Writer: body.NewWriter(),
		Log:    log,
	})
}

func helloSchema(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := schema.NewHelloData()
	require.NoError(t, err)

	return s
}

func serve(h http.Handler, contentType, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestRaw(t *testing.T) {
	b := newBinder(t, nil)

	h := b.Raw(func(w http.ResponseWriter, r *http.Request) error {
		return b.writer.WriteText("raw").WriteTo(w, http.StatusAccepted)
	})

	w := serve(h, "", "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "raw", w.Body.String())
}

func TestRaw_ErrorBeforeWrite(t *testing.T) {
	b := newBinder(t, nil)

	h := b.Raw(func(http.ResponseWriter, *http.Request) error {
		return body.ErrPayloadTooLarge
	})

	w := serve(h, "", "")

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":{"message":"payload too large"}}`, w.Body.String())
}

func TestRaw_ErrorAfterWrite(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := newBinder(t, zap.New(core))

	h := b.Raw(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "partial")
		return errors.New("boom")
	})

	w := serve(h, "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("handler failed after writing response").Len())
}

func TestStream(t *testing.T) {
	b := newBinder(t, nil)

	h := b.Stream(func(_ context.Context, in io.Reader, out io.Writer) error {
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		_, err = out.Write([]byte(strings.ToUpper(string(data))))
		return err
	})

	w := serve(h, "text/plain", "hello")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body.ContentTypeText, w.Header().Get("Content-Type"))
	assert.Equal(t, "HELLO", w.Body.String())
}

func TestStream_Limit(t *testing.T) {
	b := newBinder(t, nil)

	h := b.Stream(func(_ context.Context, in io.Reader, out io.Writer) error {
		req, err := b.reader.ReadBody(in, "")
		if err != nil {
			return err
		}
		_, err = out.Write(req.Bytes())
		return err
	})

	w := serve(h, "text/plain", strings.Repeat("x", 65))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.NotContains(t, w.Body.String(), "xxx")
}

func TestBody_Text(t *testing.T) {
	b := newBinder(t, nil)

	h := Body(b, func(_ context.Context, req *string) (*string, error) {
		return util.Ptr(strings.ToUpper(*req)), nil
	})

	w := serve(h, "text/plain; charset=UTF-8", "hello")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body.ContentTypeText, w.Header().Get("Content-Type"))
	assert.Equal(t, "HELLO", w.Body.String())
}

func TestBody_Structured(t *testing.T) {
	b := newBinder(t, nil)

	h := Body(b, func(_ context.Context, req *models.HelloData) (*models.HelloData, error) {
		*req.Age++
		return req, nil
	}, WithSchema(helloSchema(t)))

	w := serve(h, "application/json", `{"username":"hello","age":"20"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body.ContentTypeJSON, w.Header().Get("Content-Type"))
	assert.Equal(t, `{"username":"hello","age":21}`, w.Body.String())
}

func TestBody_NilResponse(t *testing.T) {
	b := newBinder(t, nil)

	h := Body(b, func(context.Context, *string) (*string, error) {
		return nil, nil
	})

	w := serve(h, "", "ignored")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBody_MissingSchema(t *testing.T) {
	tests := []struct {
		name string
		h    http.Handler
	}{
		{
			name: "request",
			h: Body(newBinder(t, nil), func(context.Context, *models.HelloData) (*string, error) {
				return util.Ptr("ok"), nil
			}),
		},
		{
			name: "response",
			h: Body(newBinder(t, nil), func(context.Context, *string) (*models.HelloData, error) {
				return &models.HelloData{}, nil
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.h, "application/json", `{}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Body.String(), ErrMissingSchema.Error())
		})
	}
}

func TestBody_HandlerError(t *testing.T) {
	b := newBinder(t, nil)

	h := Body(b, func(context.Context, *string) (*string, error) {
		return nil, &body.SchemaDecodeError{Schema: "hello-data", Field: "age", Err: errors.New("bad")}
	})

	w := serve(h, "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"age"`)
}

func TestBody_ResponseSchemaViolation(t *testing.T) {
	b := newBinder(t, nil)

	type wrongAge struct {
		Age string `json:"age"`
	}

	h := Body(b, func(context.Context, *string) (*wrongAge, error) {
		return &wrongAge{Age: "twenty"}, nil
	}, WithResponseSchema(helloSchema(t)))

	w := serve(h, "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "twenty\"}")
}

func TestEntities(t *testing.T) {
	b := newBinder(t, nil)

	var seen http.Header

	h := Entities(b, func(_ context.Context, req *Entity[string]) (*Entity[string], error) {
		seen = req.Header
		return &Entity[string]{
			Header: http.Header{
				"X-Echo":       []string{req.Body},
				"Content-Type": []string{"text/html"},
			},
			Body: "ok",
		}, nil
	})

	w := serve(h, "text/plain", "hello")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain", seen.Get("Content-Type"))
	assert.Equal(t, "hello", w.Header().Get("X-Echo"))
	assert.Equal(t, body.ContentTypeText, w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestEntities_DecodeError(t *testing.T) {
	b := newBinder(t, nil)

	called := false
	h := Entities(b, func(context.Context, *Entity[models.HelloData]) (*Entity[string], error) {
		called = true
		return nil, nil
	}, WithSchema(helloSchema(t)))

	w := serve(h, "application/json", `{"age":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}
