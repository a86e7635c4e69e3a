// Package binding adapts handlers of different shapes onto net/http.
//
// Every adapter reads the request body through a body.Reader and produces
// its response through a body.Writer, so that all handler styles observe
// the same body semantics: the same size limit, the same strict charset
// decoding and the same schema rules. Errors are mapped onto http status
// codes in one place (see StatusCode).
package binding

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/body/schema"
)

// BinderParams defines the dependencies of the binder.
type BinderParams struct {
	fx.In

	Reader *body.Reader
	Writer *body.Writer
	Log    *zap.Logger
}

// Binder creates http handlers from typed handler functions.
type Binder struct {
	reader *body.Reader
	writer *body.Writer
	log    *zap.Logger
}

// New creates a new binder.
func New(params BinderParams) *Binder {
	return &Binder{
		reader: params.Reader,
		writer: params.Writer,
		log:    params.Log.Named("binding"),
	}
}

// RawFunc handles a request with direct access to the http primitives.
// An error returned before anything was written becomes an error response.
type RawFunc func(w http.ResponseWriter, r *http.Request) error

// StreamFunc consumes the request body as a stream and writes the
// response body to out.
type StreamFunc func(ctx context.Context, in io.Reader, out io.Writer) error

// Handler receives the decoded request body and returns the response body.
// string bodies are handled as text, everything else as a structured
// record described by a schema.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// Entity is a message body together with the message headers.
type Entity[T any] struct {
	Header http.Header
	Body   T
}

// EntityHandler receives the request as an entity and returns the response
// as an entity. Response headers are copied onto the http response.
type EntityHandler[Req, Resp any] func(ctx context.Context, req *Entity[Req]) (*Entity[Resp], error)

type route struct {
	request  *schema.Schema
	response *schema.Schema
}

// Option configures a bound handler.
type Option func(*route)

// WithSchema uses s for both the request and the response body.
func WithSchema(s *schema.Schema) Option {
	return func(r *route) {
		r.request = s
		r.response = s
	}
}

// WithRequestSchema sets the schema of the request body.
func WithRequestSchema(s *schema.Schema) Option {
	return func(r *route) {
		r.request = s
	}
}

// WithResponseSchema sets the schema of the response body.
func WithResponseSchema(s *schema.Schema) Option {
	return func(r *route) {
		r.response = s
	}
}

func newRoute(opts []Option) route {
	var r route
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Raw binds a handler that works on the http primitives directly.
func (b *Binder) Raw(h RawFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker := &writeTracker{ResponseWriter: w}

		if err := h(tracker, r); err != nil {
			if tracker.written {
				b.log.Error("handler failed after writing response",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				return
			}
			b.fail(w, r, err)
		}
	})
}

// Stream binds a handler that consumes the body as a stream. The stream is
// limited to the reader's maximum body size, and the output is buffered
// and sent as a text response once the handler has returned.
func (b *Binder) Stream(h StreamFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in := http.MaxBytesReader(w, r.Body, b.reader.MaxBytes())

		var out bytes.Buffer
		if err := h(r.Context(), in, &out); err != nil {
			b.fail(w, r, err)
			return
		}

		b.respond(w, r, b.writer.WriteText(out.String()), http.StatusOK)
	})
}

// Body binds a handler that receives the decoded request body and returns
// the response body.
func Body[Req, Resp any](b *Binder, h Handler[Req, Resp], opts ...Option) http.Handler {
	rt := newRoute(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[Req](b, r, rt.request)
		if err != nil {
			b.fail(w, r, err)
			return
		}

		out, err := h(r.Context(), in)
		if err != nil {
			b.fail(w, r, err)
			return
		}

		if out == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		resp, err := b.encode(out, rt.response)
		if err != nil {
			b.fail(w, r, err)
			return
		}

		b.respond(w, r, resp, http.StatusOK)
	})
}

// Entities binds a handler that receives and returns entities.
func Entities[Req, Resp any](b *Binder, h EntityHandler[Req, Resp], opts ...Option) http.Handler {
	rt := newRoute(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[Req](b, r, rt.request)
		if err != nil {
			b.fail(w, r, err)
			return
		}

		out, err := h(r.Context(), &Entity[Req]{
			Header: r.Header.Clone(),
			Body:   *in,
		})
		if err != nil {
			b.fail(w, r, err)
			return
		}

		if out == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		resp, err := b.encode(&out.Body, rt.response)
		if err != nil {
			b.fail(w, r, err)
			return
		}

		for k, v := range out.Header {
			if k == "Content-Type" || k == "Content-Length" {
				continue
			}
			for _, vv := range v {
				w.Header().Add(k, vv)
			}
		}

		b.respond(w, r, resp, http.StatusOK)
	})
}

func decode[T any](b *Binder, r *http.Request, s *schema.Schema) (*T, error) {
	req, err := b.reader.ReadRequest(r)
	if err != nil {
		return nil, err
	}

	v := new(T)
	if text, ok := any(v).(*string); ok {
		decoded, err := req.Text()
		if err != nil {
			return nil, err
		}
		*text = decoded
		return v, nil
	}

	if s == nil {
		return nil, ErrMissingSchema
	}

	return body.Structured[T](req, s)
}

func (b *Binder) encode(v any, s *schema.Schema) (*body.Response, error) {
	if text, ok := v.(*string); ok {
		return b.writer.WriteText(*text), nil
	}

	if s == nil {
		return nil, ErrMissingSchema
	}

	return b.writer.WriteStructured(v, s)
}

func (b *Binder) respond(w http.ResponseWriter, r *http.Request, resp *body.Response, status int) {
	if err := resp.WriteTo(w, status); err != nil {
		b.log.Debug("failed to write response",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func (b *Binder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)

	log := b.log.With(
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Int("status", status),
		zap.Error(err),
	)

	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}

	b.respond(w, r, newErrorResponse(err), status)
}

// writeTracker records whether a raw handler has started its response.
type writeTracker struct {
	http.ResponseWriter
	written bool
}

func (t *writeTracker) WriteHeader(code int) {
	t.written = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *writeTracker) Write(b []byte) (int, error) {
	t.written = true
	return t.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter (supports http.ResponseController).
func (t *writeTracker) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
