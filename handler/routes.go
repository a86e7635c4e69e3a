package handler

import (
	"mime"
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/lambda-feedback/msgbody/binding"
	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/body/schema"
	"github.com/lambda-feedback/msgbody/internal/server"
)

func NewStringRoutes(h *StringHandler, b *binding.Binder) server.HttpHandlersResult {
	return server.AsHttpHandlers(
		post("/request-body-string-v1", b.Raw(h.RawV1)),
		post("/request-body-string-v2", b.Stream(h.StreamV2)),
		post("/request-body-string-v3", binding.Entities(b, h.EntityV3)),
		post("/request-body-string-v4", binding.Body(b, h.BodyV4)),
	)
}

func NewJSONRoutes(h *JSONHandler, b *binding.Binder, s *schema.Schema) server.HttpHandlersResult {
	return server.AsHttpHandlers(
		post("/request-body-json-v1", b.Raw(h.RawV1)),
		post("/request-body-json-v2", binding.Body(b, h.TextV2)),
		post("/request-body-json-v3", jsonOnly(binding.Body(b, h.BodyV3, binding.WithSchema(s)))),
		post("/request-body-json-v4", jsonOnly(binding.Entities(b, h.EntityV4, binding.WithSchema(s)))),
		post("/request-body-json-v5", jsonOnly(binding.Body(b, h.EchoV5, binding.WithSchema(s)))),
	)
}

func NewHealthRoute() server.HttpHandlerResult {
	return server.AsHttpHandler("GET /health", http.HandlerFunc(HealthHandler))
}

// HealthHandler reports that the service is up.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	//nolint:errcheck // nothing left to do if the client went away
	body.NewResponse(body.ContentTypeJSON, []byte(`{"status":"ok"}`)).WriteTo(w, http.StatusOK)
}

func post(path string, h http.Handler) *server.HttpHandler {
	return &server.HttpHandler{
		Pattern: http.MethodPost + " " + path,
		Handler: h,
	}
}

// jsonOnly rejects typed bodies that are not declared as json with 415.
// Media types compare case-insensitively, and an empty body needs no
// declared type.
func jsonOnly(h http.Handler) http.Handler {
	typed := handlers.ContentTypeHandler(h, body.ContentTypeJSON)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")

		if contentType == "" && r.ContentLength == 0 {
			h.ServeHTTP(w, r)
			return
		}

		// ParseMediaType lowercases the type and parameter names
		if mediaType, params, err := mime.ParseMediaType(contentType); err == nil {
			r.Header.Set("Content-Type", mime.FormatMediaType(mediaType, params))
		}

		typed.ServeHTTP(w, r)
	})
}
