package server

import (
	"net/http"

	"go.uber.org/fx"
)

// HttpHandler is a handler together with the mux pattern it serves.
type HttpHandler struct {
	Pattern string
	Handler http.Handler
}

type HttpHandlerResult struct {
	fx.Out

	Handler *HttpHandler `group:"handlers"`
}

type HttpHandlersResult struct {
	fx.Out

	Handlers []*HttpHandler `group:"handlers,flatten"`
}

func AsHttpHandler(
	pattern string,
	handler http.Handler,
) HttpHandlerResult {
	return HttpHandlerResult{
		Handler: &HttpHandler{
			Pattern: pattern,
			Handler: handler,
		},
	}
}

func AsHttpHandlers(handlers ...*HttpHandler) HttpHandlersResult {
	return HttpHandlersResult{Handlers: handlers}
}

// NewMux registers all handlers on a new mux and wraps it in the given
// middleware. Middleware is applied in the order given.
func NewMux(handlers []*HttpHandler, mw ...Middleware) http.Handler {
	mux := http.NewServeMux()

	for _, handler := range handlers {
		mux.Handle(handler.Pattern, handler.Handler)
	}

	var h http.Handler = mux
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}

	return h
}
