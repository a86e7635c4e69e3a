package server

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHttpServer_ListenServeShutdown(t *testing.T) {
	server := NewHttpServer(HttpServerParams{
		Config: HttpConfig{Host: "127.0.0.1", Port: 0},
		Handlers: []*HttpHandler{
			AsHttpHandler("GET /ping", okHandler()).Handler,
		},
		Logger: zaptest.NewLogger(t),
	})

	listener, err := server.Listen(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(listener)
	}()

	res, err := http.Get("http://" + listener.Addr().String() + "/ping")
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(data))

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}

func TestHttpServer_ListenError(t *testing.T) {
	server := NewHttpServer(HttpServerParams{
		Config: HttpConfig{Host: "127.0.0.1", Port: -1},
		Logger: zaptest.NewLogger(t),
	})

	_, err := server.Listen(context.Background())
	assert.Error(t, err)
}
