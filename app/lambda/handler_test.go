package lambda

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/msgbody/internal/server"
)

func newTestHandler(t *testing.T, source ProxySource) *LambdaHandler {
	t.Helper()

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})

	return NewLambdaHandler(LambdaHandlerParams{
		Config: Config{ProxySource: source},
		Handlers: []*server.HttpHandler{
			{Pattern: "POST /echo", Handler: echo},
		},
		Context: context.Background(),
		Logger:  zaptest.NewLogger(t),
	})
}

func TestGetProxyFunction(t *testing.T) {
	tests := []struct {
		source  ProxySource
		wantErr bool
	}{
		{ProxySourceApiGatewayV1, false},
		{ProxySourceApiGatewayV2, false},
		{ProxySourceAlb, false},
		{ProxySource("SQS"), true},
	}

	for _, tt := range tests {
		t.Run(tt.source.String(), func(t *testing.T) {
			fn, err := newTestHandler(t, tt.source).getProxyFunction()
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid proxy source")
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}

func TestStart_InvalidProxySource(t *testing.T) {
	h := newTestHandler(t, ProxySource(""))
	defer h.Shutdown()

	assert.Error(t, h.Start())
}

func TestProxy_ApiGatewayV2(t *testing.T) {
	fn, err := newTestHandler(t, ProxySourceApiGatewayV2).getProxyFunction()
	require.NoError(t, err)

	proxy, ok := fn.(func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error))
	require.True(t, ok)

	res, err := proxy(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/echo",
		Headers: map[string]string{"content-type": "text/plain"},
		Body:    "hello",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "example.com",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodPost,
				Path:   "/echo",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "hello", res.Body)
}
