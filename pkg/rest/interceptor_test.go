package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cordialsys/xbridge/pkg/rest"
	"github.com/stretchr/testify/require"
)

func TestHttpInterceptor(t *testing.T) {
	require := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value": 5}`))
	}))
	defer server.Close()

	seen := []string{}
	interceptor := rest.NewHttpInterceptor(func(req *http.Request, body []byte) []byte {
		seen = append(seen, req.URL.Path)
		return []byte(`{"value": 6}`)
	})
	client := rest.NewClient("test", server.URL, &http.Client{Transport: interceptor}, nil)

	var resp struct {
		Value int `json:"value"`
	}
	require.NoError(client.Get(context.Background(), "/a", &resp))
	require.Equal(5, resp.Value)
	require.Empty(seen)

	interceptor.Enable()
	require.True(interceptor.Enabled())
	require.NoError(client.Get(context.Background(), "/b", &resp))
	require.Equal(6, resp.Value)
	require.Equal([]string{"/b"}, seen)

	interceptor.Disable()
	require.NoError(client.Get(context.Background(), "/c", &resp))
	require.Equal(5, resp.Value)

	traced := rest.NewHttpInterceptor(rest.TraceBodies)
	traced.Enable()
	client = rest.NewClient("test", server.URL, &http.Client{Transport: traced}, nil)
	require.NoError(client.Get(context.Background(), "/d", &resp))
	require.Equal(5, resp.Value)
}
