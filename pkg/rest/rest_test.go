package rest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cordialsys/xbridge/errors"
	"github.com/cordialsys/xbridge/pkg/rest"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestGetPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			_, _ = w.Write([]byte(`{"value": 5}`))
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			require.Equal(t, "text/plain", r.Header.Get("Content-Type"))
			_, _ = w.Write(append(body, '\n'))
		case "/fail":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "bad things"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`upstream down`))
		}
	}))
	defer server.Close()
	client := rest.NewClient("test", server.URL+"/", nil, nil)
	ctx := context.Background()

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, client.Get(ctx, "/json", &out))
	require.Equal(t, 5, out.Value)

	var echo string
	require.NoError(t, client.Post(ctx, "echo", "text/plain", []byte("abcd"), &echo))
	require.Equal(t, "abcd", echo)

	err := client.Get(ctx, "/fail", nil)
	require.Equal(t, errors.NetworkError, errors.StatusOf(err))
	require.ErrorContains(t, err, "bad things (400)")

	err = client.Get(ctx, "/other", nil)
	require.ErrorContains(t, err, "code=500 upstream down")
}

func TestLimiterHonorsContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := rest.NewClient("test", "http://127.0.0.1:1", nil, limiter)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := client.Get(ctx, "/anything", nil)
	require.Equal(t, errors.NetworkError, errors.StatusOf(err))
	require.ErrorContains(t, err, "limiter")
}
