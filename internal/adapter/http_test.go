package adapter_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/adapter"
)

var fastRetry = adapter.RetryPolicy{
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
	MaxElapsedTime:  500 * time.Millisecond,
}

func TestHTTPClient_PostJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"method":"ping"}`, string(body))
		_, _ = w.Write([]byte(`{"result":"pong"}`))
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(time.Second, fastRetry)
	resp, err := client.PostJSON(context.Background(), srv.URL, []byte(`{"method":"ping"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"pong"}`, string(resp))
}

func TestHTTPClient_PostJSON_RetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		// every attempt must carry the full body
		assert.Equal(t, `{"n":1}`, string(body))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(time.Second, fastRetry)
	_, err := client.PostJSON(context.Background(), srv.URL, []byte(`{"n":1}`))
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_PostJSON_PermanentError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	client := adapter.NewHTTPClient(time.Second, fastRetry)
	_, err := client.PostJSON(context.Background(), srv.URL, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code 400")
	assert.Equal(t, int32(1), calls.Load())
}
