package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticKey_Validate(t *testing.T) {
	assert.ErrorIs(t, NewStaticKey("").Validate(), ErrNotConfigured)
	assert.ErrorIs(t, NewStaticKey("   ").Validate(), ErrNotConfigured)
	assert.NoError(t, NewStaticKey("abc").Validate())

	key, err := NewStaticKey(" abc ").ResolveKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", key)
}

func TestProxiedKey_ResolvesOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"apiKey": "proxied-key"})
	}))
	defer srv.Close()

	keys := NewProxiedKey(srv.URL, nil)
	for i := 0; i < 3; i++ {
		key, err := keys.ResolveKey(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "proxied-key", key)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestProxiedKey_ConcurrentCallersShareOneFetch(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		json.NewEncoder(w).Encode(map[string]string{"apiKey": "shared"})
	}))
	defer srv.Close()

	keys := NewProxiedKey(srv.URL, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = keys.ResolveKey(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestProxiedKey_FailuresAreNotConfigured(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "API key is not configured on the server."})
			},
		},
		{
			name: "missing key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{})
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			keys := NewProxiedKey(srv.URL, nil)
			_, err := keys.ResolveKey(context.Background())
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestProxiedKey_FailureIsMemoized(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	keys := NewProxiedKey(srv.URL, nil)
	_, err1 := keys.ResolveKey(context.Background())
	_, err2 := keys.ResolveKey(context.Background())

	assert.ErrorIs(t, err1, ErrNotConfigured)
	assert.ErrorIs(t, err2, ErrNotConfigured)
	assert.Equal(t, int32(1), hits.Load())
}

func TestProxiedKey_UnreachableEndpoint(t *testing.T) {
	keys := NewProxiedKey("http://127.0.0.1:1/api/get-key", nil)
	_, err := keys.ResolveKey(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
