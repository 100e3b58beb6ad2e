package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeSchemaURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://api.example.com/openapi.json", true},
		{"https://api.example.com/spec.YAML", true},
		{"https://api.example.com/v3/api-docs", true},
		{"https://api.example.com/swagger/v1", true},
		{"https://api.example.com", false},
		{"https://api.example.com/v1/", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeSchemaURL(tt.source))
		})
	}
}

func TestAutoDiscoverer(t *testing.T) {
	mux := http.NewServeMux()
	// HTML pages are not documents even when they answer 200.
	mux.HandleFunc("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "celestial-codegen/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("openapi: 3.0.3"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	d := NewAutoDiscoverer(server.Client(), map[string]string{"X-Api-Key": "secret"}, newTestLogger())

	t.Run("first matching path wins", func(t *testing.T) {
		got, err := d.DiscoverSchema(context.Background(), server.URL+"/")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/openapi.yaml", got)
	})

	t.Run("base url without scheme", func(t *testing.T) {
		_, err := d.DiscoverSchema(context.Background(), "api.example.com")
		assert.Error(t, err)
	})

	t.Run("resolve keeps document urls", func(t *testing.T) {
		src := server.URL + "/custom/openapi.json"
		assert.Equal(t, src, d.ResolveSchemaSource(context.Background(), src))
	})

	t.Run("resolve falls back to the source", func(t *testing.T) {
		empty := httptest.NewServer(http.NotFoundHandler())
		defer empty.Close()
		nd := NewAutoDiscoverer(empty.Client(), nil, newTestLogger())
		assert.Equal(t, empty.URL, nd.ResolveSchemaSource(context.Background(), empty.URL))
	})
}
