package openapi

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
)

func TestBaseURLFromServers(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		servers     openapi3.Servers
		want        string
		expectError bool
	}{
		{
			name:    "absolute url keeps base path",
			source:  "spec.yaml",
			servers: openapi3.Servers{{URL: "https://api.example.com/v1/"}},
			want:    "https://api.example.com/v1",
		},
		{
			name:    "relative url against http source",
			source:  "http://localhost:8080/docs/openapi.json",
			servers: openapi3.Servers{{URL: "/api"}},
			want:    "http://localhost:8080/api",
		},
		{
			name:   "server variables use defaults",
			source: "spec.yaml",
			servers: openapi3.Servers{{
				URL: "https://{region}.example.com/{version}",
				Variables: map[string]*openapi3.ServerVariable{
					"region":  {Default: "eu"},
					"version": {Default: "v2"},
				},
			}},
			want: "https://eu.example.com/v2",
		},
		{
			name:    "non http servers are skipped",
			source:  "spec.yaml",
			servers: openapi3.Servers{{URL: "ws://socket.example.com"}, {URL: "http://api.example.com"}},
			want:    "http://api.example.com",
		},
		{
			name:        "relative url against a file source",
			source:      "spec.yaml",
			servers:     openapi3.Servers{{URL: "/api"}},
			expectError: true,
		},
		{
			name:        "no servers",
			source:      "spec.yaml",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := baseURLFromServers(tt.source, tt.servers, newTestLogger())
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
