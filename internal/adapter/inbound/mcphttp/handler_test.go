package mcphttp_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/celestialdb/codegen/internal/adapter/inbound/mcphttp"
	"github.com/celestialdb/codegen/internal/adapter/outbound/sink"
	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/usecase"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) ListGroupings(ctx context.Context, source string) ([]string, error) {
	args := m.Called(ctx, source)
	groupings, _ := args.Get(0).([]string)
	return groupings, args.Error(1)
}

func (m *MockGenerator) Execute(ctx context.Context, source string, opts domain.GenerationOptions, s usecase.OutputSink) ([]domain.GeneratedFile, error) {
	args := m.Called(ctx, source, opts, s)
	files, _ := args.Get(0).([]domain.GeneratedFile)
	return files, args.Error(1)
}

func newServer(t *testing.T, defaults domain.GenerationOptions, defaultSource string) (*MockGenerator, *sink.MemorySink, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gen := new(MockGenerator)
	out := sink.NewMemorySink(logger)

	mux := http.NewServeMux()
	mcphttp.NewHandlers(gen, out, defaults, defaultSource, logger).RegisterAdminRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return gen, out, srv
}

func TestHandleGenerate(t *testing.T) {
	defaults := domain.GenerationOptions{Tag: true}
	files := []domain.GeneratedFile{{Path: "tasksApiSlice.ts"}, {Path: "cache.ts"}}

	tests := []struct {
		name          string
		defaultSource string
		body          string
		mockSetup     func(*MockGenerator, *sink.MemorySink)
		wantStatus    int
		wantFiles     []string
	}{
		{
			name: "generates with request groupings",
			body: `{"source":"api.yaml","groupings":["tasks"]}`,
			mockSetup: func(g *MockGenerator, s *sink.MemorySink) {
				want := defaults
				want.Groupings = []string{"tasks"}
				g.On("Execute", mock.Anything, "api.yaml", want, s).Return(files, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantFiles:  []string{"tasksApiSlice.ts", "cache.ts"},
		},
		{
			name:          "falls back to the configured source",
			defaultSource: "configured.yaml",
			body:          `{}`,
			mockSetup: func(g *MockGenerator, s *sink.MemorySink) {
				g.On("Execute", mock.Anything, "configured.yaml", defaults, s).Return(files, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantFiles:  []string{"tasksApiSlice.ts", "cache.ts"},
		},
		{
			name:       "missing source",
			body:       `{}`,
			mockSetup:  func(*MockGenerator, *sink.MemorySink) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid body",
			body:       `{"source":`,
			mockSetup:  func(*MockGenerator, *sink.MemorySink) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "configuration error",
			body: `{"source":"api.yaml"}`,
			mockSetup: func(g *MockGenerator, s *sink.MemorySink) {
				g.On("Execute", mock.Anything, "api.yaml", defaults, s).Return(nil, &domain.ConfigError{Grouping: "tasks", Err: domain.ErrMissingIndexEndpoint}).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "fetch error",
			body: `{"source":"api.yaml"}`,
			mockSetup: func(g *MockGenerator, s *sink.MemorySink) {
				g.On("Execute", mock.Anything, "api.yaml", defaults, s).Return(nil, errors.New("connection refused")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, out, srv := newServer(t, defaults, tt.defaultSource)
			tt.mockSetup(gen, out)

			resp, err := http.Post(srv.URL+"/admin/generate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantFiles != nil {
				var body mcphttp.GenerateResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantFiles, body.Files)
			}
			gen.AssertExpectations(t)
		})
	}
}

func TestHandleListGroupings(t *testing.T) {
	gen, _, srv := newServer(t, domain.GenerationOptions{}, "")
	gen.On("ListGroupings", mock.Anything, "api.yaml").Return([]string{"tasks"}, nil).Once()

	resp, err := http.Get(srv.URL + "/admin/groupings?source=api.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Groupings []string `json:"groupings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"tasks"}, body.Groupings)

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/admin/groupings", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("missing source", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/admin/groupings")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
