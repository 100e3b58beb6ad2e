package configs_test

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestialdb/codegen/configs"
	"github.com/celestialdb/codegen/internal/domain"
)

// openerFor serves files from an in-memory map.
func openerFor(files map[string]string, opened *[]string) configs.Opener {
	return func(_ context.Context, path string) (io.ReadCloser, error) {
		if opened != nil {
			*opened = append(*opened, path)
		}
		content, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("failed to open config file: %w", fs.ErrNotExist)
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

const fullYAML = `
schemaFile: openapi.yaml
outputFolder: src/api
groupings: [tasks, projects]
baseUrl: https://api.example.com
responseSuffix: Response
hooks:
  queries: true
  mutations: true
tag: true
flattenArg: true
useEnumType: true
filterEndpoints: [getTasks, /^create/]
endpointOverrides:
  - pattern: searchTasks
    type: query
headers:
  Authorization: Bearer abc
listenAddr: 127.0.0.1:9000
httpClientTimeout: 10s
logLevel: debug
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		env     map[string]string
		files   map[string]string
		wantErr string
		check   func(t *testing.T, cfg *configs.Config)
	}{
		{
			name: "defaults when the default file is missing",
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, configs.Default(), cfg)
			},
		},
		{
			name:  "reads the default file",
			files: map[string]string{configs.DefaultConfigFile: fullYAML},
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, "openapi.yaml", cfg.SchemaFile)
				assert.Equal(t, "src/api", cfg.OutputFolder)
				assert.Equal(t, []string{"tasks", "projects"}, cfg.Groupings)
				assert.Equal(t, "Response", cfg.ResponseSuffix)
				assert.Equal(t, domain.DefaultArgSuffix, cfg.ArgSuffix)
				assert.Equal(t, configs.HooksConfig{Mode: "selective", Queries: true, Mutations: true}, cfg.Hooks)
				assert.Equal(t, []configs.EndpointOverride{{Pattern: "searchTasks", Type: "query"}}, cfg.EndpointOverrides)
				assert.Equal(t, map[string]string{"Authorization": "Bearer abc"}, cfg.Headers)
				assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
				assert.Equal(t, ":8081", cfg.AdminAddr)
				assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
				assert.Equal(t, slog.LevelDebug, cfg.ParsedLogLevel())
			},
		},
		{
			name:  "environment overrides the file",
			env:   map[string]string{"CELESTIAL_OUTPUT_FOLDER": "generated", "CELESTIAL_TAG": "false", "CELESTIAL_HOOKS_MODE": "all"},
			files: map[string]string{configs.DefaultConfigFile: fullYAML},
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, "openapi.yaml", cfg.SchemaFile)
				assert.Equal(t, "generated", cfg.OutputFolder)
				assert.False(t, cfg.Tag)
				assert.Equal(t, "all", cfg.Hooks.Mode)
			},
		},
		{
			name:  "config file from environment",
			env:   map[string]string{"CELESTIAL_CONFIG_FILE": "other.yaml"},
			files: map[string]string{"other.yaml": "schemaFile: other.json\n"},
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, "other.json", cfg.SchemaFile)
				assert.Equal(t, "other.yaml", cfg.ConfigFilePath)
			},
		},
		{
			name:  "explicit path wins over environment",
			path:  "flag.yaml",
			env:   map[string]string{"CELESTIAL_CONFIG_FILE": "other.yaml"},
			files: map[string]string{"flag.yaml": "schemaFile: flag.json\n", "other.yaml": "schemaFile: other.json\n"},
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, "flag.json", cfg.SchemaFile)
				assert.Equal(t, "flag.yaml", cfg.ConfigFilePath)
			},
		},
		{
			name:  "hooks shorthand",
			files: map[string]string{configs.DefaultConfigFile: "hooks: true\n"},
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, configs.HooksConfig{Mode: "all"}, cfg.Hooks)
			},
		},
		{
			name:  "empty file",
			files: map[string]string{configs.DefaultConfigFile: ""},
			check: func(t *testing.T, cfg *configs.Config) {
				assert.Equal(t, configs.Default(), cfg)
			},
		},
		{
			name:    "missing explicit file",
			path:    "nope.yaml",
			wantErr: "failed to read config file 'nope.yaml'",
		},
		{
			name:    "unknown key",
			files:   map[string]string{configs.DefaultConfigFile: "schemaFlie: typo.yaml\n"},
			wantErr: "failed to unmarshal config file",
		},
		{
			name:    "bad hooks value",
			files:   map[string]string{configs.DefaultConfigFile: "hooks: sometimes\n"},
			wantErr: "hooks must be a bool or a mapping",
		},
		{
			name:    "bad environment value",
			env:     map[string]string{"CELESTIAL_HTTP_CLIENT_TIMEOUT": "soon"},
			wantErr: "environment variables",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := configs.LoadWith(context.Background(), tt.path, openerFor(tt.files, nil))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *configs.Config {
		cfg := configs.Default()
		cfg.SchemaFile = "openapi.yaml"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*configs.Config)
		wantErr []string
	}{
		{name: "valid", mutate: func(*configs.Config) {}},
		{
			name:    "missing schema file",
			mutate:  func(c *configs.Config) { c.SchemaFile = "" },
			wantErr: []string{"schemaFile: required"},
		},
		{
			name:    "bad log level",
			mutate:  func(c *configs.Config) { c.LogLevel = "loud" },
			wantErr: []string{"logLevel: must be one of [debug info warn warning error]"},
		},
		{
			name:    "bad hooks mode",
			mutate:  func(c *configs.Config) { c.Hooks.Mode = "some" },
			wantErr: []string{"hooks.mode: must be one of"},
		},
		{
			name: "bad override and address",
			mutate: func(c *configs.Config) {
				c.EndpointOverrides = []configs.EndpointOverride{{Pattern: "x", Type: "subscription"}}
				c.ListenAddr = "nowhere"
			},
			wantErr: []string{"endpointOverrides[0].type: must be one of [query mutation]", "listenAddr: must be host:port"},
		},
		{
			name:    "bad base url",
			mutate:  func(c *configs.Config) { c.BaseURL = "not a url" },
			wantErr: []string{"baseUrl: must be a URL"},
		},
		{
			name:    "zero timeout",
			mutate:  func(c *configs.Config) { c.ShutdownTimeout = 0 },
			wantErr: []string{"shutdownTimeout: must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestParsedLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &configs.Config{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.ParsedLogLevel())
		})
	}
}

func TestGenerationOptions(t *testing.T) {
	cfg := configs.Default()
	cfg.Groupings = []string{"tasks"}
	cfg.Hooks = configs.HooksConfig{Mode: "all"}
	cfg.Tag = true
	cfg.BaseURL = "https://api.example.com"
	cfg.MergeReadWriteOnly = true
	cfg.FilterEndpoints = []string{"getTasks", "/^create/"}
	cfg.EndpointOverrides = []configs.EndpointOverride{{Pattern: "/search/", Type: "query"}}

	opts, err := cfg.GenerationOptions()
	require.NoError(t, err)

	assert.Equal(t, []string{"tasks"}, opts.Groupings)
	assert.Equal(t, domain.HooksAll, opts.Hooks.Mode)
	assert.True(t, opts.Tag)
	assert.Equal(t, domain.ResolveOptions{BaseURL: "https://api.example.com", MergeReadWriteOnly: true}, opts.Resolve)
	assert.Equal(t, domain.DefaultResponseSuffix, opts.ResponseSuffix)

	op := domain.OperationDefinition{}
	assert.True(t, opts.Includes("getTasks", op))
	assert.True(t, opts.Includes("createTask", op))
	assert.False(t, opts.Includes("deleteTask", op))

	ov, ok := opts.Override("searchTasks", op)
	require.True(t, ok)
	assert.Equal(t, domain.KindQuery, ov.Type)

	t.Run("bad pattern", func(t *testing.T) {
		cfg := configs.Default()
		cfg.FilterEndpoints = []string{"/([/"}
		_, err := cfg.GenerationOptions()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
