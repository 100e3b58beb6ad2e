package configs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/celestialdb/codegen/internal/adapter/outbound/github"
	"github.com/celestialdb/codegen/internal/domain"
)

// EnvPrefix prefixes every environment variable, e.g. CELESTIAL_SCHEMA_FILE.
const EnvPrefix = "celestial"

// DefaultConfigFile is read when it exists and no other file is named.
const DefaultConfigFile = "celestial.yaml"

// HooksConfig selects the React hook exports. In YAML it is either a bool
// (true means all) or a mapping.
type HooksConfig struct {
	Mode        string `yaml:"mode" envconfig:"MODE" validate:"omitempty,oneof=off all selective"`
	Queries     bool   `yaml:"queries" envconfig:"QUERIES"`
	LazyQueries bool   `yaml:"lazyQueries" envconfig:"LAZY_QUERIES"`
	Mutations   bool   `yaml:"mutations" envconfig:"MUTATIONS"`
}

// UnmarshalYAML accepts `hooks: true` as a shorthand for mode all.
func (h *HooksConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var on bool
		if err := node.Decode(&on); err != nil {
			return fmt.Errorf("hooks must be a bool or a mapping: %w", err)
		}
		*h = HooksConfig{Mode: string(domain.HooksOff)}
		if on {
			h.Mode = string(domain.HooksAll)
		}
		return nil
	}
	type plain HooksConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*h = HooksConfig(p)
	if h.Mode == "" {
		h.Mode = string(domain.HooksSelective)
	}
	return nil
}

// EndpointOverride forces the kind of the endpoints matching Pattern.
// Patterns wrapped in slashes are regular expressions.
type EndpointOverride struct {
	Pattern string `yaml:"pattern" validate:"required"`
	Type    string `yaml:"type" validate:"required,oneof=query mutation"`
}

// Config holds the final application configuration: defaults, then the
// YAML file, then CELESTIAL_* environment variables, then CLI flags.
type Config struct {
	ConfigFilePath string `yaml:"-" envconfig:"CONFIG_FILE"`

	// Generation
	SchemaFile         string             `yaml:"schemaFile" envconfig:"SCHEMA_FILE" validate:"required"`
	OutputFolder       string             `yaml:"outputFolder" envconfig:"OUTPUT_FOLDER" validate:"required"`
	Groupings          []string           `yaml:"groupings" envconfig:"GROUPINGS" validate:"dive,required"`
	BaseURL            string             `yaml:"baseUrl" envconfig:"BASE_URL" validate:"omitempty,url"`
	ResponseSuffix     string             `yaml:"responseSuffix" envconfig:"RESPONSE_SUFFIX"`
	ArgSuffix          string             `yaml:"argSuffix" envconfig:"ARG_SUFFIX"`
	Hooks              HooksConfig        `yaml:"hooks" envconfig:"HOOKS"`
	Tag                bool               `yaml:"tag" envconfig:"TAG"`
	FlattenArg         bool               `yaml:"flattenArg" envconfig:"FLATTEN_ARG"`
	UseEnumType        bool               `yaml:"useEnumType" envconfig:"USE_ENUM_TYPE"`
	MergeReadWriteOnly bool               `yaml:"mergeReadWriteOnly" envconfig:"MERGE_READ_WRITE_ONLY"`
	FilterEndpoints    []string           `yaml:"filterEndpoints" envconfig:"FILTER_ENDPOINTS"`
	EndpointOverrides  []EndpointOverride `yaml:"endpointOverrides" ignored:"true" validate:"dive"`
	// Headers are sent when the schema is fetched over http(s).
	Headers map[string]string `yaml:"headers" envconfig:"HEADERS"`

	// Server
	ListenAddr        string        `yaml:"listenAddr" envconfig:"LISTEN_ADDR" validate:"hostname_port"`
	AdminAddr         string        `yaml:"adminAddr" envconfig:"ADMIN_ADDR" validate:"hostname_port"`
	HTTPClientTimeout time.Duration `yaml:"httpClientTimeout" envconfig:"HTTP_CLIENT_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	// Observability
	OtelExporterOtlpEndpoint string `yaml:"otelExporterOtlpEndpoint" envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `yaml:"otelExporterOtlpInsecure" envconfig:"OTEL_EXPORTER_OTLP_INSECURE"`
	LogLevel                 string `yaml:"logLevel" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		ConfigFilePath:           DefaultConfigFile,
		OutputFolder:             ".",
		ResponseSuffix:           domain.DefaultResponseSuffix,
		ArgSuffix:                domain.DefaultArgSuffix,
		Hooks:                    HooksConfig{Mode: string(domain.HooksOff)},
		ListenAddr:               ":8080",
		AdminAddr:                ":8081",
		HTTPClientTimeout:        30 * time.Second,
		ShutdownTimeout:          5 * time.Second,
		OtelExporterOtlpInsecure: true,
		LogLevel:                 "info",
	}
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Opener opens a configuration file by path. github.LoadConfigFromGitHubOrFile
// is the production opener.
type Opener func(ctx context.Context, path string) (io.ReadCloser, error)

// Load builds the configuration. path, when not empty, names the config
// file and takes precedence over CELESTIAL_CONFIG_FILE. A missing default
// file is not an error; a missing named file is.
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadWith(ctx, path, func(ctx context.Context, path string) (io.ReadCloser, error) {
		return github.LoadConfigFromGitHubOrFile(ctx, nil, path)
	})
}

// LoadWith is Load with a custom file opener.
func LoadWith(ctx context.Context, path string, open Opener) (*Config, error) {
	cfg := Default()

	// 1. Environment first, to learn the config file path.
	var initial Config
	if err := envconfig.Process(EnvPrefix, &initial); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}
	explicit := path != "" || initial.ConfigFilePath != ""
	switch {
	case path != "":
		cfg.ConfigFilePath = path
	case initial.ConfigFilePath != "":
		cfg.ConfigFilePath = initial.ConfigFilePath
	}

	// 2. YAML file over the defaults.
	if err := cfg.loadFile(ctx, open, explicit); err != nil {
		return nil, err
	}

	// 3. Environment again, overriding file settings.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process overriding environment variables: %w", err)
	}
	if path != "" {
		cfg.ConfigFilePath = path
	}
	return cfg, nil
}

func (c *Config) loadFile(ctx context.Context, open Opener, explicit bool) error {
	if c.ConfigFilePath == "" {
		return nil
	}
	r, err := open(ctx, c.ConfigFilePath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			slog.Debug("No config file found, using defaults and environment only.", slog.String("path", c.ConfigFilePath))
			return nil
		}
		return fmt.Errorf("failed to read config file '%s': %w", c.ConfigFilePath, err)
	}
	defer r.Close()

	path := c.ConfigFilePath
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to unmarshal config file '%s': %w", path, err)
	}
	c.ConfigFilePath = path
	slog.Info("Loaded configuration file.", slog.String("path", path))
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the final configuration. Field names in the error are
// the YAML keys.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldPath(ve)+": "+formatValidationError(ve))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", ve.Param())
	case "url":
		return "must be a URL"
	case "hostname_port":
		return "must be host:port"
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	}
	return fmt.Sprintf("failed %s validation", ve.Tag())
}

// GenerationOptions converts the generation settings.
func (c *Config) GenerationOptions() (domain.GenerationOptions, error) {
	filter, err := domain.ParseMatchers(c.FilterEndpoints)
	if err != nil {
		return domain.GenerationOptions{}, fmt.Errorf("filterEndpoints: %w", err)
	}

	overrides := make([]domain.EndpointOverride, 0, len(c.EndpointOverrides))
	for i, o := range c.EndpointOverrides {
		m, err := domain.ParseMatcher(o.Pattern)
		if err != nil {
			return domain.GenerationOptions{}, fmt.Errorf("endpointOverrides[%d]: %w", i, err)
		}
		overrides = append(overrides, domain.EndpointOverride{Pattern: m, Type: domain.EndpointKind(o.Type)})
	}

	return domain.GenerationOptions{
		Groupings:      c.Groupings,
		ResponseSuffix: c.ResponseSuffix,
		ArgSuffix:      c.ArgSuffix,
		Hooks: domain.HookOptions{
			Mode:        domain.HooksMode(c.Hooks.Mode),
			Queries:     c.Hooks.Queries,
			LazyQueries: c.Hooks.LazyQueries,
			Mutations:   c.Hooks.Mutations,
		},
		Tag:               c.Tag,
		FilterEndpoints:   filter,
		EndpointOverrides: overrides,
		FlattenArg:        c.FlattenArg,
		Resolve: domain.ResolveOptions{
			BaseURL:            c.BaseURL,
			UseEnumType:        c.UseEnumType,
			MergeReadWriteOnly: c.MergeReadWriteOnly,
		},
	}.WithDefaults(), nil
}
