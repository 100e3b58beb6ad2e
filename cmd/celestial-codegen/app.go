package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/celestialdb/codegen/configs"
	"github.com/celestialdb/codegen/internal/adapter/outbound/github"
	"github.com/celestialdb/codegen/internal/adapter/outbound/openapi"
	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/generator"
	"github.com/celestialdb/codegen/internal/usecase"
)

const serviceName = "celestial-codegen"

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *configs.Config
	opts     domain.GenerationOptions
	logger   *slog.Logger
	generate *usecase.GenerateUseCase
	shutdown func(context.Context) error
}

// newApp loads the configuration, applies the command's overrides, then
// wires logging, tracing and the use case. Logs go to logOut.
func newApp(ctx context.Context, g *Globals, logOut io.Writer, override func(*configs.Config)) (*app, error) {
	cfg, err := configs.Load(ctx, g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.GenerationOptions()
	if err != nil {
		return nil, err
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Debug("Logger initialized.", slog.String("level", logLevel.String()))

	// === OpenTelemetry ===
	shutdown, err := initOtelProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	// === Dependency Injection ===
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	fetchers := map[domain.SchemaType]usecase.SchemaFetcher{
		domain.SchemaTypeOpenAPI: openapi.NewSchemaFetcher(httpClient, cfg.Headers, logger),
		domain.SchemaTypeGitHub:  github.NewFetcher(nil, logger),
	}
	uc := usecase.NewGenerateUseCase(fetchers, openapi.NewResolver(logger), generator.New(logger), logger)
	logger.Debug("Dependencies initialized.", slog.Duration("http_timeout", cfg.HTTPClientTimeout))

	return &app{
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		generate: uc,
		shutdown: shutdown,
	}, nil
}

// Close flushes the tracer provider.
func (a *app) Close() {
	if err := a.shutdown(context.Background()); err != nil {
		a.logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
	}
}

// stdioLogWriter returns the log destination used while stdin and stdout
// carry the MCP protocol.
func stdioLogWriter() io.Writer {
	logFile, err := os.OpenFile(filepath.Join(os.TempDir(), serviceName+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard
	}
	return logFile
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP trace exporter.
// It returns a shutdown function to be called on application exit.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Debug("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(Version()),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("OpenTelemetry TracerProvider configured.")

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
