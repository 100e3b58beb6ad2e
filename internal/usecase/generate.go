package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/generator"
	"github.com/celestialdb/codegen/internal/tsast"
)

const instrumentationName = "github.com/celestialdb/codegen/internal/usecase"

// GenerateUseCase orchestrates fetching a schema, resolving it and rendering
// the Redux Toolkit modules.
type GenerateUseCase struct {
	fetchers  map[domain.SchemaType]SchemaFetcher
	resolver  SchemaResolver
	generator *generator.Generator
	printer   *tsast.Printer
	logger    *slog.Logger

	tracer    trace.Tracer
	modules   metric.Int64Counter
	endpoints metric.Int64Counter
	failures  metric.Int64Counter
}

// NewGenerateUseCase creates a new GenerateUseCase. fetchers are keyed by
// the schema type domain.SchemaTypeOf derives from a source.
func NewGenerateUseCase(
	fetchers map[domain.SchemaType]SchemaFetcher,
	resolver SchemaResolver,
	gen *generator.Generator,
	logger *slog.Logger,
) *GenerateUseCase {
	meter := otel.Meter(instrumentationName)
	uc := &GenerateUseCase{
		fetchers:  fetchers,
		resolver:  resolver,
		generator: gen,
		printer:   tsast.NewPrinter(),
		logger:    logger.With("usecase", "Generate"),
		tracer:    otel.Tracer(instrumentationName),
	}

	// Counters are optional; count skips nil ones.
	var err error
	if uc.modules, err = meter.Int64Counter("celestial.codegen.modules",
		metric.WithDescription("Generated TypeScript modules")); err != nil {
		uc.logger.Warn("Failed to create modules counter", slog.Any("error", err))
	}
	if uc.endpoints, err = meter.Int64Counter("celestial.codegen.endpoints",
		metric.WithDescription("Generated RTK Query endpoints")); err != nil {
		uc.logger.Warn("Failed to create endpoints counter", slog.Any("error", err))
	}
	if uc.failures, err = meter.Int64Counter("celestial.codegen.failures",
		metric.WithDescription("Failed generation runs")); err != nil {
		uc.logger.Warn("Failed to create failures counter", slog.Any("error", err))
	}
	return uc
}

// Load fetches source with the fetcher registered for its schema type and
// resolves it.
func (uc *GenerateUseCase) Load(ctx context.Context, source string, opts domain.ResolveOptions) (*domain.APIDocument, error) {
	if source == "" {
		return nil, ErrNoSource
	}
	log := uc.logger.With(slog.String("source", source))

	ctx, span := uc.tracer.Start(ctx, "codegen.load", trace.WithAttributes(attribute.String("codegen.source", source)))
	defer span.End()

	schemaType := domain.SchemaTypeOf(source)
	fetcher, ok := uc.fetchers[schemaType]
	if !ok {
		log.Error("No schema fetcher available for source", slog.String("schema_type", string(schemaType)))
		err := fmt.Errorf("%w: %s (%s)", ErrNoFetcher, source, schemaType)
		recordError(span, err)
		return nil, err
	}

	schema, err := fetcher.Fetch(ctx, source)
	if err != nil {
		log.Error("Failed to fetch schema", slog.Any("error", err))
		err = fmt.Errorf("failed to fetch schema from %s: %w", source, err)
		recordError(span, err)
		return nil, err
	}
	log.Info("Schema fetched successfully", slog.String("schema_type", string(schema.Type)))

	doc, err := uc.resolver.Resolve(ctx, schema, opts)
	if err != nil {
		log.Error("Failed to resolve schema", slog.Any("error", err))
		err = fmt.Errorf("failed to resolve schema %s: %w", source, err)
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("codegen.operations", len(doc.Operations)))
	return doc, nil
}

// ListGroupings returns the grouping keys the schema at source declares.
func (uc *GenerateUseCase) ListGroupings(ctx context.Context, source string) ([]string, error) {
	doc, err := uc.Load(ctx, source, domain.ResolveOptions{})
	if err != nil {
		return nil, err
	}
	return doc.Groupings(), nil
}

// Generate renders every module in memory. Nothing is returned unless every
// module renders.
func (uc *GenerateUseCase) Generate(ctx context.Context, source string, opts domain.GenerationOptions) ([]domain.GeneratedFile, error) {
	log := uc.logger.With(slog.String("source", source))
	opts = opts.WithDefaults()

	ctx, span := uc.tracer.Start(ctx, "codegen.generate", trace.WithAttributes(
		attribute.String("codegen.source", source),
		attribute.StringSlice("codegen.groupings", opts.Groupings),
	))
	defer span.End()

	doc, err := uc.Load(ctx, source, opts.Resolve)
	if err != nil {
		uc.count(ctx, uc.failures, 1)
		recordError(span, err)
		return nil, err
	}

	modules, err := uc.generator.GenerateAll(doc, opts)
	if err != nil {
		log.Error("Failed to generate modules", slog.Any("error", err))
		uc.count(ctx, uc.failures, 1)
		err = fmt.Errorf("failed to generate modules for %s: %w", source, err)
		recordError(span, err)
		return nil, err
	}

	files := make([]domain.GeneratedFile, 0, len(modules))
	endpoints := 0
	for _, m := range modules {
		content, err := uc.printer.Print(m.File)
		if err != nil {
			uc.count(ctx, uc.failures, 1)
			err = fmt.Errorf("failed to print module %s: %w", m.FileName, err)
			recordError(span, err)
			return nil, err
		}
		files = append(files, domain.GeneratedFile{Path: m.FileName, Content: content})
		endpoints += len(m.Endpoints)
		log.Debug("Rendered module", slog.String("module", m.Name), slog.Int("endpoints", len(m.Endpoints)))
	}

	uc.count(ctx, uc.modules, len(files))
	uc.count(ctx, uc.endpoints, endpoints)
	span.SetAttributes(attribute.Int("codegen.modules", len(files)), attribute.Int("codegen.endpoints", endpoints))
	log.Info("Generated modules", slog.Int("modules", len(files)), slog.Int("endpoints", endpoints))
	return files, nil
}

// Execute generates the modules and writes them to sink. The sink is only
// touched after every module rendered.
func (uc *GenerateUseCase) Execute(ctx context.Context, source string, opts domain.GenerationOptions, sink OutputSink) ([]domain.GeneratedFile, error) {
	files, err := uc.Generate(ctx, source, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := uc.tracer.Start(ctx, "codegen.write", trace.WithAttributes(attribute.Int("codegen.files", len(files))))
	defer span.End()

	for _, f := range files {
		if err := sink.WriteFile(ctx, f.Path, f.Content); err != nil {
			uc.logger.Error("Failed to write module", slog.String("path", f.Path), slog.Any("error", err))
			err = fmt.Errorf("failed to write %s: %w", f.Path, err)
			recordError(span, err)
			return nil, err
		}
	}
	uc.logger.Info("Wrote generated modules", slog.String("source", source), slog.Int("files", len(files)))
	return files, nil
}

func (uc *GenerateUseCase) count(ctx context.Context, c metric.Int64Counter, n int) {
	if c == nil || n == 0 {
		return
	}
	c.Add(ctx, int64(n))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
