package usecase

import (
	"context"
	"errors"

	"github.com/celestialdb/codegen/internal/domain"
)

// Standard errors returned by use cases.
var (
	ErrNoFetcher = errors.New("no schema fetcher for source")
	ErrNoSource  = errors.New("no schema source given")
)

// SchemaFetcher defines the interface for fetching API schemas from various
// sources (local files, URLs, github:// references).
type SchemaFetcher interface {
	Fetch(ctx context.Context, source string) (domain.APISchema, error)
}

// SchemaResolver turns a fetched schema into the generator's document model.
type SchemaResolver interface {
	Resolve(ctx context.Context, schema domain.APISchema, opts domain.ResolveOptions) (*domain.APIDocument, error)
}

// OutputSink receives generated files. Paths are relative and slash
// separated; the sink decides where they end up.
// Implementations must be safe for concurrent calls.
type OutputSink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}
