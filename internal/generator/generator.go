// Package generator turns a resolved API document into Redux Toolkit
// modules: one API slice per grouping plus the shared cache slice, store
// and index modules.
package generator

import (
	"log/slog"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

// Module is one generated TypeScript file.
type Module struct {
	// Name is the grouping key, or cache, store and index for the shared
	// modules.
	Name      string
	FileName  string
	File      *tsast.File
	Endpoints []domain.EndpointDescriptor
	Selectors []string
	Hooks     []string
}

// Generator assembles modules. It holds no per-run state and is safe for
// concurrent use.
type Generator struct {
	ids    Identifiers
	logger *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithIdentifiers replaces the Redux Toolkit vocabulary.
func WithIdentifiers(ids Identifiers) Option {
	return func(g *Generator) { g.ids = ids }
}

// New creates a Generator.
func New(logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		ids:    DefaultIdentifiers(),
		logger: logger.With("component", "generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateAll builds the API slice of every requested grouping followed by
// the cache, store and index modules. Nothing is returned unless every
// module succeeds.
func (g *Generator) GenerateAll(doc *domain.APIDocument, opts domain.GenerationOptions) ([]*Module, error) {
	groupings := uniqueGroupings(opts.Groupings)
	if len(groupings) == 0 {
		groupings = doc.Groupings()
	}
	if len(groupings) == 0 {
		return nil, &domain.ConfigError{Value: domain.ExtGrouping, Err: domain.ErrEmptyGrouping}
	}

	apiModules := make([]*Module, 0, len(groupings))
	for _, key := range groupings {
		m, err := g.GenerateAPIModule(doc, key, opts)
		if err != nil {
			return nil, err
		}
		apiModules = append(apiModules, m)
	}

	store, err := g.GenerateStore(groupings)
	if err != nil {
		return nil, err
	}

	index, err := g.GenerateIndex(apiModules)
	if err != nil {
		return nil, err
	}
	modules := make([]*Module, 0, len(apiModules)+3)
	modules = append(modules, apiModules...)
	modules = append(modules, g.GenerateCacheSlice(), store, index)
	g.logger.Debug("generated modules", slog.Int("groupings", len(groupings)), slog.Int("modules", len(modules)))
	return modules, nil
}

func uniqueGroupings(keys []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
