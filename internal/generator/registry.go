package generator

import "github.com/celestialdb/codegen/internal/domain"

// Registry records claimed names and rejects duplicates. A module build
// owns one for its type aliases; GenerateIndex owns one for the names
// re-exported across the run.
type Registry struct {
	names map[string]bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: map[string]bool{}}
}

// Register claims name, failing if it was claimed before.
func (r *Registry) Register(name string) error {
	if r.names[name] {
		return &domain.ConfigError{Value: name, Err: domain.ErrDuplicateTypeAlias}
	}
	r.names[name] = true
	return nil
}

// Has reports whether name is claimed.
func (r *Registry) Has(name string) bool { return r.names[name] }
