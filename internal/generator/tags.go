package generator

import (
	"strings"

	"github.com/celestialdb/codegen/internal/domain"
)

// ExtractTagTypes returns the tags used by ops, deduplicated in first-seen
// order.
func ExtractTagTypes(ops []domain.OperationDefinition) []string {
	set := domain.NewTagSet()
	for _, op := range ops {
		set.Add(op.Tags...)
	}
	return set.Values()
}

// FindIndexEndpoint returns the single operation marked as the grouping's
// index endpoint.
func FindIndexEndpoint(ops []domain.OperationDefinition) (domain.OperationDefinition, error) {
	var found []domain.OperationDefinition
	for _, op := range ops {
		if op.Extensions.IndexEndpoint {
			found = append(found, op)
		}
	}
	switch len(found) {
	case 0:
		return domain.OperationDefinition{}, domain.ErrMissingIndexEndpoint
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, op := range found {
		names[i] = OperationNameOf(op)
	}
	return domain.OperationDefinition{}, &domain.ConfigError{Value: strings.Join(names, ", "), Err: domain.ErrAmbiguousIndexEndpoint}
}
