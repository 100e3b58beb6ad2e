package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the root of every error caused by the schema
// annotations or generator options rather than by I/O.
var ErrConfiguration = errors.New("configuration error")

var (
	ErrMissingIndexEndpoint   = fmt.Errorf("%w: grouping has no index endpoint", ErrConfiguration)
	ErrAmbiguousIndexEndpoint = fmt.Errorf("%w: grouping has more than one index endpoint", ErrConfiguration)
	ErrInvalidPrimaryKeyPath  = fmt.Errorf("%w: invalid primary key path", ErrConfiguration)
	ErrMissingPrimaryKeyPath  = fmt.Errorf("%w: missing primary key path", ErrConfiguration)
	ErrUnsupportedVerb        = fmt.Errorf("%w: unsupported verb for optimistic update", ErrConfiguration)
	ErrDuplicateTypeAlias     = fmt.Errorf("%w: duplicate type alias", ErrConfiguration)
	ErrDuplicateExport        = fmt.Errorf("%w: name exported by more than one module", ErrConfiguration)
	ErrUndefinedPathParameter = fmt.Errorf("%w: path parameter is not defined", ErrConfiguration)
	ErrInvalidExtension       = fmt.Errorf("%w: invalid extension value", ErrConfiguration)
	ErrMissingRequestBody     = fmt.Errorf("%w: operation has no request body", ErrConfiguration)
	ErrEmptyGrouping          = fmt.Errorf("%w: grouping has no operations", ErrConfiguration)
	ErrMissingBaseURL         = fmt.Errorf("%w: no base URL", ErrConfiguration)
	ErrInvalidGroupingKey     = fmt.Errorf("%w: grouping key is not a valid identifier", ErrConfiguration)
)

// ConfigError attaches the grouping, operation and offending value to a
// configuration error.
type ConfigError struct {
	Grouping  string
	Operation string
	Value     string
	Err       error
}

func (e *ConfigError) Error() string {
	var parts []string
	if e.Grouping != "" {
		parts = append(parts, fmt.Sprintf("grouping %q", e.Grouping))
	}
	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("operation %q", e.Operation))
	}
	msg := e.Err.Error()
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if len(parts) == 0 {
		return msg
	}
	return strings.Join(parts, ", ") + ": " + msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// WithGrouping returns err annotated with the grouping key. A ConfigError
// without a grouping gets it filled in; other errors are wrapped.
func WithGrouping(err error, grouping string) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		if ce.Grouping == "" {
			ce.Grouping = grouping
		}
		return err
	}
	if errors.Is(err, ErrConfiguration) {
		return &ConfigError{Grouping: grouping, Err: err}
	}
	return err
}

// WithOperation is WithGrouping for the operation name.
func WithOperation(err error, operation string) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		if ce.Operation == "" {
			ce.Operation = operation
		}
		return err
	}
	if errors.Is(err, ErrConfiguration) {
		return &ConfigError{Operation: operation, Err: err}
	}
	return err
}
