package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Default alias suffixes.
const (
	DefaultResponseSuffix = "ApiResponse"
	DefaultArgSuffix      = "ApiArg"
)

// HooksMode selects which React hooks are exported.
type HooksMode string

const (
	HooksOff       HooksMode = "off"
	HooksAll       HooksMode = "all"
	HooksSelective HooksMode = "selective"
)

// HookOptions configures hook exports. Queries, LazyQueries and Mutations
// are only read in selective mode.
type HookOptions struct {
	Mode        HooksMode
	Queries     bool
	LazyQueries bool
	Mutations   bool
}

// Enabled reports whether any hook is exported.
func (h HookOptions) Enabled() bool {
	switch h.Mode {
	case HooksAll:
		return true
	case HooksSelective:
		return h.Queries || h.LazyQueries || h.Mutations
	}
	return false
}

// Wants reports whether a hook of the given kind is exported. All mode
// exports the eager query and mutation hooks.
func (h HookOptions) Wants(kind EndpointKind, lazy bool) bool {
	switch h.Mode {
	case HooksAll:
		return !lazy
	case HooksSelective:
		if kind == KindMutation {
			return h.Mutations && !lazy
		}
		if lazy {
			return h.LazyQueries
		}
		return h.Queries
	}
	return false
}

// EndpointMatcher selects operations for filtering and overrides.
type EndpointMatcher interface {
	Match(operationName string, op OperationDefinition) bool
}

// MatchName matches an exact operation name.
type MatchName string

func (m MatchName) Match(name string, _ OperationDefinition) bool { return string(m) == name }

// MatchRegexp matches operation names against a regular expression.
type MatchRegexp struct{ *regexp.Regexp }

func (m MatchRegexp) Match(name string, _ OperationDefinition) bool { return m.MatchString(name) }

// MatchFunc adapts a function to EndpointMatcher.
type MatchFunc func(name string, op OperationDefinition) bool

func (f MatchFunc) Match(name string, op OperationDefinition) bool { return f(name, op) }

// MatchAny matches when any element matches.
type MatchAny []EndpointMatcher

func (m MatchAny) Match(name string, op OperationDefinition) bool {
	for _, el := range m {
		if el.Match(name, op) {
			return true
		}
	}
	return false
}

// ParseMatcher builds a matcher from its textual form: /expr/ is a regular
// expression, anything else an exact operation name.
func ParseMatcher(pattern string) (EndpointMatcher, error) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, &ConfigError{Value: pattern, Err: fmt.Errorf("%w: bad endpoint pattern: %v", ErrConfiguration, err)}
		}
		return MatchRegexp{re}, nil
	}
	return MatchName(pattern), nil
}

// ParseMatchers parses several patterns into a MatchAny.
func ParseMatchers(patterns []string) (EndpointMatcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	all := make(MatchAny, 0, len(patterns))
	for _, p := range patterns {
		m, err := ParseMatcher(p)
		if err != nil {
			return nil, err
		}
		all = append(all, m)
	}
	return all, nil
}

// EndpointOverride forces the kind of the endpoints it matches.
type EndpointOverride struct {
	Pattern EndpointMatcher
	Type    EndpointKind
}

// ResolveOptions steer how schemas become TypeScript types.
type ResolveOptions struct {
	// BaseURL overrides the servers of the document.
	BaseURL string
	// UseEnumType emits string enums as `export enum` declarations.
	UseEnumType bool
	// MergeReadWriteOnly disables the Read/Write schema variants.
	MergeReadWriteOnly bool
}

// GenerationOptions configure one generator run.
type GenerationOptions struct {
	// Groupings to generate. Empty means every grouping of the document.
	Groupings         []string
	ResponseSuffix    string
	ArgSuffix         string
	Hooks             HookOptions
	Tag               bool
	FilterEndpoints   EndpointMatcher
	EndpointOverrides []EndpointOverride
	FlattenArg        bool
	Resolve           ResolveOptions
}

// WithDefaults fills in unset suffixes and hook mode.
func (o GenerationOptions) WithDefaults() GenerationOptions {
	if o.ResponseSuffix == "" {
		o.ResponseSuffix = DefaultResponseSuffix
	}
	if o.ArgSuffix == "" {
		o.ArgSuffix = DefaultArgSuffix
	}
	if o.Hooks.Mode == "" {
		o.Hooks.Mode = HooksOff
	}
	return o
}

// Override returns the first override matching the operation.
func (o GenerationOptions) Override(name string, op OperationDefinition) (EndpointOverride, bool) {
	for _, ov := range o.EndpointOverrides {
		if ov.Pattern != nil && ov.Pattern.Match(name, op) {
			return ov, true
		}
	}
	return EndpointOverride{}, false
}

// Includes reports whether the endpoint filter keeps the operation.
func (o GenerationOptions) Includes(name string, op OperationDefinition) bool {
	return o.FilterEndpoints == nil || o.FilterEndpoints.Match(name, op)
}
