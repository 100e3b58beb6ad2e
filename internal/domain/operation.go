package domain

import (
	"sort"
	"strings"

	"github.com/celestialdb/codegen/internal/tsast"
)

// ParamLocation is the `in` of an OpenAPI parameter.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InCookie ParamLocation = "cookie"
)

// Parameter is a resolved operation parameter.
type Parameter struct {
	Name        string
	In          ParamLocation
	Required    bool
	Description string
	Type        tsast.Type
}

// RequestBody is a resolved JSON request body.
type RequestBody struct {
	Required    bool
	Description string
	ContentType string
	// TypeName is the alias the body type resolved to, when it is a
	// reference to a component schema.
	TypeName string
	// RefName is the raw component name of a $ref schema.
	RefName string
	Title   string
	Type    tsast.Type
}

// Response is one documented response of an operation.
type Response struct {
	Code        string
	Description string
	JSON        bool
	Type        tsast.Type
}

// IsSuccess reports whether the response code is 2xx.
func (r Response) IsSuccess() bool {
	if strings.EqualFold(r.Code, "2XX") {
		return true
	}
	return len(r.Code) == 3 && r.Code[0] == '2'
}

// OperationDefinition is one HTTP operation of the API document with its
// parameters merged and its schemas resolved. Read-only once built.
type OperationDefinition struct {
	Verb        string
	Path        string
	OperationID string
	Tags        []string
	Summary     string
	Description string
	Deprecated  bool
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
	ReturnsJSON bool
	Extensions  Extensions
}

// Parameter returns the parameter with the given name and location.
func (o OperationDefinition) Parameter(in ParamLocation, name string) (Parameter, bool) {
	for _, p := range o.Parameters {
		if p.In == in && p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// HasParameterNamed reports whether any parameter uses name, in any location.
func (o OperationDefinition) HasParameterNamed(name string) bool {
	for _, p := range o.Parameters {
		if p.Name == name {
			return true
		}
	}
	return false
}

// SuccessResponses returns the 2xx responses in code order.
func (o OperationDefinition) SuccessResponses() []Response {
	var out []Response
	for _, r := range o.Responses {
		if r.IsSuccess() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Declaration is a named type declared by the API document's components.
type Declaration struct {
	Name string
	// Stmt is either a *tsast.TypeAlias or a *tsast.Enum.
	Stmt tsast.Stmt
}

// Refs lists the named types the declaration depends on.
func (d Declaration) Refs() []string {
	alias, ok := d.Stmt.(*tsast.TypeAlias)
	if !ok {
		return nil
	}
	var refs []string
	tsast.TypeRefs(alias.Type, func(name string) { refs = append(refs, name) })
	return refs
}

// APIDocument is the resolved form of an OpenAPI document.
type APIDocument struct {
	Title        string
	BaseURL      string
	Operations   []OperationDefinition
	Declarations []Declaration
}

// Groupings returns every distinct grouping key used by the document,
// sorted.
func (d *APIDocument) Groupings() []string {
	seen := map[string]bool{}
	var keys []string
	for _, op := range d.Operations {
		g := op.Extensions.Grouping
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		keys = append(keys, g)
	}
	sort.Strings(keys)
	return keys
}

// OperationsIn returns the operations of one grouping in document order.
func (d *APIDocument) OperationsIn(grouping string) []OperationDefinition {
	var ops []OperationDefinition
	for _, op := range d.Operations {
		if op.Extensions.Grouping == grouping {
			ops = append(ops, op)
		}
	}
	return ops
}
