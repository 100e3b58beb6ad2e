package domain

import "github.com/celestialdb/codegen/internal/tsast"

// ArgOrigin tells whether a query argument comes from a parameter or the
// request body.
type ArgOrigin string

const (
	OriginParam ArgOrigin = "param"
	OriginBody  ArgOrigin = "body"
)

// QueryArgDefinition is one named field of an endpoint's input.
type QueryArgDefinition struct {
	Name         string
	OriginalName string
	Type         tsast.Type
	Required     bool
	Origin       ArgOrigin
	Description  string
	Param        *Parameter
	Body         *RequestBody
}

// QueryArgs is an insertion-ordered set of query arguments keyed by name.
type QueryArgs struct {
	order  []string
	byName map[string]*QueryArgDefinition
}

// NewQueryArgs returns an empty QueryArgs.
func NewQueryArgs() *QueryArgs {
	return &QueryArgs{byName: map[string]*QueryArgDefinition{}}
}

// Has reports whether name is taken.
func (q *QueryArgs) Has(name string) bool {
	_, ok := q.byName[name]
	return ok
}

// Add appends def. The caller guarantees the name is free.
func (q *QueryArgs) Add(def *QueryArgDefinition) {
	if !q.Has(def.Name) {
		q.order = append(q.order, def.Name)
	}
	q.byName[def.Name] = def
}

// Get returns the argument called name.
func (q *QueryArgs) Get(name string) (*QueryArgDefinition, bool) {
	def, ok := q.byName[name]
	return def, ok
}

// Len is the number of arguments.
func (q *QueryArgs) Len() int { return len(q.order) }

// All returns the arguments in insertion order.
func (q *QueryArgs) All() []*QueryArgDefinition {
	out := make([]*QueryArgDefinition, len(q.order))
	for i, n := range q.order {
		out[i] = q.byName[n]
	}
	return out
}

// Names returns the argument names in insertion order.
func (q *QueryArgs) Names() []string {
	return append([]string(nil), q.order...)
}

// FromParam returns the argument built from the given raw parameter.
func (q *QueryArgs) FromParam(in ParamLocation, name string) (*QueryArgDefinition, bool) {
	for _, n := range q.order {
		def := q.byName[n]
		if def.Origin == OriginParam && def.Param.In == in && def.Param.Name == name {
			return def, true
		}
	}
	return nil, false
}

// FromParamNamed returns the first argument built from a raw parameter
// called name, in any location.
func (q *QueryArgs) FromParamNamed(name string) (*QueryArgDefinition, bool) {
	for _, n := range q.order {
		def := q.byName[n]
		if def.Origin == OriginParam && def.Param.Name == name {
			return def, true
		}
	}
	return nil, false
}

// Body returns the request body argument, if any.
func (q *QueryArgs) Body() (*QueryArgDefinition, bool) {
	for _, n := range q.order {
		if def := q.byName[n]; def.Origin == OriginBody {
			return def, true
		}
	}
	return nil, false
}

// EndpointKind is the RTK Query builder method used for an endpoint.
type EndpointKind string

const (
	KindQuery    EndpointKind = "query"
	KindMutation EndpointKind = "mutation"
)

// MutationVerb is the closed set of verbs that get an optimistic update.
type MutationVerb string

const (
	VerbPost   MutationVerb = "post"
	VerbPut    MutationVerb = "put"
	VerbDelete MutationVerb = "delete"
)

// ParseMutationVerb maps an HTTP method to a MutationVerb.
func ParseMutationVerb(verb string) (MutationVerb, bool) {
	switch MutationVerb(verb) {
	case VerbPost, VerbPut, VerbDelete:
		return MutationVerb(verb), true
	}
	return "", false
}

// OptimisticUpdateSpec describes the cache patch applied when a mutation
// starts.
type OptimisticUpdateSpec struct {
	Verb MutationVerb
	// CacheKeyToUpdate is the endpoint name of the grouping's index query.
	CacheKeyToUpdate string
	// UpdateObjectKey is the query argument holding the request body.
	UpdateObjectKey string
	PrimaryKeyPath  KeyPath
	// KeyArg is the query argument or body field the key is read from.
	KeyArg string
	// Placeholder is set for post without an explicit key path.
	Placeholder bool
}

// EndpointDescriptor is the assembled form of one endpoint.
type EndpointDescriptor struct {
	OperationName    string
	Verb             string
	Kind             EndpointKind
	ResponseTypeRef  string
	QueryArgTypeRef  string
	QueryFn          tsast.Expr
	Tags             []string
	IsIndexEndpoint  bool
	IndexResponseKey string
	OptimisticUpdate *OptimisticUpdateSpec
	// TypeAliases are the response and argument alias declarations.
	TypeAliases []*tsast.TypeAlias
	// Definition is the `<name>: build.<kind>(...)` property.
	Definition tsast.Member
}

// TagSet is a deduplicated set of tags that keeps first-seen order.
type TagSet struct {
	order []string
	seen  map[string]bool
}

// NewTagSet returns a TagSet holding tags.
func NewTagSet(tags ...string) *TagSet {
	s := &TagSet{seen: map[string]bool{}}
	s.Add(tags...)
	return s
}

// Add inserts tags that are not present yet.
func (s *TagSet) Add(tags ...string) {
	for _, t := range tags {
		if s.seen[t] {
			continue
		}
		s.seen[t] = true
		s.order = append(s.order, t)
	}
}

// Contains reports whether tag is present.
func (s *TagSet) Contains(tag string) bool { return s.seen[tag] }

// Len is the number of tags.
func (s *TagSet) Len() int { return len(s.order) }

// Values returns the tags in first-seen order.
func (s *TagSet) Values() []string {
	return append([]string(nil), s.order...)
}
