package generator

import (
	"fmt"
	"strings"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

// groupContext is the state shared by the endpoints of one module.
type groupContext struct {
	grouping      string
	sliceName     string
	indexEndpoint string
	opts          domain.GenerationOptions
	registry      *Registry
}

// endpointKind applies the first matching override, else GET is a query
// and every other verb a mutation.
func endpointKind(name string, op domain.OperationDefinition, opts domain.GenerationOptions) domain.EndpointKind {
	if ov, ok := opts.Override(name, op); ok && ov.Type != "" {
		return ov.Type
	}
	if strings.EqualFold(op.Verb, "get") {
		return domain.KindQuery
	}
	return domain.KindMutation
}

// responseType is the union of the JSON bodies of the 2xx responses, each
// annotated with its status line.
func responseType(op domain.OperationDefinition) tsast.Type {
	if !op.ReturnsJSON {
		return tsast.Unknown
	}
	var types []tsast.Type
	for _, r := range op.SuccessResponses() {
		if !r.JSON || r.Type == nil {
			continue
		}
		doc := strings.TrimSpace(fmt.Sprintf("status %s %s", r.Code, r.Description))
		types = append(types, &tsast.Commented{Doc: doc, Type: r.Type})
	}
	if len(types) == 0 {
		return tsast.Unknown
	}
	return tsast.UnionOf(types...)
}

// indexElementType is the entity type stored by the index endpoint's
// entity adapter.
func indexElementType(alias *tsast.TypeAlias, key string) tsast.Type {
	if alias.Type == tsast.Unknown {
		return tsast.Unknown
	}
	var list tsast.Type = tsast.Ref(alias.Name)
	if key != "" {
		list = &tsast.IndexedAccess{Object: list, Index: &tsast.Literal{Value: tsast.Str(key)}}
	}
	return &tsast.IndexedAccess{Object: list, Index: tsast.Number}
}

// assembleEndpoint builds the endpoint definition of op together with its
// response and argument aliases.
func (g *Generator) assembleEndpoint(c *groupContext, op domain.OperationDefinition) (domain.EndpointDescriptor, error) {
	name := OperationNameOf(op)
	fail := func(err error) (domain.EndpointDescriptor, error) {
		return domain.EndpointDescriptor{}, domain.WithOperation(err, name)
	}

	kind := endpointKind(name, op, c.opts)

	respAlias := &tsast.TypeAlias{
		Export: true,
		Name:   ResponseAliasName(name, c.opts.ResponseSuffix),
		Type:   responseType(op),
	}
	if err := c.registry.Register(respAlias.Name); err != nil {
		return fail(err)
	}

	args := BuildQueryArgs(op)
	flat := c.opts.FlattenArg && args.Len() == 1
	argAlias := &tsast.TypeAlias{
		Export: true,
		Name:   ArgAliasName(name, c.opts.ArgSuffix),
		Type:   argTypeLiteral(args, flat),
	}
	if err := c.registry.Register(argAlias.Name); err != nil {
		return fail(err)
	}

	queryFn, err := g.buildQueryFn(op, args, kind, flat)
	if err != nil {
		return fail(err)
	}

	desc := domain.EndpointDescriptor{
		OperationName:   name,
		Verb:            op.Verb,
		Kind:            kind,
		ResponseTypeRef: respAlias.Name,
		QueryArgTypeRef: argAlias.Name,
		QueryFn:         queryFn,
		TypeAliases:     []*tsast.TypeAlias{respAlias, argAlias},
	}

	var builtType tsast.Type = tsast.Ref(respAlias.Name)
	members := []tsast.Member{tsast.Prop("query", queryFn)}

	if op.Extensions.IndexEndpoint {
		desc.IsIndexEndpoint = true
		desc.IndexResponseKey = op.Extensions.IndexResponseKey
		builtType = tsast.Ref(g.ids.EntityState, indexElementType(respAlias, desc.IndexResponseKey), tsast.Ref(g.ids.EntityID))

		var data tsast.Expr = tsast.ID(g.ids.ResponseData)
		if desc.IndexResponseKey != "" {
			data = tsast.Access(data, desc.IndexResponseKey)
		}
		members = append(members, tsast.Prop("transformResponse", &tsast.Arrow{
			Params: []tsast.Param{{Name: g.ids.ResponseData, Type: tsast.Ref(respAlias.Name)}},
			Body:   tsast.CallOf(tsast.Dot(tsast.ID(g.ids.EntityAdapterVar), g.ids.SetAll), tsast.ID(g.ids.InitialStateVar), data),
		}))
	}

	if kind == domain.KindMutation {
		verb, ok := domain.ParseMutationVerb(strings.ToLower(op.Verb))
		switch {
		case ok:
			spec, err := planOptimisticUpdate(op, verb, args, c.indexEndpoint)
			if err != nil {
				return fail(err)
			}
			method, err := g.SynthesizeOptimisticUpdate(spec, c.sliceName, flat)
			if err != nil {
				return fail(err)
			}
			desc.OptimisticUpdate = spec
			members = append(members, method)
		case op.Extensions.UpdateByKey != nil:
			return fail(&domain.ConfigError{Value: op.Verb, Err: domain.ErrUnsupportedVerb})
		}
	}

	if c.opts.Tag && len(op.Tags) > 0 {
		desc.Tags = domain.NewTagSet(op.Tags...).Values()
		tagProp := "invalidatesTags"
		if kind == domain.KindQuery {
			tagProp = "providesTags"
		}
		elems := make([]tsast.Expr, len(desc.Tags))
		for i, t := range desc.Tags {
			elems[i] = tsast.Str(t)
		}
		members = append(members, tsast.Prop(tagProp, &tsast.Array{Elems: elems}))
	}

	desc.Definition = &tsast.Property{
		Name: name,
		Value: &tsast.Call{
			Fn:       tsast.Dot(tsast.ID(g.ids.Builder), string(kind)),
			TypeArgs: []tsast.Type{builtType, tsast.Ref(argAlias.Name)},
			Args:     []tsast.Expr{tsast.Obj(true, members...)},
		},
	}
	return desc, nil
}
