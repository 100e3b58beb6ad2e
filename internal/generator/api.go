package generator

import (
	"log/slog"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

// GenerateAPIModule builds the `<key>ApiSlice.ts` module of one grouping.
func (g *Generator) GenerateAPIModule(doc *domain.APIDocument, grouping string, opts domain.GenerationOptions) (*Module, error) {
	opts = opts.WithDefaults()
	logger := g.logger.With(slog.String("grouping", grouping))

	sliceName := APISliceName(grouping)
	if !tsast.IsValidIdentifier(grouping) || grouping == g.ids.CacheSliceName {
		return nil, &domain.ConfigError{Grouping: grouping, Value: grouping, Err: domain.ErrInvalidGroupingKey}
	}
	if doc.BaseURL == "" {
		return nil, &domain.ConfigError{Grouping: grouping, Err: domain.ErrMissingBaseURL}
	}

	var ops []domain.OperationDefinition
	for _, op := range doc.OperationsIn(grouping) {
		if opts.Includes(OperationNameOf(op), op) {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil, &domain.ConfigError{Grouping: grouping, Err: domain.ErrEmptyGrouping}
	}

	index, err := FindIndexEndpoint(ops)
	if err != nil {
		return nil, domain.WithGrouping(err, grouping)
	}

	c := &groupContext{
		grouping:      grouping,
		sliceName:     sliceName,
		indexEndpoint: OperationNameOf(index),
		opts:          opts,
		registry:      NewRegistry(),
	}

	endpoints := make([]domain.EndpointDescriptor, 0, len(ops))
	for _, op := range ops {
		ep, err := g.assembleEndpoint(c, op)
		if err != nil {
			return nil, domain.WithGrouping(err, grouping)
		}
		endpoints = append(endpoints, ep)
	}

	var tags []string
	if opts.Tag {
		tags = ExtractTagTypes(ops)
	}

	var aliases []tsast.Stmt
	var roots []tsast.Type
	for _, ep := range endpoints {
		for _, a := range ep.TypeAliases {
			aliases = append(aliases, a)
			roots = append(roots, a.Type)
		}
	}

	decls := ReachableDeclarations(doc.Declarations, roots)
	for _, d := range decls {
		if err := c.registry.Register(d.Name); err != nil {
			return nil, domain.WithGrouping(err, grouping)
		}
	}

	file := &tsast.File{}
	file.Stmts = append(file.Stmts,
		tsast.ImportNamed(g.ids.ToolkitModule, g.ids.CreateEntityAdapter, g.ids.EntityID, g.ids.EntityState),
		tsast.ImportNamed(g.ids.QueryModule, g.ids.CreateAPI, g.ids.FetchBaseQuery),
		tsast.ConstOf(g.ids.EntityAdapterVar, tsast.CallOf(tsast.ID(g.ids.CreateEntityAdapter))),
		tsast.ConstOf(g.ids.InitialStateVar, tsast.CallOf(tsast.Dot(tsast.ID(g.ids.EntityAdapterVar), g.ids.GetInitialState))),
		g.createAPICall(grouping, doc.BaseURL, tags, endpoints),
	)
	file.Stmts = append(file.Stmts, g.selectorStatements(grouping, c.indexEndpoint)...)
	file.Stmts = append(file.Stmts, aliases...)
	for _, d := range decls {
		file.Stmts = append(file.Stmts, d.Stmt)
	}

	hooks := HookNames(endpoints, opts.Hooks)
	if len(hooks) > 0 {
		file.Stmts = append(file.Stmts, &tsast.Const{
			Export:  true,
			Binding: tsast.Bind(hooks...),
			Init:    tsast.ID(sliceName),
		})
	}

	logger.Debug("assembled api module",
		slog.Int("endpoints", len(endpoints)),
		slog.Int("declarations", len(decls)),
		slog.String("index_endpoint", c.indexEndpoint))

	return &Module{
		Name:      grouping,
		FileName:  ModuleFileName(grouping),
		File:      file,
		Endpoints: endpoints,
		Selectors: SelectorNames(grouping),
		Hooks:     hooks,
	}, nil
}

// createAPICall renders `export const <key>ApiSlice = createApi({...})`.
func (g *Generator) createAPICall(grouping, baseURL string, tags []string, endpoints []domain.EndpointDescriptor) tsast.Stmt {
	defs := make([]tsast.Member, len(endpoints))
	for i, ep := range endpoints {
		defs[i] = ep.Definition
	}
	tagTypes := make([]tsast.Expr, len(tags))
	for i, t := range tags {
		tagTypes[i] = tsast.Str(t)
	}

	config := tsast.Obj(true,
		tsast.Prop("reducerPath", tsast.Str(ReducerPath(grouping))),
		tsast.Prop("baseQuery", tsast.CallOf(tsast.ID(g.ids.FetchBaseQuery), tsast.Obj(false, tsast.Prop("baseUrl", tsast.Str(baseURL))))),
		tsast.Prop("tagTypes", &tsast.Array{Elems: tagTypes}),
		tsast.Prop(g.ids.EndpointsProperty, &tsast.Arrow{
			Params: []tsast.Param{{Name: g.ids.Builder}},
			Body:   &tsast.Object{Members: defs, Multiline: true},
		}),
	)
	return tsast.ExportConst(APISliceName(grouping), tsast.CallOf(tsast.ID(g.ids.CreateAPI), config))
}

// selectorStatements renders the entity selectors over the cached index
// query:
//
//	const selectEntryResult = (state: any) => tasksApiSlice.endpoints.getTasks.select()(state).data;
//	const entrySelectors = entityAdapter.getSelectors((state: any) => selectEntryResult(state) ?? initialState);
//	export const selectTasks = entrySelectors.selectAll;
func (g *Generator) selectorStatements(grouping, indexEndpoint string) []tsast.Stmt {
	state := tsast.ID(g.ids.State)
	stateParam := []tsast.Param{{Name: g.ids.State, Type: tsast.Any}}

	selectCall := tsast.CallOf(tsast.Dot(tsast.ID(APISliceName(grouping)), g.ids.EndpointsProperty, indexEndpoint, "select"))
	entryResult := &tsast.Arrow{
		Params: stateParam,
		Body:   tsast.Dot(tsast.CallOf(selectCall, state), "data"),
	}
	entrySelectors := tsast.CallOf(
		tsast.Dot(tsast.ID(g.ids.EntityAdapterVar), g.ids.GetSelectors),
		&tsast.Arrow{
			Params: stateParam,
			Body: &tsast.Binary{
				X:  tsast.CallOf(tsast.ID(g.ids.SelectEntryResult), state),
				Op: "??",
				Y:  tsast.ID(g.ids.InitialStateVar),
			},
		},
	)

	stmts := []tsast.Stmt{
		tsast.ConstOf(g.ids.SelectEntryResult, entryResult),
		tsast.ConstOf(g.ids.EntrySelectors, entrySelectors),
	}
	for _, kind := range selectorKinds {
		stmts = append(stmts, tsast.ExportConst(
			SelectorName(grouping, kind),
			tsast.Dot(tsast.ID(g.ids.EntrySelectors), adapterMethod(kind)),
		))
	}
	return stmts
}

// HookNames lists the hooks exported for endpoints, in endpoint order with
// the lazy variant right after its eager query hook.
func HookNames(endpoints []domain.EndpointDescriptor, hooks domain.HookOptions) []string {
	var names []string
	for _, ep := range endpoints {
		if hooks.Wants(ep.Kind, false) {
			names = append(names, HookName(ep.OperationName, ep.Kind, false))
		}
		if ep.Kind == domain.KindQuery && hooks.Wants(ep.Kind, true) {
			names = append(names, HookName(ep.OperationName, ep.Kind, true))
		}
	}
	return names
}

// ReachableDeclarations returns the declarations referenced from roots,
// directly or through other declarations, in declaration order.
func ReachableDeclarations(decls []domain.Declaration, roots []tsast.Type) []domain.Declaration {
	byName := make(map[string]domain.Declaration, len(decls))
	for _, d := range decls {
		byName[d.Name] = d
	}
	needed := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if needed[name] {
			return
		}
		d, ok := byName[name]
		if !ok {
			return
		}
		needed[name] = true
		for _, ref := range d.Refs() {
			visit(ref)
		}
	}
	for _, root := range roots {
		tsast.TypeRefs(root, visit)
	}

	var out []domain.Declaration
	for _, d := range decls {
		if needed[d.Name] {
			out = append(out, d)
		}
	}
	return out
}
