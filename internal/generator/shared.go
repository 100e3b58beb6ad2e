package generator

import (
	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

func (g *Generator) relative(module string) string { return "./" + module }

// GenerateCacheSlice builds cache.ts, a key/value slice for UI state with
// a selector and two hooks.
func (g *Generator) GenerateCacheSlice() *Module {
	ids := g.ids
	key, value := tsast.ID("key"), tsast.ID("value")
	keyValueParams := []tsast.Param{{Name: "key", Type: tsast.String}, {Name: "value", Type: tsast.Any}}
	dispatchUpdate := tsast.StmtOf(tsast.CallOf(tsast.ID(ids.Dispatch), tsast.CallOf(tsast.ID(ids.UpdateCache), key, value)))
	useDispatch := tsast.ConstOf(ids.Dispatch, tsast.CallOf(tsast.ID("useDispatch")))

	reducer := &tsast.Method{
		Name:   "reducer",
		Params: []tsast.Param{{Name: ids.State}, {Name: "action"}},
		Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.Const{Binding: tsast.Bind("key", "value"), Init: tsast.Dot(tsast.ID("action"), "payload")},
			&tsast.ExprStmt{
				X:       &tsast.Binary{X: tsast.Index(tsast.ID(ids.State), key), Op: "=", Y: value},
				Comment: "@ts-ignore",
			},
		}},
	}
	prepare := &tsast.Method{
		Name:   "prepare",
		Params: keyValueParams,
		Body: &tsast.Block{Stmts: []tsast.Stmt{
			&tsast.Return{X: tsast.Obj(false,
				tsast.Prop("payload", tsast.Obj(false, &tsast.Shorthand{Name: "key"}, &tsast.Shorthand{Name: "value"})),
				tsast.Prop("meta", tsast.ID("undefined")),
				tsast.Prop("error", tsast.ID("undefined")),
			)},
		}},
	}

	slice := tsast.CallOf(tsast.ID(ids.CreateSlice), tsast.Obj(true,
		tsast.Prop("name", tsast.Str(ids.CacheSliceName)),
		&tsast.Shorthand{Name: ids.InitialStateVar},
		tsast.Prop("reducers", tsast.Obj(true,
			tsast.Prop(ids.UpdateCache, tsast.Obj(true, reducer, prepare)),
		)),
	))

	file := &tsast.File{Stmts: []tsast.Stmt{
		tsast.ImportNamed(ids.ToolkitModule, ids.CreateSlice),
		tsast.ImportNamed(ids.ReactModule, "useEffect"),
		tsast.ImportNamed(ids.ReduxModule, "useDispatch"),
		&tsast.Const{
			Name: ids.InitialStateVar,
			Type: tsast.Ref("Record", tsast.String, tsast.Any),
			Init: tsast.Obj(false),
		},
		tsast.ConstOf(ids.CacheSliceName, slice),
		&tsast.Const{Binding: tsast.Bind(ids.UpdateCache), Init: tsast.Dot(tsast.ID(ids.CacheSliceName), "actions")},
		tsast.ExportConst(ids.CacheReducerVar, tsast.Dot(tsast.ID(ids.CacheSliceName), "reducer")),
		tsast.ExportConst(ids.SelectCache, &tsast.Arrow{
			Params: []tsast.Param{{Name: ids.State, Type: tsast.Any}},
			Body:   tsast.Dot(tsast.ID(ids.State), ids.CacheSliceName),
		}),
		&tsast.Func{
			Export: true,
			Name:   ids.UseCacheInit,
			Params: keyValueParams,
			Body: &tsast.Block{Stmts: []tsast.Stmt{
				useDispatch,
				tsast.StmtOf(tsast.CallOf(tsast.ID("useEffect"),
					&tsast.Arrow{Body: &tsast.Block{Stmts: []tsast.Stmt{dispatchUpdate}}},
					&tsast.Array{},
				)),
			}},
		},
		&tsast.Func{
			Export: true,
			Name:   ids.UseCacheUpdate,
			Body: &tsast.Block{Stmts: []tsast.Stmt{
				useDispatch,
				&tsast.Return{X: &tsast.Arrow{
					Params: keyValueParams,
					Body:   &tsast.Block{Stmts: []tsast.Stmt{dispatchUpdate}},
				}},
			}},
		},
		&tsast.ExportDefault{X: tsast.Dot(tsast.ID(ids.CacheSliceName), "reducer")},
	}}

	return &Module{Name: ids.CacheModule, FileName: ids.CacheModule + ".ts", File: file}
}

// GenerateStore builds store.ts. Reducers are keyed by grouping and the
// API middlewares are chained onto the defaults in grouping order.
func (g *Generator) GenerateStore(groupings []string) (*Module, error) {
	ids := g.ids
	file := &tsast.File{Stmts: []tsast.Stmt{
		tsast.ImportNamed(ids.ToolkitModule, ids.ConfigureStore),
		tsast.ImportNamed(ids.QueryModule, ids.SetupListeners),
	}}

	reducers := make([]tsast.Member, 0, len(groupings)+1)
	var middleware tsast.Expr = tsast.CallOf(tsast.ID("getDefaultMiddleware"))
	for _, key := range groupings {
		if key == ids.CacheSliceName {
			return nil, &domain.ConfigError{Grouping: key, Value: key, Err: domain.ErrInvalidGroupingKey}
		}
		slice := tsast.ID(APISliceName(key))
		file.Stmts = append(file.Stmts, tsast.ImportNamed(g.relative(APISliceName(key)), slice.Name))
		reducers = append(reducers, tsast.Prop(ReducerPath(key), tsast.Dot(slice, "reducer")))
		middleware = tsast.CallOf(tsast.Dot(middleware, "concat"), tsast.Dot(slice, "middleware"))
	}
	reducers = append(reducers, tsast.Prop(ids.CacheSliceName, tsast.ID(ids.CacheReducerVar)))

	store := tsast.ID(ids.StoreVar)
	file.Stmts = append(file.Stmts,
		tsast.ImportNamed(g.relative(ids.CacheModule), ids.CacheReducerVar),
		tsast.ConstOf(ids.StoreVar, tsast.CallOf(tsast.ID(ids.ConfigureStore), tsast.Obj(true,
			tsast.Prop("reducer", tsast.Obj(true, reducers...)),
			tsast.Prop("middleware", &tsast.Arrow{
				Params: []tsast.Param{{Name: "getDefaultMiddleware"}},
				Body:   middleware,
			}),
		))),
		tsast.StmtOf(tsast.CallOf(tsast.ID(ids.SetupListeners), tsast.Dot(store, "dispatch"))),
		&tsast.ExportDefault{X: store},
	)
	return &Module{Name: ids.StoreModule, FileName: ids.StoreModule + ".ts", File: file}, nil
}

// GenerateIndex builds index.ts re-exporting the selectors and hooks of
// every API module and the cache helpers. Every re-exported name is claimed
// in one registry for the whole run, so two groupings exporting the same
// hook or selector fail instead of producing duplicate exports.
func (g *Generator) GenerateIndex(apiModules []*Module) (*Module, error) {
	ids := g.ids
	exports := NewRegistry()
	cacheNames := []string{ids.UseCacheInit, ids.UseCacheUpdate, ids.SelectCache}
	for _, name := range cacheNames {
		if err := exports.Register(name); err != nil {
			return nil, err
		}
	}

	file := &tsast.File{}
	for _, m := range apiModules {
		for _, names := range [][]string{m.Selectors, m.Hooks} {
			for _, name := range names {
				if err := exports.Register(name); err != nil {
					return nil, &domain.ConfigError{Grouping: m.Name, Value: name, Err: domain.ErrDuplicateExport}
				}
			}
		}

		from := g.relative(APISliceName(m.Name))
		file.Stmts = append(file.Stmts, &tsast.ExportFrom{Module: from, Names: m.Selectors})
		if len(m.Hooks) > 0 {
			file.Stmts = append(file.Stmts, &tsast.ExportFrom{Module: from, Names: m.Hooks})
		}
	}
	file.Stmts = append(file.Stmts, &tsast.ExportFrom{
		Module: g.relative(ids.CacheModule),
		Names:  cacheNames,
	})
	return &Module{Name: "index", FileName: "index.ts", File: file}, nil
}
