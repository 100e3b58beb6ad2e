package generator

import (
	"fmt"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

// defaultKeyField is the entity field a post writes its placeholder key to
// when the operation names no key path.
const defaultKeyField = "id"

// planOptimisticUpdate validates the key path of a mutation against its
// arguments and returns the update to synthesize.
func planOptimisticUpdate(op domain.OperationDefinition, verb domain.MutationVerb, args *domain.QueryArgs, indexEndpoint string) (*domain.OptimisticUpdateSpec, error) {
	spec := &domain.OptimisticUpdateSpec{Verb: verb, CacheKeyToUpdate: indexEndpoint}

	body, hasBody := args.Body()
	if hasBody {
		spec.UpdateObjectKey = body.Name
	}

	switch verb {
	case domain.VerbPost, domain.VerbPut:
		if !hasBody {
			return nil, &domain.ConfigError{Value: op.Verb, Err: domain.ErrMissingRequestBody}
		}
	}

	if op.Extensions.UpdateByKey == nil {
		if verb != domain.VerbPost {
			return nil, &domain.ConfigError{Value: domain.ExtUpdateByKey, Err: domain.ErrMissingPrimaryKeyPath}
		}
		spec.PrimaryKeyPath = domain.KeyPath{Source: domain.FromRequestBody, Field: defaultKeyField}
		spec.KeyArg = defaultKeyField
		spec.Placeholder = true
		return spec, nil
	}

	kp := *op.Extensions.UpdateByKey
	spec.PrimaryKeyPath = kp
	switch kp.Source {
	case domain.FromParameters:
		arg, ok := args.FromParamNamed(kp.Field)
		if !ok {
			return nil, &domain.ConfigError{
				Value: kp.String(),
				Err:   fmt.Errorf("%w: no parameter named %q", domain.ErrInvalidPrimaryKeyPath, kp.Field),
			}
		}
		spec.KeyArg = arg.Name
	case domain.FromRequestBody:
		if !hasBody {
			return nil, &domain.ConfigError{Value: kp.String(), Err: domain.ErrMissingRequestBody}
		}
		spec.KeyArg = kp.Field
	default:
		return nil, &domain.ConfigError{Value: kp.String(), Err: domain.ErrInvalidPrimaryKeyPath}
	}
	return spec, nil
}

// patchAccess builds expressions relative to the mutation input inside
// onQueryStarted.
type patchAccess struct {
	patch tsast.Expr
	flat  bool
}

func (p patchAccess) arg(name string) tsast.Expr {
	if p.flat {
		return p.patch
	}
	return tsast.Access(p.patch, name)
}

func (p patchAccess) key(spec *domain.OptimisticUpdateSpec) tsast.Expr {
	if spec.PrimaryKeyPath.Source == domain.FromParameters {
		return p.arg(spec.KeyArg)
	}
	return tsast.Access(p.arg(spec.UpdateObjectKey), spec.KeyArg)
}

// SynthesizeOptimisticUpdate renders the onQueryStarted handler that
// patches the cached index query of sliceName when the mutation starts.
func (g *Generator) SynthesizeOptimisticUpdate(spec *domain.OptimisticUpdateSpec, sliceName string, flat bool) (*tsast.Method, error) {
	ids := g.ids
	p := patchAccess{patch: tsast.ID(ids.Patch), flat: flat}
	cache := tsast.ID(ids.Cache)
	entities := tsast.Dot(cache, "entities")
	cacheIDs := tsast.Dot(cache, "ids")
	assign := tsast.Dot(tsast.ID("Object"), "assign")

	var stmts []tsast.Stmt
	switch spec.Verb {
	case domain.VerbPost:
		// New entities live under the placeholder key 0 until refetched.
		placeholder := tsast.Num("0")
		body := p.arg(spec.UpdateObjectKey)
		stmts = []tsast.Stmt{
			tsast.StmtOf(tsast.CallOf(assign, body, tsast.Obj(false, tsast.Prop(spec.PrimaryKeyPath.Field, placeholder)))),
			tsast.StmtOf(tsast.CallOf(assign, entities, tsast.Obj(false, tsast.Prop("0", body)))),
			tsast.StmtOf(tsast.CallOf(tsast.Dot(cacheIDs, "push"), placeholder)),
		}
	case domain.VerbPut:
		key := p.key(spec)
		stmts = []tsast.Stmt{
			tsast.ConstOf("replacement", tsast.Index(entities, key)),
			&tsast.ExprStmt{
				X:       tsast.CallOf(assign, tsast.ID("replacement"), p.arg(spec.UpdateObjectKey)),
				Comment: "upsert patch into replacement",
			},
			tsast.StmtOf(tsast.CallOf(assign, tsast.Index(entities, key), tsast.ID("replacement"))),
		}
	case domain.VerbDelete:
		key := p.key(spec)
		stmts = []tsast.Stmt{
			tsast.ConstOf("index", tsast.CallOf(tsast.Dot(cacheIDs, "indexOf"), key)),
			tsast.StmtOf(tsast.CallOf(tsast.Dot(cacheIDs, "splice"), tsast.ID("index"), tsast.Num("1"))),
			tsast.StmtOf(&tsast.Delete{X: tsast.Index(entities, key)}),
		}
	default:
		return nil, &domain.ConfigError{Value: string(spec.Verb), Err: domain.ErrUnsupportedVerb}
	}

	update := tsast.CallOf(
		tsast.Dot(tsast.ID(sliceName), "util", ids.UpdateQueryData),
		tsast.Str(spec.CacheKeyToUpdate),
		tsast.ID("undefined"),
		&tsast.Arrow{Params: []tsast.Param{{Name: ids.Cache}}, Body: &tsast.Block{Stmts: stmts}},
	)

	patchParam := tsast.Param{Binding: &tsast.ObjectBinding{Elements: []tsast.BindingElement{{Rest: true, Name: ids.Patch}}}}
	if flat {
		patchParam = tsast.Param{Name: ids.Patch}
	}

	return &tsast.Method{
		Async: true,
		Name:  ids.OnQueryStarted,
		Params: []tsast.Param{
			patchParam,
			{Binding: tsast.Bind(ids.Dispatch, ids.QueryFulfilled)},
		},
		Body: &tsast.Block{Stmts: []tsast.Stmt{
			tsast.StmtOf(tsast.CallOf(tsast.ID(ids.Dispatch), update)),
		}},
	}, nil
}
