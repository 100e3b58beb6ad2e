package generator

import (
	"fmt"
	"strings"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

// argAccess reads one query argument from the query function input.
type argAccess struct {
	root tsast.Expr
	flat bool
}

func (a argAccess) get(name string) tsast.Expr {
	if a.flat {
		return a.root
	}
	return tsast.Access(a.root, name)
}

// buildQueryFn returns `(queryArg) => ({ url, method, body, cookies,
// headers, params })` for an endpoint.
func (g *Generator) buildQueryFn(op domain.OperationDefinition, args *domain.QueryArgs, kind domain.EndpointKind, flat bool) (tsast.Expr, error) {
	access := argAccess{root: tsast.ID(g.ids.QueryArg), flat: flat}

	url, err := pathExpression(op.Path, pickParams(args, domain.InPath), access)
	if err != nil {
		return nil, err
	}

	var method tsast.Expr
	if !(kind == domain.KindQuery && strings.EqualFold(op.Verb, "get")) {
		method = tsast.Str(strings.ToUpper(op.Verb))
	}

	var body tsast.Expr
	if def, ok := args.Body(); ok {
		body = access.get(def.Name)
	}

	var params []tsast.Param
	if args.Len() > 0 {
		params = []tsast.Param{{Name: g.ids.QueryArg}}
	}

	return &tsast.Arrow{
		Params: params,
		Body: tsast.Obj(true,
			tsast.Prop("url", url),
			tsast.Prop("method", method),
			tsast.Prop("body", body),
			tsast.Prop("cookies", paramObject(pickParams(args, domain.InCookie), access)),
			tsast.Prop("headers", paramObject(pickParams(args, domain.InHeader), access)),
			tsast.Prop("params", paramObject(pickParams(args, domain.InQuery), access)),
		),
	}, nil
}

func pickParams(args *domain.QueryArgs, in domain.ParamLocation) []*domain.QueryArgDefinition {
	var out []*domain.QueryArgDefinition
	for _, def := range args.All() {
		if def.Origin == domain.OriginParam && def.Param.In == in {
			out = append(out, def)
		}
	}
	return out
}

// paramObject maps raw parameter names to argument values, or returns nil
// when there is nothing to send.
func paramObject(defs []*domain.QueryArgDefinition, access argAccess) tsast.Expr {
	if len(defs) == 0 {
		return nil
	}
	members := make([]tsast.Member, len(defs))
	for i, def := range defs {
		members[i] = &tsast.Property{Name: def.OriginalName, Value: access.get(def.Name)}
	}
	return &tsast.Object{Members: members}
}

// pathExpression turns /tasks/{id}/notes into a template literal that
// substitutes the path arguments. Every placeholder must name a path
// parameter.
func pathExpression(path string, pathArgs []*domain.QueryArgDefinition, access argAccess) (tsast.Expr, error) {
	open := strings.IndexByte(path, '{')
	if open < 0 {
		return &tsast.TemplateLit{Head: path}, nil
	}
	tpl := &tsast.TemplateLit{Head: path[:open]}
	rest := path[open:]
	for rest != "" {
		closeIdx := strings.IndexByte(rest, '}')
		if closeIdx < 0 {
			// Unterminated placeholder, keep it literally.
			last := len(tpl.Spans) - 1
			if last < 0 {
				tpl.Head += rest
			} else {
				tpl.Spans[last].Literal += rest
			}
			break
		}
		name := rest[1:closeIdx]
		rest = rest[closeIdx+1:]
		literal := rest
		if next := strings.IndexByte(rest, '{'); next >= 0 {
			literal = rest[:next]
			rest = rest[next:]
		} else {
			rest = ""
		}

		arg := findPathArg(pathArgs, name)
		if arg == nil {
			return nil, &domain.ConfigError{
				Value: name,
				Err:   fmt.Errorf("%w in %q", domain.ErrUndefinedPathParameter, path),
			}
		}
		tpl.Spans = append(tpl.Spans, tsast.TemplateSpan{Expr: access.get(arg.Name), Literal: literal})
	}
	return tpl, nil
}

func findPathArg(defs []*domain.QueryArgDefinition, original string) *domain.QueryArgDefinition {
	for _, def := range defs {
		if def.OriginalName == original {
			return def
		}
	}
	return nil
}
