package generator

import (
	"regexp"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

var pureSnakeCaseRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// argNamer assigns collision free argument names for one operation.
type argNamer struct {
	args     *domain.QueryArgs
	rawNames []string
}

func (n *argNamer) occurrences(name string) int {
	count := 0
	for _, raw := range n.rawNames {
		if raw == name {
			count++
		}
	}
	return count
}

func (n *argNamer) contains(name string) bool {
	return n.occurrences(name) > 0
}

// name resolves the argument name for a raw name found at location.
func (n *argNamer) name(raw, location string) string {
	snake := pureSnakeCaseRe.MatchString(raw)
	name := raw
	if n.occurrences(raw) > 1 {
		name = location + "_" + raw
	}
	if camel := CamelCase(name); snake && !n.contains(camel) {
		name = camel
	}
	for n.args.Has(name) {
		name = "_" + name
	}
	return name
}

// BuildQueryArgs maps the parameters and request body of op onto uniquely
// named query arguments. Parameters come first in declaration order,
// followed by the body.
func BuildQueryArgs(op domain.OperationDefinition) *domain.QueryArgs {
	args := domain.NewQueryArgs()
	namer := &argNamer{args: args}
	for _, p := range op.Parameters {
		namer.rawNames = append(namer.rawNames, p.Name)
	}

	for i := range op.Parameters {
		p := &op.Parameters[i]
		name := namer.name(p.Name, string(p.In))
		args.Add(&domain.QueryArgDefinition{
			Name:         name,
			OriginalName: p.Name,
			Type:         orUnknown(p.Type),
			Required:     p.Required,
			Origin:       domain.OriginParam,
			Description:  p.Description,
			Param:        p,
		})
	}

	if body := op.RequestBody; body != nil {
		candidate := bodyCandidate(body)
		raw := candidate
		if args.Has(candidate) {
			raw = "body"
		}
		name := namer.name(raw, "body")
		args.Add(&domain.QueryArgDefinition{
			Name:         name,
			OriginalName: candidate,
			Type:         orUnknown(body.Type),
			Required:     true,
			Origin:       domain.OriginBody,
			Description:  body.Description,
			Body:         body,
		})
	}
	return args
}

func bodyCandidate(body *domain.RequestBody) string {
	for _, s := range []string{body.TypeName, body.RefName, body.Title} {
		if s != "" {
			if c := CamelCase(s); c != "" {
				return c
			}
		}
	}
	return "body"
}

func orUnknown(t tsast.Type) tsast.Type {
	if t == nil {
		return tsast.Unknown
	}
	return t
}

// argTypeLiteral renders the argument alias body: void without arguments,
// the single argument's own type when flattened, otherwise an object type.
func argTypeLiteral(args *domain.QueryArgs, flat bool) tsast.Type {
	all := args.All()
	switch {
	case len(all) == 0:
		return tsast.Void
	case flat:
		if all[0].Description != "" {
			return &tsast.Commented{Doc: all[0].Description, Type: all[0].Type}
		}
		return all[0].Type
	}
	lit := &tsast.TypeLit{}
	for _, def := range all {
		lit.Members = append(lit.Members, tsast.PropertySignature{
			Name:     def.Name,
			Optional: !def.Required,
			Type:     def.Type,
			Doc:      def.Description,
		})
	}
	return lit
}
