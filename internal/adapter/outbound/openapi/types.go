package openapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/generator"
	"github.com/celestialdb/codegen/internal/tsast"
)

const componentSchemaPrefix = "#/components/schemas/"

// access selects which properties of read/write-only aware schemas are
// visible.
type access int

const (
	accessAll access = iota
	// accessRead drops writeOnly properties (responses).
	accessRead
	// accessWrite drops readOnly properties (request bodies).
	accessWrite
)

// component is a schema from components.schemas with its declaration names.
type component struct {
	raw    string
	name   string
	schema *openapi3.Schema
	// split is set when the schema has readOnly or writeOnly properties and
	// gets Read and Write variants.
	split bool
}

func (c *component) nameFor(mode access) string {
	if !c.split {
		return c.name
	}
	switch mode {
	case accessRead:
		return c.name + "Read"
	case accessWrite:
		return c.name + "Write"
	}
	return c.name
}

// typeConverter turns kin-openapi schemas into TypeScript type nodes.
type typeConverter struct {
	opts       domain.ResolveOptions
	components map[string]*component
	order      []string
	// visiting guards inline recursion through external references.
	visiting map[*openapi3.Schema]bool
}

func newTypeConverter(doc *openapi3.T, opts domain.ResolveOptions) *typeConverter {
	c := &typeConverter{
		opts:       opts,
		components: map[string]*component{},
		visiting:   map[*openapi3.Schema]bool{},
	}
	if doc.Components == nil {
		return c
	}

	raws := make([]string, 0, len(doc.Components.Schemas))
	for raw := range doc.Components.Schemas {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	taken := map[string]bool{}
	for _, raw := range raws {
		ref := doc.Components.Schemas[raw]
		if ref == nil || ref.Value == nil {
			continue
		}
		name := declarationName(raw)
		for i := 2; taken[name]; i++ {
			name = declarationName(raw) + strconv.Itoa(i)
		}
		taken[name] = true
		c.components[raw] = &component{
			raw:    raw,
			name:   name,
			schema: ref.Value,
			split:  !opts.MergeReadWriteOnly && hasReadWriteOnly(ref.Value, map[*openapi3.Schema]bool{}),
		}
		c.order = append(c.order, raw)
	}
	return c
}

// declarationName is the exported type name of a component schema.
func declarationName(raw string) string {
	name := generator.PascalCase(raw)
	if name == "" {
		name = "Schema"
	}
	return tsast.Sanitize(name)
}

// hasReadWriteOnly reports whether the inline part of s marks any property
// readOnly or writeOnly.
func hasReadWriteOnly(s *openapi3.Schema, seen map[*openapi3.Schema]bool) bool {
	if s == nil || seen[s] {
		return false
	}
	seen[s] = true
	for _, p := range s.Properties {
		if p == nil || p.Value == nil || p.Ref != "" {
			continue
		}
		if p.Value.ReadOnly || p.Value.WriteOnly || hasReadWriteOnly(p.Value, seen) {
			return true
		}
	}
	if s.Items != nil && s.Items.Ref == "" && hasReadWriteOnly(s.Items.Value, seen) {
		return true
	}
	for _, sub := range s.AllOf {
		if sub != nil && sub.Ref == "" && hasReadWriteOnly(sub.Value, seen) {
			return true
		}
	}
	return false
}

// componentOf returns the component a $ref points at.
func (c *typeConverter) componentOf(ref string) (*component, bool) {
	if !strings.HasPrefix(ref, componentSchemaPrefix) {
		return nil, false
	}
	comp, ok := c.components[strings.TrimPrefix(ref, componentSchemaPrefix)]
	return comp, ok
}

// convert returns the type of ref seen through mode.
func (c *typeConverter) convert(ref *openapi3.SchemaRef, mode access) tsast.Type {
	if ref == nil {
		return tsast.Unknown
	}
	if comp, ok := c.componentOf(ref.Ref); ok {
		return tsast.Ref(comp.nameFor(mode))
	}
	return c.schema(ref.Value, mode)
}

func (c *typeConverter) schema(s *openapi3.Schema, mode access) tsast.Type {
	if s == nil || c.visiting[s] {
		return tsast.Unknown
	}
	c.visiting[s] = true
	defer delete(c.visiting, s)

	t := c.shape(s, mode)
	if s.Nullable {
		t = tsast.UnionOf(t, tsast.Null)
	}
	return t
}

func (c *typeConverter) shape(s *openapi3.Schema, mode access) tsast.Type {
	switch {
	case len(s.OneOf) > 0:
		return c.union(s.OneOf, mode)
	case len(s.AnyOf) > 0:
		return c.union(s.AnyOf, mode)
	case len(s.AllOf) > 0:
		return c.intersection(s.AllOf, mode)
	case len(s.Enum) > 0:
		return enumUnion(s.Enum)
	}

	var types []string
	if s.Type != nil {
		types = *s.Type
	}
	switch len(types) {
	case 0:
		if len(s.Properties) > 0 || s.AdditionalProperties.Has != nil || s.AdditionalProperties.Schema != nil {
			return c.object(s, mode)
		}
		return tsast.Unknown
	case 1:
		return c.single(types[0], s, mode)
	}
	members := make([]tsast.Type, 0, len(types))
	for _, typ := range types {
		members = append(members, c.single(typ, s, mode))
	}
	return tsast.UnionOf(members...)
}

func (c *typeConverter) single(typ string, s *openapi3.Schema, mode access) tsast.Type {
	switch typ {
	case openapi3.TypeString:
		if s.Format == "binary" {
			return tsast.Ref("Blob")
		}
		return tsast.String
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return tsast.Number
	case openapi3.TypeBoolean:
		return tsast.Boolean
	case openapi3.TypeNull:
		return tsast.Null
	case openapi3.TypeArray:
		return &tsast.ArrayOf{Elem: c.convert(s.Items, mode)}
	case openapi3.TypeObject:
		return c.object(s, mode)
	}
	return tsast.Unknown
}

func (c *typeConverter) union(refs openapi3.SchemaRefs, mode access) tsast.Type {
	members := make([]tsast.Type, 0, len(refs))
	for _, r := range refs {
		members = append(members, c.convert(r, mode))
	}
	return tsast.UnionOf(members...)
}

func (c *typeConverter) intersection(refs openapi3.SchemaRefs, mode access) tsast.Type {
	members := make([]tsast.Type, 0, len(refs))
	for _, r := range refs {
		members = append(members, c.convert(r, mode))
	}
	if len(members) == 1 {
		return members[0]
	}
	return &tsast.Intersection{Types: members}
}

func (c *typeConverter) object(s *openapi3.Schema, mode access) tsast.Type {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	lit := &tsast.TypeLit{}
	for _, name := range names {
		prop := s.Properties[name]
		if prop == nil {
			continue
		}
		if v := prop.Value; v != nil && prop.Ref == "" && !c.opts.MergeReadWriteOnly {
			if (mode == accessRead && v.WriteOnly) || (mode == accessWrite && v.ReadOnly) {
				continue
			}
		}
		var doc string
		if prop.Value != nil && prop.Ref == "" {
			doc = prop.Value.Description
		}
		lit.Members = append(lit.Members, tsast.PropertySignature{
			Name:     name,
			Optional: !required[name],
			Type:     c.convert(prop, mode),
			Doc:      doc,
		})
	}

	switch ap := s.AdditionalProperties; {
	case ap.Schema != nil:
		lit.Index = &tsast.IndexSignature{Key: "key", KeyType: tsast.String, Value: c.convert(ap.Schema, mode)}
	case ap.Has != nil && *ap.Has:
		lit.Index = &tsast.IndexSignature{Key: "key", KeyType: tsast.String, Value: tsast.Any}
	}
	return lit
}

// enumUnion renders enum values as a union of literal types.
func enumUnion(values []any) tsast.Type {
	members := make([]tsast.Type, 0, len(values))
	for _, v := range values {
		members = append(members, literalType(v))
	}
	return tsast.UnionOf(members...)
}

func literalType(v any) tsast.Type {
	switch v := v.(type) {
	case nil:
		return tsast.Null
	case string:
		return &tsast.Literal{Value: tsast.Str(v)}
	case bool:
		return &tsast.Literal{Value: tsast.ID(strconv.FormatBool(v))}
	case float64:
		return &tsast.Literal{Value: tsast.Num(strconv.FormatFloat(v, 'f', -1, 64))}
	case int:
		return &tsast.Literal{Value: tsast.Num(strconv.Itoa(v))}
	}
	return &tsast.Literal{Value: tsast.Str(fmt.Sprint(v))}
}

// stringEnum reports whether s is a plain string enum that can become an
// `export enum` declaration.
func stringEnum(s *openapi3.Schema) ([]string, bool) {
	if len(s.Enum) == 0 || s.Nullable {
		return nil, false
	}
	values := make([]string, 0, len(s.Enum))
	for _, v := range s.Enum {
		str, ok := v.(string)
		if !ok {
			return nil, false
		}
		values = append(values, str)
	}
	return values, true
}

// enumDeclaration renders a string enum component. Member names are the
// PascalCase values, deduplicated.
func enumDeclaration(name string, values []string) *tsast.Enum {
	decl := &tsast.Enum{Export: true, Name: name}
	taken := map[string]bool{}
	for _, v := range values {
		member := tsast.Sanitize(generator.PascalCase(v))
		if member == "_" || member == "" {
			member = "Value"
		}
		base := member
		for i := 2; taken[member]; i++ {
			member = base + strconv.Itoa(i)
		}
		taken[member] = true
		decl.Members = append(decl.Members, tsast.EnumMember{Name: member, Value: tsast.Str(v)})
	}
	return decl
}

// declarations renders every component schema, with its Read and Write
// variants when it is split.
func (c *typeConverter) declarations() []domain.Declaration {
	var out []domain.Declaration
	for _, raw := range c.order {
		comp := c.components[raw]
		if values, ok := stringEnum(comp.schema); ok && c.opts.UseEnumType {
			out = append(out, domain.Declaration{Name: comp.name, Stmt: enumDeclaration(comp.name, values)})
			continue
		}
		modes := []access{accessAll}
		if comp.split {
			modes = append(modes, accessRead, accessWrite)
		}
		for _, mode := range modes {
			name := comp.nameFor(mode)
			out = append(out, domain.Declaration{Name: name, Stmt: &tsast.TypeAlias{
				Export: true,
				Name:   name,
				Type:   c.schema(comp.schema, mode),
				Doc:    comp.schema.Description,
			}})
		}
	}
	return out
}
