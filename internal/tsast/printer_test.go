package tsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, stmts ...Stmt) string {
	t.Helper()
	out, err := NewPrinter().PrintString(&File{Stmts: stmts})
	require.NoError(t, err)
	return out
}

func TestPrinter_Statements(t *testing.T) {
	tests := []struct {
		name string
		stmt Stmt
		want string
	}{
		{
			name: "named import",
			stmt: ImportNamed("@reduxjs/toolkit", "createEntityAdapter", "EntityId"),
			want: "import { createEntityAdapter, EntityId } from \"@reduxjs/toolkit\";\n",
		},
		{
			name: "export const with call",
			stmt: ExportConst("x", CallOf(Dot(ID("a"), "b"), Str("q"), Num("1"))),
			want: "export const x = a.b(\"q\", 1);\n",
		},
		{
			name: "type alias with doc",
			stmt: &TypeAlias{Export: true, Name: "Task", Type: Ref("Array", String), Doc: "A task"},
			want: "/** A task */\nexport type Task = Array<string>;\n",
		},
		{
			name: "enum",
			stmt: &Enum{Export: true, Name: "Status", Members: []EnumMember{{Name: "Done", Value: Str("done")}}},
			want: "export enum Status {\n  Done = \"done\",\n}\n",
		},
		{
			name: "export default",
			stmt: &ExportDefault{X: ID("store")},
			want: "export default store;\n",
		},
		{
			name: "commented expression statement",
			stmt: &ExprStmt{X: CallOf(ID("f")), Comment: "note"},
			want: "// note\nf();\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.stmt))
		})
	}
}

func TestPrinter_ObjectsAndArrows(t *testing.T) {
	fn := &Arrow{
		Params: []Param{{Name: "queryArg"}},
		Body: Obj(true,
			Prop("url", &TemplateLit{Head: "/tasks/", Spans: []TemplateSpan{{Expr: Dot(ID("queryArg"), "id"), Literal: ""}}}),
			Prop("method", Str("PUT")),
			Prop("body", nil),
		),
	}
	got := render(t, ConstOf("q", fn))
	assert.Equal(t, "const q = (queryArg) => ({\n  url: `/tasks/${queryArg.id}`,\n  method: \"PUT\",\n});\n", got)
}

func TestPrinter_MethodWithBinding(t *testing.T) {
	m := &Method{
		Async: true,
		Name:  "onQueryStarted",
		Params: []Param{
			{Binding: &ObjectBinding{Elements: []BindingElement{{Rest: true, Name: "patch"}}}},
			{Binding: Bind("dispatch", "queryFulfilled")},
		},
		Body: &Block{Stmts: []Stmt{StmtOf(&Delete{X: Index(Dot(ID("cache"), "entities"), ID("k"))})}},
	}
	got := render(t, ConstOf("o", Obj(true, m)))
	want := "const o = {\n" +
		"  async onQueryStarted({ ...patch }, { dispatch, queryFulfilled }) {\n" +
		"    delete cache.entities[k];\n" +
		"  },\n" +
		"};\n"
	assert.Equal(t, want, got)
}

func TestPrinter_Types(t *testing.T) {
	lit := &TypeLit{Members: []PropertySignature{
		{Name: "id", Type: Number, Doc: "Identifier"},
		{Name: "x-trace", Type: String, Optional: true},
	}}
	union := &Union{Types: []Type{
		&Commented{Doc: "status 200 OK", Type: &ArrayOf{Elem: Ref("Task")}},
		Null,
	}}
	got := render(t,
		&TypeAlias{Name: "A", Type: lit},
		&TypeAlias{Name: "B", Type: union},
		&TypeAlias{Name: "C", Type: &ArrayOf{Elem: &Union{Types: []Type{String, Number}}}},
		&TypeAlias{Name: "D", Type: &TypeLit{Index: &IndexSignature{Key: "key", KeyType: String, Value: Any}}},
	)
	want := "type A = {\n" +
		"  /** Identifier */\n" +
		"  id: number;\n" +
		"  \"x-trace\"?: string;\n" +
		"};\n\n" +
		"type B = /** status 200 OK */ Task[] | null;\n\n" +
		"type C = (string | number)[];\n\n" +
		"type D = {\n  [key: string]: any;\n};\n"
	assert.Equal(t, want, got)
}

func TestPrinter_GroupsImportsAndReexports(t *testing.T) {
	got := render(t,
		ImportNamed("a", "x"),
		ImportNamed("b", "y"),
		&ExportFrom{Module: "./c", Names: []string{"z"}},
		&ExportFrom{Module: "./d", Names: []string{"w"}},
	)
	assert.Equal(t, "import { x } from \"a\";\nimport { y } from \"b\";\n\nexport { z } from \"./c\";\nexport { w } from \"./d\";\n", got)
}

func TestPrinter_Escaping(t *testing.T) {
	got := render(t,
		ConstOf("s", Str("a\"b\\c\nd")),
		ConstOf("t", &TemplateLit{Head: "`${x}`"}),
	)
	assert.Equal(t, "const s = \"a\\\"b\\\\c\\nd\";\n\nconst t = `\\`\\${x}\\``;\n", got)
}

func TestPrinter_UnsupportedNode(t *testing.T) {
	_, err := NewPrinter().Print(&File{Stmts: []Stmt{ConstOf("x", nil)}})
	require.ErrorIs(t, err, ErrUnsupportedNode)
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		name       string
		identName  bool
		valid      bool
		needsQuote bool
	}{
		{"task", true, true, false},
		{"delete", true, false, false},
		{"x-trace", false, false, true},
		{"42", false, false, false},
		{"1a", false, false, true},
		{"$ref", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.identName, IsIdentifierName(tt.name))
			assert.Equal(t, tt.valid, IsValidIdentifier(tt.name))
			assert.Equal(t, tt.needsQuote, NeedsQuoting(tt.name))
		})
	}
	assert.Equal(t, "delete_", Sanitize("delete"))
	assert.Equal(t, "_1a_b", Sanitize("1a-b"))
}

func TestTypeRefs(t *testing.T) {
	var seen []string
	TypeRefs(&Union{Types: []Type{
		Ref("EntityState", Ref("Task"), Ref("EntityId")),
		&TypeLit{Members: []PropertySignature{{Name: "p", Type: &ArrayOf{Elem: Ref("Project")}}}},
	}}, func(n string) { seen = append(seen, n) })
	assert.Equal(t, []string{"EntityState", "Task", "EntityId", "Project"}, seen)
}
