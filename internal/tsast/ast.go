// Package tsast is a small TypeScript syntax tree and printer.
//
// The generator builds modules out of these nodes and hands the resulting
// File to a Printer. Only the subset of TypeScript needed by the generated
// Redux Toolkit modules is modelled.
package tsast

// Node is implemented by every syntax tree node.
type Node interface {
	tsNode()
}

// Expr is a TypeScript expression.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a top-level or block-level TypeScript statement.
type Stmt interface {
	Node
	stmtNode()
}

// Type is a TypeScript type expression.
type Type interface {
	Node
	typeNode()
}

// Member is an element of an object literal.
type Member interface {
	Node
	memberNode()
}

// File is one emitted module.
type File struct {
	Stmts []Stmt
}

// --- Expressions ---

// Ident is an identifier reference.
type Ident struct {
	Name string
}

// StringLit is a double quoted string literal.
type StringLit struct {
	Value string
}

// NumberLit is a numeric literal, kept as source text.
type NumberLit struct {
	Value string
}

// TemplateSpan is one `${Expr}literal` segment of a template literal.
type TemplateSpan struct {
	Expr    Expr
	Literal string
}

// TemplateLit is a template literal. Without spans it prints as a
// no-substitution template.
type TemplateLit struct {
	Head  string
	Spans []TemplateSpan
}

// PropertyAccess is `X.Name`.
type PropertyAccess struct {
	X    Expr
	Name string
}

// ElementAccess is `X[Index]`.
type ElementAccess struct {
	X     Expr
	Index Expr
}

// Call is `Fn<TypeArgs>(Args)`.
type Call struct {
	Fn       Expr
	TypeArgs []Type
	Args     []Expr
}

// Object is an object literal.
type Object struct {
	Members   []Member
	Multiline bool
}

// Array is an array literal.
type Array struct {
	Elems     []Expr
	Multiline bool
}

// Arrow is an arrow function. Body is either an Expr or a *Block.
type Arrow struct {
	Async  bool
	Params []Param
	Body   Node
}

// Binary is `X Op Y`.
type Binary struct {
	X  Expr
	Op string
	Y  Expr
}

// Paren is a parenthesized expression.
type Paren struct {
	X Expr
}

// Delete is `delete X`.
type Delete struct {
	X Expr
}

// As is `X as Type`.
type As struct {
	X    Expr
	Type Type
}

// Param is a function parameter, either a plain name or an object binding.
type Param struct {
	Name    string
	Binding *ObjectBinding
	Type    Type
}

// ObjectBinding is `{ a, ...rest }`.
type ObjectBinding struct {
	Elements []BindingElement
}

// BindingElement is one name inside an ObjectBinding.
type BindingElement struct {
	Rest bool
	Name string
}

// --- Object members ---

// Property is `Name: Value`. The name is quoted when it is not a valid
// identifier or numeric literal.
type Property struct {
	Name  string
	Value Expr
}

// Shorthand is `{ Name }`.
type Shorthand struct {
	Name string
}

// Method is an object method `[async ]Name(Params) { ... }`.
type Method struct {
	Async  bool
	Name   string
	Params []Param
	Body   *Block
}

// --- Statements ---

// ExprStmt is an expression statement. Comment, when set, is printed as a
// line comment above it.
type ExprStmt struct {
	X       Expr
	Comment string
}

// Const is a `const` declaration of a name or an object binding.
type Const struct {
	Export  bool
	Name    string
	Binding *ObjectBinding
	Type    Type
	Init    Expr
}

// Block is `{ Stmts }`.
type Block struct {
	Stmts []Stmt
}

// Return is `return X;`.
type Return struct {
	X Expr
}

// Func is a function declaration.
type Func struct {
	Export bool
	Name   string
	Params []Param
	Result Type
	Body   *Block
}

// ImportSpec is one named import, optionally renamed.
type ImportSpec struct {
	Name  string
	Alias string
}

// Import is `import { ... } from "Module";`.
type Import struct {
	Module   string
	Names    []ImportSpec
	TypeOnly bool
}

// ExportFrom is `export { ... } from "Module";`.
type ExportFrom struct {
	Module string
	Names  []string
}

// ExportDefault is `export default X;`.
type ExportDefault struct {
	X Expr
}

// TypeAlias is `[export ]type Name = Type;`.
type TypeAlias struct {
	Export bool
	Name   string
	Type   Type
	Doc    string
}

// EnumMember is `Name = Value`.
type EnumMember struct {
	Name  string
	Value Expr
}

// Enum is an enum declaration.
type Enum struct {
	Export  bool
	Name    string
	Members []EnumMember
}

// --- Types ---

// TypeRef is a named type reference with optional type arguments.
type TypeRef struct {
	Name string
	Args []Type
}

// Keyword is a keyword type such as string or unknown.
type Keyword struct {
	Name string
}

// Keyword types.
var (
	Any       = &Keyword{Name: "any"}
	Unknown   = &Keyword{Name: "unknown"}
	String    = &Keyword{Name: "string"}
	Number    = &Keyword{Name: "number"}
	Boolean   = &Keyword{Name: "boolean"}
	Void      = &Keyword{Name: "void"}
	Undefined = &Keyword{Name: "undefined"}
	Null      = &Keyword{Name: "null"}
	Never     = &Keyword{Name: "never"}
)

// Literal is a literal type such as "done" or 42.
type Literal struct {
	Value Expr
}

// Union is `A | B`.
type Union struct {
	Types []Type
}

// Intersection is `A & B`.
type Intersection struct {
	Types []Type
}

// ArrayOf is `Elem[]`.
type ArrayOf struct {
	Elem Type
}

// PropertySignature is one member of a TypeLit.
type PropertySignature struct {
	Name     string
	Optional bool
	Type     Type
	Doc      string
}

// IndexSignature is `[Key: KeyType]: Value`.
type IndexSignature struct {
	Key     string
	KeyType Type
	Value   Type
}

// TypeLit is an object type literal.
type TypeLit struct {
	Members []PropertySignature
	Index   *IndexSignature
}

// IndexedAccess is `Object[Index]`.
type IndexedAccess struct {
	Object Type
	Index  Type
}

// Commented prefixes a type with a JSDoc block comment.
type Commented struct {
	Doc  string
	Type Type
}

func (*Ident) tsNode()          {}
func (*StringLit) tsNode()      {}
func (*NumberLit) tsNode()      {}
func (*TemplateLit) tsNode()    {}
func (*PropertyAccess) tsNode() {}
func (*ElementAccess) tsNode()  {}
func (*Call) tsNode()           {}
func (*Object) tsNode()         {}
func (*Array) tsNode()          {}
func (*Arrow) tsNode()          {}
func (*Binary) tsNode()         {}
func (*Paren) tsNode()          {}
func (*Delete) tsNode()         {}
func (*As) tsNode()             {}
func (*Property) tsNode()       {}
func (*Shorthand) tsNode()      {}
func (*Method) tsNode()         {}
func (*ExprStmt) tsNode()       {}
func (*Const) tsNode()          {}
func (*Block) tsNode()          {}
func (*Return) tsNode()         {}
func (*Func) tsNode()           {}
func (*Import) tsNode()         {}
func (*ExportFrom) tsNode()     {}
func (*ExportDefault) tsNode()  {}
func (*TypeAlias) tsNode()      {}
func (*Enum) tsNode()           {}
func (*TypeRef) tsNode()        {}
func (*Keyword) tsNode()        {}
func (*Literal) tsNode()        {}
func (*Union) tsNode()          {}
func (*Intersection) tsNode()   {}
func (*ArrayOf) tsNode()        {}
func (*TypeLit) tsNode()        {}
func (*IndexedAccess) tsNode()  {}
func (*Commented) tsNode()      {}

func (*Ident) exprNode()          {}
func (*StringLit) exprNode()      {}
func (*NumberLit) exprNode()      {}
func (*TemplateLit) exprNode()    {}
func (*PropertyAccess) exprNode() {}
func (*ElementAccess) exprNode()  {}
func (*Call) exprNode()           {}
func (*Object) exprNode()         {}
func (*Array) exprNode()          {}
func (*Arrow) exprNode()          {}
func (*Binary) exprNode()         {}
func (*Paren) exprNode()          {}
func (*Delete) exprNode()         {}
func (*As) exprNode()             {}

func (*Property) memberNode()  {}
func (*Shorthand) memberNode() {}
func (*Method) memberNode()    {}

func (*ExprStmt) stmtNode()      {}
func (*Const) stmtNode()         {}
func (*Block) stmtNode()         {}
func (*Return) stmtNode()        {}
func (*Func) stmtNode()          {}
func (*Import) stmtNode()        {}
func (*ExportFrom) stmtNode()    {}
func (*ExportDefault) stmtNode() {}
func (*TypeAlias) stmtNode()     {}
func (*Enum) stmtNode()          {}

func (*TypeRef) typeNode()       {}
func (*Keyword) typeNode()       {}
func (*Literal) typeNode()       {}
func (*Union) typeNode()         {}
func (*Intersection) typeNode()  {}
func (*ArrayOf) typeNode()       {}
func (*TypeLit) typeNode()       {}
func (*IndexedAccess) typeNode() {}
func (*Commented) typeNode()     {}
