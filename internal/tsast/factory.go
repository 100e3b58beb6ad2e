package tsast

// Constructors for the nodes the generator builds most often.

// ID returns an identifier.
func ID(name string) *Ident { return &Ident{Name: name} }

// Str returns a string literal.
func Str(value string) *StringLit { return &StringLit{Value: value} }

// Num returns a numeric literal.
func Num(value string) *NumberLit { return &NumberLit{Value: value} }

// Dot builds a chain of property accesses: Dot(x, "a", "b") is x.a.b.
func Dot(x Expr, names ...string) Expr {
	for _, name := range names {
		x = &PropertyAccess{X: x, Name: name}
	}
	return x
}

// Index returns x[index].
func Index(x Expr, index Expr) *ElementAccess {
	return &ElementAccess{X: x, Index: index}
}

// Access returns x.name when name is a valid identifier and x["name"]
// otherwise.
func Access(x Expr, name string) Expr {
	if IsIdentifierName(name) {
		return &PropertyAccess{X: x, Name: name}
	}
	return &ElementAccess{X: x, Index: Str(name)}
}

// CallOf returns fn(args...).
func CallOf(fn Expr, args ...Expr) *Call {
	return &Call{Fn: fn, Args: args}
}

// Obj returns an object literal, dropping nil members.
func Obj(multiline bool, members ...Member) *Object {
	kept := make([]Member, 0, len(members))
	for _, m := range members {
		if m != nil {
			kept = append(kept, m)
		}
	}
	return &Object{Members: kept, Multiline: multiline}
}

// Prop returns a property assignment, or nil when value is nil so that
// optional properties can be passed straight to Obj.
func Prop(name string, value Expr) Member {
	if value == nil {
		return nil
	}
	return &Property{Name: name, Value: value}
}

// StmtOf wraps an expression into a statement.
func StmtOf(x Expr) *ExprStmt { return &ExprStmt{X: x} }

// ConstOf returns `const name = init`.
func ConstOf(name string, init Expr) *Const {
	return &Const{Name: name, Init: init}
}

// ExportConst returns `export const name = init`.
func ExportConst(name string, init Expr) *Const {
	return &Const{Export: true, Name: name, Init: init}
}

// ImportNamed returns an import of the given names from module.
func ImportNamed(module string, names ...string) *Import {
	specs := make([]ImportSpec, len(names))
	for i, n := range names {
		specs[i] = ImportSpec{Name: n}
	}
	return &Import{Module: module, Names: specs}
}

// Ref returns a type reference.
func Ref(name string, args ...Type) *TypeRef {
	return &TypeRef{Name: name, Args: args}
}

// UnionOf returns the union of types, collapsing the single element case.
func UnionOf(types ...Type) Type {
	switch len(types) {
	case 0:
		return Never
	case 1:
		return types[0]
	}
	return &Union{Types: types}
}

// Bind returns an object binding of plain names.
func Bind(names ...string) *ObjectBinding {
	b := &ObjectBinding{}
	for _, n := range names {
		b.Elements = append(b.Elements, BindingElement{Name: n})
	}
	return b
}
