package tsast

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedNode is returned when the printer meets a node it cannot
// render.
var ErrUnsupportedNode = errors.New("unsupported syntax node")

// Printer renders a File as TypeScript source: two space indentation,
// double quoted strings, semicolons and a blank line between top-level
// statements. Runs of imports and re-exports are kept together.
type Printer struct {
	indent string
}

// NewPrinter returns a Printer with the default formatting.
func NewPrinter() *Printer {
	return &Printer{indent: "  "}
}

// Print renders f. Identical trees always render to identical bytes.
func (p *Printer) Print(f *File) ([]byte, error) {
	w := &writer{indent: p.indent}
	for i, s := range f.Stmts {
		if i > 0 {
			w.buf.WriteByte('\n')
			if !sameGroup(f.Stmts[i-1], s) {
				w.buf.WriteByte('\n')
			}
		}
		w.stmt(s)
	}
	if len(f.Stmts) > 0 {
		w.buf.WriteByte('\n')
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// PrintString renders f and returns it as a string.
func (p *Printer) PrintString(f *File) (string, error) {
	b, err := p.Print(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func sameGroup(prev, next Stmt) bool {
	switch prev.(type) {
	case *Import:
		_, ok := next.(*Import)
		return ok
	case *ExportFrom:
		_, ok := next.(*ExportFrom)
		return ok
	}
	return false
}

type writer struct {
	buf    bytes.Buffer
	indent string
	depth  int
	err    error
}

func (w *writer) str(s string) { w.buf.WriteString(s) }

func (w *writer) pad() {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *writer) newline() {
	w.buf.WriteByte('\n')
	w.pad()
}

func (w *writer) fail(n Node) {
	if w.err == nil {
		w.err = fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
	}
}

func (w *writer) stmt(s Stmt) {
	w.pad()
	switch s := s.(type) {
	case *ExprStmt:
		if s.Comment != "" {
			w.str("// " + s.Comment)
			w.newline()
		}
		if _, ok := s.X.(*Object); ok {
			w.operand(s.X)
		} else {
			w.expr(s.X)
		}
		w.str(";")
	case *Const:
		if s.Export {
			w.str("export ")
		}
		w.str("const ")
		if s.Binding != nil {
			w.binding(s.Binding)
		} else {
			w.str(s.Name)
		}
		if s.Type != nil {
			w.str(": ")
			w.typ(s.Type)
		}
		w.str(" = ")
		w.expr(s.Init)
		w.str(";")
	case *Block:
		w.block(s)
	case *Return:
		w.str("return")
		if s.X != nil {
			w.str(" ")
			w.expr(s.X)
		}
		w.str(";")
	case *Func:
		if s.Export {
			w.str("export ")
		}
		w.str("function " + s.Name)
		w.params(s.Params)
		if s.Result != nil {
			w.str(": ")
			w.typ(s.Result)
		}
		w.str(" ")
		w.block(s.Body)
	case *Import:
		w.str("import ")
		if s.TypeOnly {
			w.str("type ")
		}
		w.str("{ ")
		for i, spec := range s.Names {
			if i > 0 {
				w.str(", ")
			}
			w.str(spec.Name)
			if spec.Alias != "" {
				w.str(" as " + spec.Alias)
			}
		}
		w.str(" } from ")
		w.quote(s.Module)
		w.str(";")
	case *ExportFrom:
		w.str("export { " + strings.Join(s.Names, ", ") + " } from ")
		w.quote(s.Module)
		w.str(";")
	case *ExportDefault:
		w.str("export default ")
		w.expr(s.X)
		w.str(";")
	case *TypeAlias:
		if s.Doc != "" {
			w.doc(s.Doc)
			w.newline()
		}
		if s.Export {
			w.str("export ")
		}
		w.str("type " + s.Name + " = ")
		w.typ(s.Type)
		w.str(";")
	case *Enum:
		if s.Export {
			w.str("export ")
		}
		w.str("enum " + s.Name + " {")
		w.depth++
		for _, m := range s.Members {
			w.newline()
			w.key(m.Name)
			if m.Value != nil {
				w.str(" = ")
				w.expr(m.Value)
			}
			w.str(",")
		}
		w.depth--
		w.newline()
		w.str("}")
	default:
		w.fail(s)
	}
}

func (w *writer) block(b *Block) {
	if b == nil || len(b.Stmts) == 0 {
		w.str("{}")
		return
	}
	w.str("{")
	w.depth++
	for _, s := range b.Stmts {
		w.buf.WriteByte('\n')
		w.stmt(s)
	}
	w.depth--
	w.newline()
	w.str("}")
}

// doc writes a JSDoc block at the current position.
func (w *writer) doc(text string) {
	text = strings.ReplaceAll(text, "*/", "*\\/")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 {
		w.str("/** " + lines[0] + " */")
		return
	}
	w.str("/**")
	for _, l := range lines {
		w.newline()
		w.str(strings.TrimRight(" * "+strings.TrimSpace(l), " "))
	}
	w.newline()
	w.str(" */")
}

func (w *writer) expr(e Expr) {
	switch e := e.(type) {
	case *Ident:
		w.str(e.Name)
	case *StringLit:
		w.quote(e.Value)
	case *NumberLit:
		w.str(e.Value)
	case *TemplateLit:
		w.str("`" + escapeTemplate(e.Head))
		for _, span := range e.Spans {
			w.str("${")
			w.expr(span.Expr)
			w.str("}" + escapeTemplate(span.Literal))
		}
		w.str("`")
	case *PropertyAccess:
		w.operand(e.X)
		w.str("." + e.Name)
	case *ElementAccess:
		w.operand(e.X)
		w.str("[")
		w.expr(e.Index)
		w.str("]")
	case *Call:
		w.operand(e.Fn)
		w.typeArgs(e.TypeArgs)
		w.str("(")
		for i, a := range e.Args {
			if i > 0 {
				w.str(", ")
			}
			w.expr(a)
		}
		w.str(")")
	case *Object:
		w.object(e)
	case *Array:
		w.array(e)
	case *Arrow:
		if e.Async {
			w.str("async ")
		}
		w.params(e.Params)
		w.str(" => ")
		switch body := e.Body.(type) {
		case *Block:
			w.block(body)
		case *Object:
			w.str("(")
			w.object(body)
			w.str(")")
		case Expr:
			w.expr(body)
		default:
			w.fail(e.Body)
		}
	case *Binary:
		w.expr(e.X)
		w.str(" " + e.Op + " ")
		w.expr(e.Y)
	case *Paren:
		w.str("(")
		w.expr(e.X)
		w.str(")")
	case *Delete:
		w.str("delete ")
		w.expr(e.X)
	case *As:
		w.expr(e.X)
		w.str(" as ")
		w.typ(e.Type)
	default:
		w.fail(e)
	}
}

// operand writes e in a position that binds tighter than any operator.
func (w *writer) operand(e Expr) {
	switch e.(type) {
	case *Arrow, *Binary, *As, *Object, *Delete:
		w.str("(")
		w.expr(e)
		w.str(")")
	default:
		w.expr(e)
	}
}

func (w *writer) object(o *Object) {
	if len(o.Members) == 0 {
		w.str("{}")
		return
	}
	if !o.Multiline {
		w.str("{ ")
		for i, m := range o.Members {
			if i > 0 {
				w.str(", ")
			}
			w.member(m)
		}
		w.str(" }")
		return
	}
	w.str("{")
	w.depth++
	for _, m := range o.Members {
		w.newline()
		w.member(m)
		w.str(",")
	}
	w.depth--
	w.newline()
	w.str("}")
}

func (w *writer) array(a *Array) {
	if len(a.Elems) == 0 {
		w.str("[]")
		return
	}
	if !a.Multiline {
		w.str("[")
		for i, e := range a.Elems {
			if i > 0 {
				w.str(", ")
			}
			w.expr(e)
		}
		w.str("]")
		return
	}
	w.str("[")
	w.depth++
	for _, e := range a.Elems {
		w.newline()
		w.expr(e)
		w.str(",")
	}
	w.depth--
	w.newline()
	w.str("]")
}

func (w *writer) member(m Member) {
	switch m := m.(type) {
	case *Property:
		w.key(m.Name)
		w.str(": ")
		w.expr(m.Value)
	case *Shorthand:
		w.str(m.Name)
	case *Method:
		if m.Async {
			w.str("async ")
		}
		w.key(m.Name)
		w.params(m.Params)
		w.str(" ")
		w.block(m.Body)
	default:
		w.fail(m)
	}
}

func (w *writer) key(name string) {
	if NeedsQuoting(name) {
		w.quote(name)
		return
	}
	w.str(name)
}

func (w *writer) params(ps []Param) {
	w.str("(")
	for i, p := range ps {
		if i > 0 {
			w.str(", ")
		}
		if p.Binding != nil {
			w.binding(p.Binding)
		} else {
			w.str(p.Name)
		}
		if p.Type != nil {
			w.str(": ")
			w.typ(p.Type)
		}
	}
	w.str(")")
}

func (w *writer) binding(b *ObjectBinding) {
	w.str("{ ")
	for i, el := range b.Elements {
		if i > 0 {
			w.str(", ")
		}
		if el.Rest {
			w.str("...")
		}
		w.str(el.Name)
	}
	w.str(" }")
}

func (w *writer) typeArgs(args []Type) {
	if len(args) == 0 {
		return
	}
	w.str("<")
	for i, a := range args {
		if i > 0 {
			w.str(", ")
		}
		w.typ(a)
	}
	w.str(">")
}

func (w *writer) typ(t Type) {
	switch t := t.(type) {
	case *TypeRef:
		w.str(t.Name)
		w.typeArgs(t.Args)
	case *Keyword:
		w.str(t.Name)
	case *Literal:
		w.expr(t.Value)
	case *Union:
		for i, m := range t.Types {
			if i > 0 {
				w.str(" | ")
			}
			w.typ(m)
		}
	case *Intersection:
		for i, m := range t.Types {
			if i > 0 {
				w.str(" & ")
			}
			w.typeOperand(m)
		}
	case *ArrayOf:
		w.typeOperand(t.Elem)
		w.str("[]")
	case *TypeLit:
		w.typeLit(t)
	case *IndexedAccess:
		w.typeOperand(t.Object)
		w.str("[")
		w.typ(t.Index)
		w.str("]")
	case *Commented:
		w.str("/** " + strings.Join(strings.Fields(strings.ReplaceAll(t.Doc, "*/", "*\\/")), " ") + " */ ")
		w.typ(t.Type)
	default:
		w.fail(t)
	}
}

// typeOperand parenthesizes compound types used as array elements,
// intersection members or indexed objects.
func (w *writer) typeOperand(t Type) {
	switch t.(type) {
	case *Union, *Intersection, *Commented:
		w.str("(")
		w.typ(t)
		w.str(")")
	default:
		w.typ(t)
	}
}

func (w *writer) typeLit(t *TypeLit) {
	if len(t.Members) == 0 && t.Index == nil {
		w.str("{}")
		return
	}
	w.str("{")
	w.depth++
	for _, m := range t.Members {
		if m.Doc != "" {
			w.newline()
			w.doc(m.Doc)
		}
		w.newline()
		w.key(m.Name)
		if m.Optional {
			w.str("?")
		}
		w.str(": ")
		w.typ(m.Type)
		w.str(";")
	}
	if t.Index != nil {
		w.newline()
		w.str("[" + t.Index.Key + ": ")
		w.typ(t.Index.KeyType)
		w.str("]: ")
		w.typ(t.Index.Value)
		w.str(";")
	}
	w.depth--
	w.newline()
	w.str("}")
}

func (w *writer) quote(s string) {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	w.str(b.String())
}

func escapeTemplate(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "`", "\\`")
	return strings.ReplaceAll(s, "${", "\\${")
}
