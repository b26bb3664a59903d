package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"blockgen/internal/gen/order"
)

// Emitter writes Go code from IR nodes
type Emitter struct {
	w      io.Writer
	indent int
	err    error
}

// String renders nodes one after the other at the top level. Statements
// are newline terminated.
func String(nodes ...Node) (string, error) {
	var sb strings.Builder
	e := &Emitter{w: &sb}
	for _, n := range nodes {
		e.emit(n)
		if _, ok := n.(Stmt); ok {
			if _, verbatim := n.(*VerbatimStmt); !verbatim {
				e.newline()
			}
		}
	}
	return sb.String(), e.err
}

func (e *Emitter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *Emitter) writef(format string, args ...any) {
	e.write(fmt.Sprintf(format, args...))
}

func (e *Emitter) writeIndent() {
	e.write(strings.Repeat("\t", e.indent))
}

func (e *Emitter) newline() {
	e.write("\n")
}

func (e *Emitter) emit(n Node) {
	if e.err != nil {
		return
	}

	switch v := n.(type) {
	case *File:
		e.emitFile(v)
	case *StructDecl:
		e.emitStruct(v)
	case *FuncDecl:
		e.emitFunc(v)
	case *VarSpec:
		e.write("var ")
		e.write(v.Name)
		e.write(" = ")
		e.emitExpr(v.Value)
		e.newline()
	case *VarDecl:
		e.emitVarDecl(v)
	case *AssignStmt:
		e.emitAssign(v)
	case *IncDecStmt:
		e.emitExpr(v.X)
		if v.Inc {
			e.write("++")
		} else {
			e.write("--")
		}
	case *IfStmt:
		e.emitIf(v)
	case *ForStmt:
		e.emitFor(v)
	case *ReturnStmt:
		e.emitReturn(v)
	case *ExprStmt:
		e.emitExpr(v.X)
	case *VerbatimStmt:
		e.write(v.Code)
	case Expr:
		e.emitExpr(v)
	default:
		e.err = fmt.Errorf("unknown node type: %T", n)
	}
}

func (e *Emitter) emitFile(f *File) {
	e.writef("package %s\n", f.Package)

	if len(f.Imports) > 0 {
		e.newline()
		if len(f.Imports) == 1 {
			e.write("import ")
			e.emitImport(f.Imports[0])
			e.newline()
		} else {
			e.write("import (\n")
			e.indent++
			for _, imp := range f.Imports {
				e.writeIndent()
				e.emitImport(imp)
				e.newline()
			}
			e.indent--
			e.write(")\n")
		}
	}

	for _, decl := range f.Decls {
		e.newline()
		e.emit(decl)
	}
}

func (e *Emitter) emitImport(imp Import) {
	if imp.Alias != "" {
		e.writef("%s %q", imp.Alias, imp.Path)
	} else {
		e.writef("%q", imp.Path)
	}
}

func (e *Emitter) emitStruct(s *StructDecl) {
	if len(s.Fields) == 0 {
		e.writef("type %s struct{}\n", s.Name)
		return
	}
	e.writef("type %s struct {\n", s.Name)
	e.indent++
	for _, f := range s.Fields {
		e.writeIndent()
		e.writef("%s %s", f.Name, f.Type)
		e.newline()
	}
	e.indent--
	e.write("}\n")
}

func (e *Emitter) emitFunc(f *FuncDecl) {
	e.write("func ")

	if f.Receiver != nil {
		e.writef("(%s %s) ", f.Receiver.Name, f.Receiver.Type)
	}

	e.write(f.Name)
	e.write("(")
	e.emitParams(f.Params)
	e.write(")")

	if len(f.Results) > 0 {
		e.write(" ")
		if len(f.Results) == 1 && f.Results[0].Name == "" {
			e.write(f.Results[0].Type)
		} else {
			e.write("(")
			e.emitParams(f.Results)
			e.write(")")
		}
	}

	e.write(" {\n")
	e.emitStmts(f.Body)
	e.write("}\n")
}

// emitStmts writes a braced body one level deeper. Verbatim text already
// carries its own indentation and newlines.
func (e *Emitter) emitStmts(stmts []Stmt) {
	e.indent++
	for _, stmt := range stmts {
		if v, ok := stmt.(*VerbatimStmt); ok {
			e.write(v.Code)
			continue
		}
		e.writeIndent()
		e.emit(stmt)
		e.newline()
	}
	e.indent--
}

func (e *Emitter) emitParams(params []Param) {
	for i, p := range params {
		if i > 0 {
			e.write(", ")
		}
		if p.Name != "" {
			e.write(p.Name)
			e.write(" ")
		}
		e.write(p.Type)
	}
}

func (e *Emitter) emitVarDecl(v *VarDecl) {
	e.write("var ")
	e.write(strings.Join(v.Names, ", "))
	if v.Type != "" {
		e.write(" ")
		e.write(v.Type)
	}
	if v.Value != nil {
		e.write(" = ")
		e.emitExpr(v.Value)
	}
}

func (e *Emitter) emitAssign(a *AssignStmt) {
	for i, l := range a.Left {
		if i > 0 {
			e.write(", ")
		}
		e.emitExpr(l)
	}

	switch {
	case a.Define:
		e.write(" := ")
	case a.Op != "":
		e.writef(" %s= ", a.Op)
	default:
		e.write(" = ")
	}

	for i, r := range a.Right {
		if i > 0 {
			e.write(", ")
		}
		e.emitExpr(r)
	}
}

func (e *Emitter) emitIf(i *IfStmt) {
	e.write("if ")
	e.emitExpr(i.Cond)
	e.write(" {\n")
	e.emitStmts(i.Then)
	e.writeIndent()
	e.write("}")

	if len(i.Else) > 0 {
		e.write(" else ")
		if len(i.Else) == 1 {
			if elif, ok := i.Else[0].(*IfStmt); ok {
				e.emitIf(elif)
				return
			}
		}
		e.write("{\n")
		e.emitStmts(i.Else)
		e.writeIndent()
		e.write("}")
	}
}

func (e *Emitter) emitFor(f *ForStmt) {
	e.write("for ")

	hasInit := f.Init != nil
	hasPost := f.Post != nil
	hasCond := f.Cond != nil

	if hasInit || hasPost {
		if hasInit {
			e.emit(f.Init)
		}
		e.write("; ")
		if hasCond {
			e.emitExpr(f.Cond)
		}
		e.write("; ")
		if hasPost {
			e.emit(f.Post)
		}
		e.write(" ")
	} else if hasCond {
		e.emitExpr(f.Cond)
		e.write(" ")
	}

	e.write("{\n")
	e.emitStmts(f.Body)
	e.writeIndent()
	e.write("}")
}

func (e *Emitter) emitReturn(r *ReturnStmt) {
	e.write("return")
	if len(r.Values) > 0 {
		e.write(" ")
		for i, v := range r.Values {
			if i > 0 {
				e.write(", ")
			}
			e.emitExpr(v)
		}
	}
}

func (e *Emitter) emitExpr(expr Expr) {
	if e.err != nil {
		return
	}

	switch v := expr.(type) {
	case *Ident:
		e.write(v.Name)

	case *Literal:
		e.emitLiteral(v)

	case *CallExpr:
		e.emitOperand(v.Func, order.FunctionCall)
		e.write("(")
		for i, arg := range v.Args {
			if i > 0 {
				e.write(", ")
			}
			e.emitExpr(arg)
		}
		e.write(")")

	case *SelectorExpr:
		e.emitOperand(v.X, order.Member)
		e.write(".")
		e.write(v.Sel)

	case *IndexExpr:
		e.emitOperand(v.X, order.Member)
		e.write("[")
		e.emitExpr(v.Index)
		e.write("]")

	case *UnaryExpr:
		e.write(v.Op)
		e.emitOperand(v.X, order.Unary(v.Op))

	case *BinaryExpr:
		level := order.Binary(v.Op)
		e.emitOperand(v.X, level)
		e.writef(" %s ", v.Op)
		e.emitOperand(v.Y, level)

	case *RawExpr:
		e.write(v.Code)

	default:
		e.err = fmt.Errorf("unknown expression type: %T", expr)
	}
}

// emitOperand writes x in a slot requiring the outer level.
func (e *Emitter) emitOperand(x Expr, outer order.Order) {
	if order.NeedsParens(outer, Level(x)) {
		e.write("(")
		e.emitExpr(x)
		e.write(")")
		return
	}
	e.emitExpr(x)
}

// Level is the binding level of the code x renders to.
func Level(x Expr) order.Order {
	switch v := x.(type) {
	case *Literal:
		if f, ok := v.Value.(float64); ok && f < 0 {
			return order.UnaryNegation
		}
		if i, ok := v.Value.(int); ok && i < 0 {
			return order.UnaryNegation
		}
		return order.Atomic
	case *CallExpr:
		return order.FunctionCall
	case *SelectorExpr, *IndexExpr:
		return order.Member
	case *UnaryExpr:
		return order.Unary(v.Op)
	case *BinaryExpr:
		return order.Binary(v.Op)
	case *RawExpr:
		return v.Order
	}
	return order.Atomic
}

func (e *Emitter) emitLiteral(l *Literal) {
	switch l.Kind {
	case "string":
		e.write(strconv.Quote(l.Value.(string)))
	case "int":
		e.writef("%d", l.Value)
	case "float":
		e.write(strconv.FormatFloat(l.Value.(float64), 'f', -1, 64))
	case "bool":
		e.writef("%t", l.Value)
	case "nil":
		e.write("nil")
	default:
		e.writef("%v", l.Value)
	}
}
