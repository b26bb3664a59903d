package ir

import "blockgen/internal/gen/order"

// FileBuilder builds a File
type FileBuilder struct {
	file *File
}

// NewFile creates a new file builder
func NewFile(pkg string) *FileBuilder {
	return &FileBuilder{
		file: &File{
			Package: pkg,
			Imports: make([]Import, 0),
			Decls:   make([]Decl, 0),
		},
	}
}

// Import adds an import
func (b *FileBuilder) Import(path string) *FileBuilder {
	b.file.Imports = append(b.file.Imports, Import{Path: path})
	return b
}

// ImportAlias adds an aliased import
func (b *FileBuilder) ImportAlias(alias, path string) *FileBuilder {
	b.file.Imports = append(b.file.Imports, Import{Alias: alias, Path: path})
	return b
}

// AddDecl adds a declaration
func (b *FileBuilder) AddDecl(d Decl) *FileBuilder {
	b.file.Decls = append(b.file.Decls, d)
	return b
}

// Build returns the completed file
func (b *FileBuilder) Build() *File {
	return b.file
}

// Struct creates an empty struct declaration
func Struct(name string) *StructDecl {
	return &StructDecl{Name: name}
}

// FuncBuilder builds a function declaration
type FuncBuilder struct {
	decl *FuncDecl
}

// NewFunc creates a new function builder
func NewFunc(name string) *FuncBuilder {
	return &FuncBuilder{
		decl: &FuncDecl{
			Name:    name,
			Params:  make([]Param, 0),
			Results: make([]Param, 0),
			Body:    make([]Stmt, 0),
		},
	}
}

// Receiver sets the receiver for a method
func (b *FuncBuilder) Receiver(name, typ string) *FuncBuilder {
	b.decl.Receiver = &Param{Name: name, Type: typ}
	return b
}

// Param adds a parameter
func (b *FuncBuilder) Param(name, typ string) *FuncBuilder {
	b.decl.Params = append(b.decl.Params, Param{Name: name, Type: typ})
	return b
}

// Returns adds return type(s)
func (b *FuncBuilder) Returns(types ...string) *FuncBuilder {
	for _, t := range types {
		b.decl.Results = append(b.decl.Results, Param{Type: t})
	}
	return b
}

// Body appends statements to the function body
func (b *FuncBuilder) Body(stmts ...Stmt) *FuncBuilder {
	b.decl.Body = append(b.decl.Body, stmts...)
	return b
}

// Build returns the completed function
func (b *FuncBuilder) Build() *FuncDecl {
	return b.decl
}

// Expression builders

// Id creates an identifier
func Id(name string) *Ident {
	return &Ident{Name: name}
}

// Lit creates a literal
func Lit(value any) *Literal {
	switch v := value.(type) {
	case string:
		return &Literal{Value: v, Kind: "string"}
	case int:
		return &Literal{Value: v, Kind: "int"}
	case float64:
		return &Literal{Value: v, Kind: "float"}
	case bool:
		return &Literal{Value: v, Kind: "bool"}
	case nil:
		return &Literal{Value: nil, Kind: "nil"}
	default:
		return &Literal{Value: v, Kind: "unknown"}
	}
}

// Nil creates a nil literal
func Nil() *Literal {
	return &Literal{Value: nil, Kind: "nil"}
}

// Call creates a function call
func Call(fn string, args ...Expr) *CallExpr {
	return &CallExpr{
		Func: parseExpr(fn),
		Args: args,
	}
}

// Index creates an index expression: x[i]
func Index(x Expr, index Expr) *IndexExpr {
	return &IndexExpr{X: x, Index: index}
}

// Neg creates a negation expression: -x
func Neg(x Expr) *UnaryExpr {
	return &UnaryExpr{Op: "-", X: x}
}

// Binary operators

func Add(x, y Expr) *BinaryExpr { return &BinaryExpr{X: x, Op: "+", Y: y} }
func Sub(x, y Expr) *BinaryExpr { return &BinaryExpr{X: x, Op: "-", Y: y} }
func Eq(x, y Expr) *BinaryExpr  { return &BinaryExpr{X: x, Op: "==", Y: y} }
func Neq(x, y Expr) *BinaryExpr { return &BinaryExpr{X: x, Op: "!=", Y: y} }
func Lt(x, y Expr) *BinaryExpr  { return &BinaryExpr{X: x, Op: "<", Y: y} }
func Gt(x, y Expr) *BinaryExpr  { return &BinaryExpr{X: x, Op: ">", Y: y} }
func Lte(x, y Expr) *BinaryExpr { return &BinaryExpr{X: x, Op: "<=", Y: y} }
func Gte(x, y Expr) *BinaryExpr { return &BinaryExpr{X: x, Op: ">=", Y: y} }
func And(x, y Expr) *BinaryExpr { return &BinaryExpr{X: x, Op: "&&", Y: y} }
func Or(x, y Expr) *BinaryExpr  { return &BinaryExpr{X: x, Op: "||", Y: y} }

// Raw creates a raw expression that is already placed (escape hatch)
func Raw(code string) *RawExpr {
	return &RawExpr{Code: code}
}

// RawOrder creates a raw expression that binds at level o
func RawOrder(code string, o order.Order) *RawExpr {
	return &RawExpr{Code: code, Order: o}
}

// Statement builders

// Var creates a variable declaration
func Var(typ string, names ...string) *VarDecl {
	return &VarDecl{Names: names, Type: typ}
}

// Assign creates an assignment statement
func Assign(left Expr, right Expr) *AssignStmt {
	return &AssignStmt{
		Left:  []Expr{left},
		Right: []Expr{right},
	}
}

// AssignMulti creates a multi-value assignment
func AssignMulti(left []Expr, right []Expr) *AssignStmt {
	return &AssignStmt{Left: left, Right: right}
}

// AssignOp creates a compound assignment: x op= y
func AssignOp(left Expr, op string, right Expr) *AssignStmt {
	return &AssignStmt{
		Left:  []Expr{left},
		Right: []Expr{right},
		Op:    op,
	}
}

// Define creates a short variable declaration (:=)
func Define(left Expr, right Expr) *AssignStmt {
	return &AssignStmt{
		Left:   []Expr{left},
		Right:  []Expr{right},
		Define: true,
	}
}

// DefineN creates a short declaration with named identifiers
func DefineN(names []string, right ...Expr) *AssignStmt {
	left := make([]Expr, len(names))
	for i, name := range names {
		left[i] = Id(name)
	}
	return &AssignStmt{Left: left, Right: right, Define: true}
}

// Inc creates x++
func Inc(x Expr) *IncDecStmt {
	return &IncDecStmt{X: x, Inc: true}
}

// Dec creates x--
func Dec(x Expr) *IncDecStmt {
	return &IncDecStmt{X: x}
}

// If creates an if statement
func If(cond Expr, then ...Stmt) *IfStmt {
	return &IfStmt{Cond: cond, Then: then}
}

// For creates a for loop with condition only
func For(cond Expr, body ...Stmt) *ForStmt {
	return &ForStmt{Cond: cond, Body: body}
}

// ForClassic creates a classic for loop
func ForClassic(init Stmt, cond Expr, post Stmt, body ...Stmt) *ForStmt {
	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body}
}

// Return creates a return statement
func Return(values ...Expr) *ReturnStmt {
	return &ReturnStmt{Values: values}
}

// ExprStatement wraps an expression as a statement
func ExprStatement(e Expr) *ExprStmt {
	return &ExprStmt{X: e}
}

// Verbatim inserts pre-indented statement text
func Verbatim(code string) *VerbatimStmt {
	return &VerbatimStmt{Code: code}
}

// parseExpr turns a dotted path such as "stub.GetState" into nested
// selector expressions
func parseExpr(path string) Expr {
	var result Expr
	start := 0

	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			part := path[start:i]
			if result == nil {
				result = Id(part)
			} else {
				result = &SelectorExpr{X: result, Sel: part}
			}
			start = i + 1
		}
	}

	return result
}
