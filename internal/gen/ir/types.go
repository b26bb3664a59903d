package ir

import "blockgen/internal/gen/order"

// Node is the base interface for all IR nodes
type Node interface {
	irNode()
}

// Expr represents an expression
type Expr interface {
	Node
	irExpr()
}

// Stmt represents a statement
type Stmt interface {
	Node
	irStmt()
}

// File represents a Go source file
type File struct {
	Package string
	Imports []Import
	Decls   []Decl
}

func (File) irNode() {}

// Import represents an import declaration
type Import struct {
	Alias string // empty for no alias
	Path  string
}

// Decl is a top-level declaration
type Decl interface {
	Node
	irDecl()
}

// StructDecl represents a struct type declaration
type StructDecl struct {
	Name   string
	Fields []FieldDef
}

func (StructDecl) irNode() {}
func (StructDecl) irDecl() {}

// FieldDef represents a struct field
type FieldDef struct {
	Name string
	Type string
}

// FuncDecl represents a function declaration
type FuncDecl struct {
	Receiver *Param // nil for non-method
	Name     string
	Params   []Param
	Results  []Param
	Body     []Stmt
}

func (FuncDecl) irNode() {}
func (FuncDecl) irDecl() {}

// VarSpec is a package-level var declaration
type VarSpec struct {
	Name  string
	Value Expr
}

func (VarSpec) irNode() {}
func (VarSpec) irDecl() {}

// Param represents a function parameter or return value
type Param struct {
	Name string // can be empty for unnamed returns
	Type string
}

// VarDecl represents a var declaration: var name Type = value
type VarDecl struct {
	Names []string
	Type  string // can be empty for type inference
	Value Expr   // can be nil
}

func (VarDecl) irNode() {}
func (VarDecl) irStmt() {}

// AssignStmt represents assignment: lhs = rhs, lhs := rhs or lhs op= rhs
type AssignStmt struct {
	Left   []Expr
	Right  []Expr
	Define bool   // true for :=
	Op     string // "+", "-" ... for compound assignment, empty otherwise
}

func (AssignStmt) irNode() {}
func (AssignStmt) irStmt() {}

// IncDecStmt represents x++ or x--
type IncDecStmt struct {
	X   Expr
	Inc bool
}

func (IncDecStmt) irNode() {}
func (IncDecStmt) irStmt() {}

// IfStmt represents an if statement
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // can be empty, or contain single IfStmt for else-if
}

func (IfStmt) irNode() {}
func (IfStmt) irStmt() {}

// ForStmt represents a for loop
type ForStmt struct {
	Init Stmt // optional
	Cond Expr // optional, nil = infinite loop
	Post Stmt // optional
	Body []Stmt
}

func (ForStmt) irNode() {}
func (ForStmt) irStmt() {}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Values []Expr
}

func (ReturnStmt) irNode() {}
func (ReturnStmt) irStmt() {}

// ExprStmt wraps an expression as a statement
type ExprStmt struct {
	X Expr
}

func (ExprStmt) irNode() {}
func (ExprStmt) irStmt() {}

// Ident represents an identifier
type Ident struct {
	Name string
}

func (Ident) irNode() {}
func (Ident) irExpr() {}

// Literal represents a literal value
type Literal struct {
	Value any    // string, int, float64, bool, nil
	Kind  string // "string", "int", "float", "bool", "nil"
}

func (Literal) irNode() {}
func (Literal) irExpr() {}

// CallExpr represents a function call
type CallExpr struct {
	Func Expr
	Args []Expr
}

func (CallExpr) irNode() {}
func (CallExpr) irExpr() {}

// SelectorExpr represents a.b
type SelectorExpr struct {
	X   Expr
	Sel string
}

func (SelectorExpr) irNode() {}
func (SelectorExpr) irExpr() {}

// IndexExpr represents a[i]
type IndexExpr struct {
	X     Expr
	Index Expr
}

func (IndexExpr) irNode() {}
func (IndexExpr) irExpr() {}

// UnaryExpr represents a unary expression: !x, -x
type UnaryExpr struct {
	Op string
	X  Expr
}

func (UnaryExpr) irNode() {}
func (UnaryExpr) irExpr() {}

// BinaryExpr represents a binary expression: x + y, x == y, etc.
// Operands are parenthesized only when the precedence table asks for it.
type BinaryExpr struct {
	X  Expr
	Op string
	Y  Expr
}

func (BinaryExpr) irNode() {}
func (BinaryExpr) irExpr() {}

// RawExpr inserts already rendered code. Order is the binding level of the
// code; the zero value (Atomic) means it is never wrapped again.
type RawExpr struct {
	Code  string
	Order order.Order
}

func (RawExpr) irNode() {}
func (RawExpr) irExpr() {}

// VerbatimStmt is statement text that is already indented and newline
// terminated, such as the rendered body of a nested statement slot.
type VerbatimStmt struct {
	Code string
}

func (VerbatimStmt) irNode() {}
func (VerbatimStmt) irStmt() {}
