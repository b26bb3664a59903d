package gen

import (
	"fmt"
	"strconv"
	"strings"

	"blockgen/internal/gen/block"
	"blockgen/internal/gen/ir"
	"blockgen/internal/gen/order"
)

// BackendGo emits Go chaincode for the Hyperledger Fabric shim
const BackendGo = "go"

const (
	shimImport = "github.com/hyperledger/fabric/core/chaincode/shim"
	peerImport = "github.com/hyperledger/fabric/protos/peer"
)

// goReservedWords holds the Go keywords, the predeclared identifiers and
// every identifier the chaincode skeleton itself uses. The builtin delete
// is left out: it names the delete sub-operation and generated code never
// calls the builtin.
var goReservedWords = []string{
	// keywords
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
	// predeclared
	"any", "append", "bool", "byte", "cap", "clear", "close", "complex",
	"complex64", "complex128", "copy", "error", "false", "float32",
	"float64", "imag", "int", "int8", "int16", "int32", "int64", "iota", "len",
	"make", "max", "min", "new", "nil", "panic", "print", "println", "real",
	"recover", "rune", "string", "true", "uint", "uint8", "uint16", "uint32",
	"uint64", "uintptr",
	// skeleton
	"fmt", "strconv", "math", "shim", "pb", "main", "t", "stub", "args",
	"function", "err", "SimpleChaincode", "Init", "Invoke", "USER_A", "USER_B",
	"USER_A_val_bytes", "USER_B_val_bytes", "Aval", "Bval", "MONEY",
	"user_name", "user_name_val", "jsonResp",
}

// ChaincodeBackend emits a Go chaincode program
type ChaincodeBackend struct{}

func (b *ChaincodeBackend) Name() string {
	return BackendGo
}

func (b *ChaincodeBackend) Indent() string {
	return "\t"
}

func (b *ChaincodeBackend) ReservedWords() []string {
	return goReservedWords
}

func (b *ChaincodeBackend) Neutral(kind Neutral) string {
	switch kind {
	case NeutralBool:
		return "false"
	case NeutralText:
		return `""`
	}
	return "0"
}

// Init registers the imports every chaincode needs
func (b *ChaincodeBackend) Init(p *Pass) {
	ctx := p.Context()
	ctx.AddImport("fmt")
	ctx.AddImport("strconv")
	ctx.AddImport(shimImport)
	ctx.AddImportAlias("pb", peerImport)
}

// Finish writes the package clause, the import block, the chaincode type
// and the pending definitions ahead of the body.
func (b *ChaincodeBackend) Finish(p *Pass, body string) string {
	ctx := p.Context()
	file := ir.NewFile("main")
	for _, path := range ctx.SortedImports() {
		if alias := ctx.Imports[path]; alias != "" {
			file.ImportAlias(alias, path)
		} else {
			file.Import(path)
		}
	}
	file.AddDecl(ir.Struct("SimpleChaincode"))

	var sb strings.Builder
	sb.WriteString(render(p, file.Build()))
	for _, def := range ctx.OrderedDefinitions() {
		sb.WriteString("\n")
		sb.WriteString(def)
	}
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String()
}

func (b *ChaincodeBackend) ScrubNakedValue(line string) string {
	return line + "\n"
}

// LoopTrap calls a counting helper that panics once a loop body ran more
// than the configured number of times.
func (b *ChaincodeBackend) LoopTrap(p *Pass, id string) string {
	name := p.ProvideFunction("loopTrap", loopTrapHelper(p, p.Options().LoopTrapLimit))
	return render(p, ir.ExprStatement(ir.Call(name, ir.Lit(id))))
}

func loopTrapHelper(p *Pass, limit int) string {
	counts := FunctionNamePlaceholder + "Counts"
	counter := ir.Index(ir.Id(counts), ir.Id("id"))
	helper := ir.NewFunc(FunctionNamePlaceholder).
		Param("id", "string").
		Body(
			ir.Inc(counter),
			ir.If(ir.Gt(counter, ir.Lit(limit)),
				ir.ExprStatement(ir.Call("panic",
					ir.Add(ir.Add(ir.Lit("loop trap: block "), ir.Id("id")), ir.Lit(" ran too many iterations")))),
			),
		).
		Build()
	return render(p, &ir.VarSpec{Name: counts, Value: ir.Raw("map[string]int{}")}) + "\n" + render(p, helper)
}

// render emits IR nodes at the top level; an emitter failure sticks on
// the pass.
func render(p *Pass, nodes ...ir.Node) string {
	code, err := ir.String(nodes...)
	if err != nil {
		p.fail(fmt.Errorf("failed to emit: %w", err))
		return ""
	}
	return code
}

func renderStmts(p *Pass, stmts []ir.Stmt) string {
	nodes := make([]ir.Node, len(stmts))
	for i, stmt := range stmts {
		nodes[i] = stmt
	}
	return render(p, nodes...)
}

// method starts a chaincode method taking the shim stub
func method(name string) *ir.FuncBuilder {
	return ir.NewFunc(name).
		Receiver("t", "*SimpleChaincode").
		Param("stub", "shim.ChaincodeStubInterface")
}

func printLine(text string) ir.Stmt {
	return ir.ExprStatement(ir.Call("fmt.Println", ir.Lit(text)))
}

func shimError(e ir.Expr) ir.Stmt {
	return ir.Return(ir.Call("shim.Error", e))
}

// stringArg renders a value slot as a Go string expression. Text literals
// are used as they are, number literals are quoted and anything else is
// converted at run time.
func (b *ChaincodeBackend) stringArg(p *Pass, n *block.Node, slot string) string {
	child := n.Value(slot)
	if child == nil {
		return b.Neutral(NeutralText)
	}
	code := p.ValueToCode(n, slot, order.None)
	switch child.Kind {
	case block.KindText:
		return code
	case block.KindMathNumber:
		return strconv.Quote(code)
	}
	return "fmt.Sprint(" + code + ")"
}
