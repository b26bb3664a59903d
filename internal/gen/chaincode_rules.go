package gen

import (
	"math"
	"strconv"

	"blockgen/internal/gen/block"
	"blockgen/internal/gen/ir"
	"blockgen/internal/gen/order"
)

var goCompareOperators = map[string]string{
	OpEq:  "==",
	OpNeq: "!=",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
}

var goArithmeticOperators = map[string]string{
	OpAdd:      "+",
	OpMinus:    "-",
	OpMultiply: "*",
	OpDivide:   "/",
}

// ControlsIf emits an if / else if chain with an optional else branch.
func (b *ChaincodeBackend) ControlsIf(p *Pass, n *block.Node) string {
	var first, last *ir.IfStmt
	for i := 0; ; i++ {
		suffix := strconv.Itoa(i)
		cond := p.ValueOr(n, SlotIf+suffix, order.None, NeutralBool)
		branch := p.StatementToCode(n, SlotDo+suffix)

		stmt := ir.If(ir.Raw(cond), ir.Verbatim(branch))
		if first == nil {
			first = stmt
		} else {
			last.Else = []ir.Stmt{stmt}
		}
		last = stmt

		if !n.HasInput(SlotIf + strconv.Itoa(i+1)) {
			break
		}
	}
	if n.HasInput(SlotElse) {
		last.Else = []ir.Stmt{ir.Verbatim(p.StatementToCode(n, SlotElse))}
	}
	return render(p, first)
}

// ControlsRepeat runs its body a fixed number of times. The count comes
// from the TIMES field when present, otherwise from the TIMES input.
func (b *ChaincodeBackend) ControlsRepeat(p *Pass, n *block.Node) string {
	repeats := repeatCount(p, n)
	loopVar := p.DistinctName("count")
	branch := p.AddLoopTrap(p.StatementToCode(n, SlotDo), n.ID)

	var stmts []ir.Stmt
	endVar := repeats
	if !IsSimple(repeats) {
		endVar = p.DistinctName("repeat_end")
		stmts = append(stmts, ir.Define(ir.Id(endVar), ir.Raw(repeats)))
	}
	stmts = append(stmts, ir.ForClassic(
		ir.Define(ir.Id(loopVar), ir.Lit(0)),
		ir.Lt(ir.Id(loopVar), ir.Raw(endVar)),
		ir.Inc(ir.Id(loopVar)),
		ir.Verbatim(branch),
	))
	return renderStmts(p, stmts)
}

func repeatCount(p *Pass, n *block.Node) string {
	if n.HasField(FieldTimes) {
		times, err := strconv.ParseFloat(n.FieldString(FieldTimes), 64)
		if err != nil {
			return p.backend.Neutral(NeutralNumber)
		}
		return formatNumber(times)
	}
	return p.ValueOr(n, SlotTimes, order.Assignment, NeutralNumber)
}

func (b *ChaincodeBackend) ControlsWhileUntil(p *Pass, n *block.Node) string {
	var cond string
	if n.FieldString(FieldMode) == ModeUntil {
		cond = "!" + p.ValueOr(n, SlotCond, order.LogicalNot, NeutralBool)
	} else {
		cond = p.ValueOr(n, SlotCond, order.None, NeutralBool)
	}
	branch := p.AddLoopTrap(p.StatementToCode(n, SlotDo), n.ID)
	return render(p, ir.For(ir.Raw(cond), ir.Verbatim(branch)))
}

// ControlsFor counts a variable over a range. Literal bounds and step give
// a plain loop in the right direction; anything else caches the bounds and
// picks the direction when the loop starts.
func (b *ChaincodeBackend) ControlsFor(p *Pass, n *block.Node) string {
	variable := p.VariableName(n.FieldString(FieldVar))
	from := p.ValueOr(n, SlotFrom, order.Assignment, NeutralNumber)
	to := p.ValueOr(n, SlotTo, order.Assignment, NeutralNumber)
	by := p.ValueToCode(n, SlotBy, order.Assignment)
	if by == "" {
		by = "1"
	}
	branch := p.AddLoopTrap(p.StatementToCode(n, SlotDo), n.ID)
	v := ir.Id(variable)

	if IsNumber(from) && IsNumber(to) && IsNumber(by) {
		start, _ := strconv.ParseFloat(from, 64)
		end, _ := strconv.ParseFloat(to, 64)
		step, _ := strconv.ParseFloat(by, 64)
		step = math.Abs(step)
		up := start <= end

		var cond ir.Expr
		var post ir.Stmt
		if up {
			cond = ir.Lte(v, ir.Raw(to))
		} else {
			cond = ir.Gte(v, ir.Raw(to))
		}
		switch {
		case step == 1 && up:
			post = ir.Inc(v)
		case step == 1:
			post = ir.Dec(v)
		case up:
			post = ir.AssignOp(v, "+", ir.Raw(formatNumber(step)))
		default:
			post = ir.AssignOp(v, "-", ir.Raw(formatNumber(step)))
		}
		return render(p, ir.ForClassic(ir.Define(v, ir.RawOrder(from, numberOrder(from))), cond, post, ir.Verbatim(branch)))
	}

	var stmts []ir.Stmt
	startVar := from
	if !IsSimple(from) {
		startVar = p.DistinctName(variable + "_start")
		stmts = append(stmts, ir.Define(ir.Id(startVar), ir.Raw(from)))
	}
	endVar := to
	if !IsSimple(to) {
		endVar = p.DistinctName(variable + "_end")
		stmts = append(stmts, ir.Define(ir.Id(endVar), ir.Raw(to)))
	}

	inc := ir.Id(p.DistinctName(variable + "_inc"))
	if IsNumber(by) {
		step, _ := strconv.ParseFloat(by, 64)
		stmts = append(stmts, ir.Define(inc, ir.Raw(formatNumber(math.Abs(step)))))
	} else {
		stmts = append(stmts,
			ir.Define(inc, ir.Raw(by)),
			ir.If(ir.Lt(inc, ir.Lit(0)), ir.Assign(inc, ir.Neg(inc))),
		)
	}
	stmts = append(stmts,
		ir.If(ir.Gt(ir.Id(startVar), ir.Id(endVar)), ir.Assign(inc, ir.Neg(inc))),
		ir.ForClassic(
			ir.Define(v, ir.Id(startVar)),
			ir.Or(
				ir.And(ir.Gte(inc, ir.Lit(0)), ir.Lte(v, ir.Id(endVar))),
				ir.And(ir.Lt(inc, ir.Lit(0)), ir.Gte(v, ir.Id(endVar))),
			),
			ir.AssignOp(v, "+", inc),
			ir.Verbatim(branch),
		),
	)
	return renderStmts(p, stmts)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (b *ChaincodeBackend) TextPrint(p *Pass, n *block.Node) string {
	msg := p.ValueOr(n, SlotText, order.None, NeutralText)
	return render(p, ir.ExprStatement(ir.Call("fmt.Println", ir.Raw(msg))))
}

// VariablesSet declares the variable on its first assignment in a pass
func (b *ChaincodeBackend) VariablesSet(p *Pass, n *block.Node) string {
	value := p.ValueOr(n, SlotValue, order.Assignment, NeutralNumber)
	name := p.VariableName(n.FieldString(FieldVar))
	if p.Context().Declare(name) {
		return render(p, ir.Define(ir.Id(name), ir.Raw(value)))
	}
	return render(p, ir.Assign(ir.Id(name), ir.Raw(value)))
}

func (b *ChaincodeBackend) LogicCompare(p *Pass, n *block.Node) (string, order.Order) {
	op, ok := goCompareOperators[n.FieldString(FieldOp)]
	if !ok {
		p.Report(unknownOperator(n))
		op = goCompareOperators[OpEq]
	}
	level := order.Binary(op)
	a := p.ValueOr(n, SlotA, level, NeutralNumber)
	c := p.ValueOr(n, SlotB, level, NeutralNumber)
	return a + " " + op + " " + c, level
}

func (b *ChaincodeBackend) LogicBoolean(p *Pass, n *block.Node) (string, order.Order) {
	if n.FieldBool(FieldBool) {
		return "true", order.Atomic
	}
	return "false", order.Atomic
}

func (b *ChaincodeBackend) MathNumber(p *Pass, n *block.Node) (string, order.Order) {
	code := n.FieldString(FieldNum)
	if code == "" {
		return b.Neutral(NeutralNumber), order.Atomic
	}
	return code, numberOrder(code)
}

// MathArithmetic emits a binary operator, or math.Pow for POWER.
func (b *ChaincodeBackend) MathArithmetic(p *Pass, n *block.Node) (string, order.Order) {
	field := n.FieldString(FieldOp)
	if field == OpPower {
		p.Context().AddImport("math")
		a := p.ValueOr(n, SlotA, order.Comma, NeutralNumber)
		c := p.ValueOr(n, SlotB, order.Comma, NeutralNumber)
		return "math.Pow(" + a + ", " + c + ")", order.FunctionCall
	}

	op, ok := goArithmeticOperators[field]
	if !ok {
		p.Report(unknownOperator(n))
		op = goArithmeticOperators[OpAdd]
	}
	level := order.Binary(op)
	a := p.ValueOr(n, SlotA, level, NeutralNumber)
	c := p.ValueOr(n, SlotB, level, NeutralNumber)
	return a + " " + op + " " + c, level
}

func (b *ChaincodeBackend) Text(p *Pass, n *block.Node) (string, order.Order) {
	return strconv.Quote(n.FieldString(FieldText)), order.Atomic
}

func (b *ChaincodeBackend) VariablesGet(p *Pass, n *block.Node) (string, order.Order) {
	return p.VariableName(n.FieldString(FieldVar)), order.Atomic
}
