package gen

import (
	"blockgen/internal/gen/block"
	"blockgen/internal/gen/ir"
	"blockgen/internal/gen/names"
	"blockgen/internal/gen/order"
)

// Sub-operations the Invoke dispatcher routes to
const (
	opInvoke = "invoke"
	opQuery  = "query"
	opDelete = "delete"
)

// operationName returns the method name of a sub-operation block. The first
// block of an operation takes the name the dispatcher routes to, later ones
// get numbered names.
func operationName(p *Pass, op string) string {
	if p.Context().Declare("func " + op) {
		return p.Names().GetName(op, names.Procedure)
	}
	return p.ProcedureName(op)
}

func (b *ChaincodeBackend) LedgerInit(p *Pass, n *block.Node) string {
	branch := p.StatementToCode(n, SlotInit)
	branch = p.AddLoopTrap(branch, n.ID)

	fn := method("Init").
		Returns("pb.Response").
		Body(
			printLine("ex02 Init"),
			ir.Verbatim(branch),
			ir.Return(ir.Call("shim.Success", ir.Nil())),
		).
		Build()
	return render(p, fn)
}

// LedgerBody emits the Invoke dispatcher, the sub-operations plugged into
// the body and the program entry point.
func (b *ChaincodeBackend) LedgerBody(p *Pass, n *block.Node) string {
	route := func(op string, call ir.Expr) *ir.IfStmt {
		return ir.If(ir.Eq(ir.Id("function"), ir.Lit(op)), ir.Return(call))
	}
	subCall := func(op string) ir.Expr {
		return ir.Call("t."+p.Names().GetName(op, names.Procedure), ir.Id("stub"), ir.Id("args"))
	}

	routes := []*ir.IfStmt{
		route(opInvoke, subCall(opInvoke)),
		route("init", ir.Call("t.Init", ir.Id("stub"))),
		route(opDelete, subCall(opDelete)),
		route(opQuery, subCall(opQuery)),
	}
	for i := len(routes) - 1; i > 0; i-- {
		routes[i-1].Else = []ir.Stmt{routes[i]}
	}

	invoke := method("Invoke").
		Returns("pb.Response").
		Body(
			printLine("ex02 Invoke"),
			ir.DefineN([]string{"function", "args"}, ir.Call("stub.GetFunctionAndParameters")),
			routes[0],
			shimError(ir.Lit(`Invalid invoke function name. Expecting "invoke" "delete" "query"`)),
		).
		Build()

	entry := ir.NewFunc("main").
		Body(
			ir.Define(ir.Id("err"), ir.Call("shim.Start", ir.Call("new", ir.Id("SimpleChaincode")))),
			ir.If(ir.Neq(ir.Id("err"), ir.Nil()),
				ir.ExprStatement(ir.Call("fmt.Printf", ir.Lit("Error starting Simple chaincode: %s"), ir.Id("err"))),
			),
		).
		Build()

	// The body holds method declarations; a loop trap call is not legal there.
	code := render(p, invoke) + "\n"
	if body := p.SequenceToCode(n, SlotBody); body != "" {
		code += body + "\n"
	}
	return code + render(p, entry)
}

func (b *ChaincodeBackend) LedgerInitBody(p *Pass, n *block.Node) string {
	return b.LedgerInit(p, n) + "\n" + b.LedgerBody(p, n)
}

// LedgerInvoke emits the transfer: both balances are read and must exist,
// the amount moves from A to B and both balances are written back.
func (b *ChaincodeBackend) LedgerInvoke(p *Pass, n *block.Node) string {
	fn := method(operationName(p, opInvoke)).
		Param("args", "[]string").
		Returns("pb.Response").
		Body(
			printLine("Running invoke"),
			ir.Var("int", "Aval", "Bval"),
			ir.Define(ir.Id("USER_A"), ir.Raw(b.stringArg(p, n, SlotAccountA))),
			ir.Define(ir.Id("USER_B"), ir.Raw(b.stringArg(p, n, SlotAccountB))),
		)
	fn.Body(readBalance("USER_A", "Aval")...)
	fn.Body(readBalance("USER_B", "Bval")...)

	amount, prelude := b.amount(p, n)
	fn.Body(prelude...)
	fn.Body(
		ir.Assign(ir.Id("Aval"), ir.Sub(ir.Id("Aval"), amount)),
		ir.Assign(ir.Id("Bval"), ir.Add(ir.Id("Bval"), amount)),
		ir.ExprStatement(ir.Call("fmt.Printf", ir.Lit("Aval = %d, Bval = %d\n"), ir.Id("Aval"), ir.Id("Bval"))),
	)
	fn.Body(writeBalance("err", "USER_A", ir.Id("Aval"))...)
	fn.Body(writeBalance("err", "USER_B", ir.Id("Bval"))...)
	fn.Body(ir.Return(ir.Call("shim.Success", ir.Nil())))

	return render(p, fn.Build())
}

// amount returns the transfer amount and the statements that compute it.
// Number literals and numeric text are substituted as they are; other text
// is parsed at run time and any other expression is evaluated once.
func (b *ChaincodeBackend) amount(p *Pass, n *block.Node) (ir.Expr, []ir.Stmt) {
	child := n.Value(SlotAmount)
	if child == nil {
		return ir.Lit(0), nil
	}
	code := p.ValueToCode(n, SlotAmount, order.None)

	if child.Kind == block.KindText {
		text := child.FieldString(FieldText)
		if IsNumber(text) {
			return ir.RawOrder(text, numberOrder(text)), nil
		}
		return ir.Id("MONEY"), []ir.Stmt{
			ir.DefineN([]string{"MONEY", "err"}, ir.Call("strconv.Atoi", ir.Raw(code))),
			ir.If(ir.Neq(ir.Id("err"), ir.Nil()),
				shimError(ir.Lit("Expecting integer value for transfer amount")),
			),
		}
	}
	if IsSimple(code) {
		return ir.RawOrder(code, numberOrder(code)), nil
	}
	return ir.Id("MONEY"), []ir.Stmt{ir.Define(ir.Id("MONEY"), ir.Raw(code))}
}

func numberOrder(code string) order.Order {
	if len(code) > 0 && code[0] == '-' {
		return order.UnaryNegation
	}
	return order.Atomic
}

func readBalance(account, balance string) []ir.Stmt {
	raw := account + "_val_bytes"
	return []ir.Stmt{
		ir.DefineN([]string{raw, "err"}, ir.Call("stub.GetState", ir.Id(account))),
		ir.If(ir.Neq(ir.Id("err"), ir.Nil()), shimError(ir.Lit("Failed to get state"))),
		ir.If(ir.Eq(ir.Id(raw), ir.Nil()), shimError(ir.Lit("Entity not found"))),
		ir.AssignMulti(
			[]ir.Expr{ir.Id(balance), ir.Id("_")},
			[]ir.Expr{ir.Call("strconv.Atoi", ir.Call("string", ir.Id(raw)))},
		),
	}
}

// writeBalance stores an integer under key and fails on a write error
func writeBalance(errName, key string, value ir.Expr) []ir.Stmt {
	stored := ir.Call("[]byte", ir.Call("strconv.Itoa", value))
	return []ir.Stmt{
		ir.Assign(ir.Id(errName), ir.Call("stub.PutState", ir.Id(key), stored)),
		ir.If(ir.Neq(ir.Id(errName), ir.Nil()),
			shimError(ir.Call(errName+".Error")),
		),
	}
}

// jsonMessage builds a one-key JSON object around the queried account name
func jsonMessage(key, prefix string) ir.Expr {
	return ir.Add(ir.Add(ir.Lit(`{"`+key+`":"`+prefix), ir.Id("user_name")), ir.Lit(`"}`))
}

// LedgerQuery emits the balance lookup. The absence branch is only emitted
// when the query security toggle is set.
func (b *ChaincodeBackend) LedgerQuery(p *Pass, n *block.Node) string {
	fn := method(operationName(p, opQuery)).
		Param("args", "[]string").
		Returns("pb.Response").
		Body(
			printLine("Running query"),
			ir.Define(ir.Id("user_name"), ir.Raw(b.stringArg(p, n, SlotQueryAccount))),
			ir.DefineN([]string{"user_name_val", "err"}, ir.Call("stub.GetState", ir.Id("user_name"))),
			ir.If(ir.Neq(ir.Id("err"), ir.Nil()),
				ir.Define(ir.Id("jsonResp"), jsonMessage("Error", "Failed to get state for ")),
				shimError(ir.Id("jsonResp")),
			),
		)
	if n.FieldBool(FieldQuerySecurity) {
		fn.Body(ir.If(ir.Eq(ir.Id("user_name_val"), ir.Nil()),
			ir.Define(ir.Id("jsonResp"), jsonMessage("Error", "Nil amount for ")),
			shimError(ir.Id("jsonResp")),
		))
	}

	response := ir.Add(
		ir.Add(ir.Add(ir.Lit(`{"Name":"`), ir.Id("user_name")), ir.Lit(`","Amount":"`)),
		ir.Add(ir.Call("string", ir.Id("user_name_val")), ir.Lit(`"}`)),
	)
	fn.Body(
		ir.Define(ir.Id("jsonResp"), response),
		ir.ExprStatement(ir.Call("fmt.Printf", ir.Lit("Query Response:%s\n"), ir.Id("jsonResp"))),
		ir.Return(ir.Call("shim.Success", ir.Id("user_name_val"))),
	)
	return render(p, fn.Build())
}

// LedgerDelete emits the removal of an account. The delete security toggle
// is reported by Validate and does not change the output.
func (b *ChaincodeBackend) LedgerDelete(p *Pass, n *block.Node) string {
	fn := method(operationName(p, opDelete)).
		Param("args", "[]string").
		Returns("pb.Response").
		Body(
			printLine("Running delete"),
			ir.Define(ir.Id("user_name"), ir.Raw(b.stringArg(p, n, SlotDeleteAccount))),
			ir.Define(ir.Id("err"), ir.Call("stub.DelState", ir.Id("user_name"))),
			ir.If(ir.Neq(ir.Id("err"), ir.Nil()), shimError(ir.Lit("Failed to delete state"))),
			ir.Return(ir.Call("shim.Success", ir.Nil())),
		).
		Build()
	return render(p, fn)
}

// SetValue parses a value into an integer and stores it under the variable
// name. The variables are declared the first time a name is set in a pass;
// the value and error temporaries are issued then and reused afterwards.
func (b *ChaincodeBackend) SetValue(p *Pass, n *block.Node) string {
	raw := n.FieldString(FieldSetName)
	name := p.VariableName(raw)
	temps, ok := p.Context().SetValueVars[name]
	if !ok {
		temps = SetValueVars{
			Value: p.DistinctName(name + "val"),
			Err:   p.DistinctName("err_" + name),
		}
		p.Context().SetValueVars[name] = temps
	}
	val, errName := temps.Value, temps.Err

	var stmts []ir.Stmt
	if p.Context().Declare(name) {
		stmts = append(stmts,
			ir.Var("string", name),
			ir.Var("int", val),
			ir.Var("error", errName),
		)
	}
	stmts = append(stmts,
		ir.Assign(ir.Id(name), ir.Lit(raw)),
		ir.AssignMulti(
			[]ir.Expr{ir.Id(val), ir.Id(errName)},
			[]ir.Expr{ir.Call("strconv.Atoi", ir.Raw(b.stringArg(p, n, SlotSetValue)))},
		),
	)
	if n.FieldBool(FieldSetSecurity) {
		stmts = append(stmts, ir.If(ir.Neq(ir.Id(errName), ir.Nil()),
			shimError(ir.Lit("Expecting integer value for asset holding")),
		))
	}
	stmts = append(stmts, writeBalance(errName, name, ir.Id(val))...)

	return renderStmts(p, stmts)
}
