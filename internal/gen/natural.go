package gen

import (
	"fmt"
	"strings"

	"blockgen/internal/gen/block"
	"blockgen/internal/gen/order"
)

// BackendNatural paraphrases the graph in English
const BackendNatural = "natural"

var naturalReservedWords = []string{
	"and", "or", "not", "if", "else", "true", "false",
}

var naturalCompareOperators = map[string]string{
	OpEq:  "is equal to",
	OpNeq: "is not equal to",
	OpLt:  "less than",
	OpLte: "no more than",
	OpGt:  "more than",
	OpGte: "no less than",
}

var naturalArithmeticOperators = map[string]struct {
	word  string
	level order.Order
}{
	OpAdd:      {"add", order.Addition},
	OpMinus:    {"sub", order.Subtraction},
	OpMultiply: {"multiply", order.Multiplication},
	OpDivide:   {"divide", order.Division},
}

// NaturalBackend emits a plain-English description of the program
type NaturalBackend struct{}

func (b *NaturalBackend) Name() string {
	return BackendNatural
}

func (b *NaturalBackend) Indent() string {
	return "  "
}

func (b *NaturalBackend) ReservedWords() []string {
	return naturalReservedWords
}

func (b *NaturalBackend) Neutral(kind Neutral) string {
	switch kind {
	case NeutralBool:
		return "false"
	case NeutralText:
		return "''"
	}
	return "0"
}

func (b *NaturalBackend) Init(p *Pass) {}

// Finish puts the pending definitions ahead of the body, a blank line apart.
func (b *NaturalBackend) Finish(p *Pass, body string) string {
	defs := p.Context().OrderedDefinitions()
	if len(defs) == 0 {
		return body
	}
	return strings.Join(defs, "\n\n") + "\n\n" + body
}

func (b *NaturalBackend) ScrubNakedValue(line string) string {
	return line + "\n"
}

func (b *NaturalBackend) LoopTrap(p *Pass, id string) string {
	return fmt.Sprintf("stop if block %s repeats more than %d times\n", id, p.Options().LoopTrapLimit)
}

// plain renders an account or amount slot. Text literals lose their quotes.
func (b *NaturalBackend) plain(p *Pass, n *block.Node, slot string) string {
	child := n.Value(slot)
	if child != nil && child.Kind == block.KindText {
		return child.FieldString(FieldText)
	}
	return p.ValueOr(n, slot, order.Atomic, NeutralNumber)
}

func (b *NaturalBackend) LedgerInit(p *Pass, n *block.Node) string {
	return "chaincode init:\n" + p.AddLoopTrap(p.StatementToCode(n, SlotInit), n.ID)
}

func (b *NaturalBackend) LedgerBody(p *Pass, n *block.Node) string {
	return "chaincode body:\n" + p.AddLoopTrap(p.StatementToCode(n, SlotBody), n.ID)
}

func (b *NaturalBackend) LedgerInitBody(p *Pass, n *block.Node) string {
	return b.LedgerInit(p, n) + b.LedgerBody(p, n)
}

func (b *NaturalBackend) LedgerInvoke(p *Pass, n *block.Node) string {
	return fmt.Sprintf("Transaction: %s gives %s %s dollar(s).\n",
		b.plain(p, n, SlotAccountA), b.plain(p, n, SlotAccountB), b.plain(p, n, SlotAmount))
}

func (b *NaturalBackend) LedgerQuery(p *Pass, n *block.Node) string {
	account := b.plain(p, n, SlotQueryAccount)
	code := fmt.Sprintf("Query: query %s's account.\n", account)
	if n.FieldBool(FieldQuerySecurity) {
		code += fmt.Sprintf("The query fails when %s's account is empty.\n", account)
	}
	return code
}

func (b *NaturalBackend) LedgerDelete(p *Pass, n *block.Node) string {
	return fmt.Sprintf("Delete: delete the user %s\n", b.plain(p, n, SlotDeleteAccount))
}

func (b *NaturalBackend) SetValue(p *Pass, n *block.Node) string {
	name := p.VariableName(n.FieldString(FieldSetName))
	code := fmt.Sprintf("There is %s dollar in %s's account.\n", b.plain(p, n, SlotSetValue), name)
	if n.FieldBool(FieldSetSecurity) {
		code += "The amount must be an integer.\n"
	}
	return code
}

func (b *NaturalBackend) ControlsIf(p *Pass, n *block.Node) string {
	var sb strings.Builder
	for i := 0; ; i++ {
		suffix := fmt.Sprint(i)
		if i > 0 {
			sb.WriteString("else ")
		}
		sb.WriteString("if " + p.ValueOr(n, SlotIf+suffix, order.None, NeutralBool) + ":\n")
		sb.WriteString(p.StatementToCode(n, SlotDo+suffix))
		if !n.HasInput(SlotIf + fmt.Sprint(i+1)) {
			break
		}
	}
	if n.HasInput(SlotElse) {
		sb.WriteString("else:\n")
		sb.WriteString(p.StatementToCode(n, SlotElse))
	}
	return sb.String()
}

func (b *NaturalBackend) ControlsRepeat(p *Pass, n *block.Node) string {
	branch := p.AddLoopTrap(p.StatementToCode(n, SlotDo), n.ID)
	return "recycle for " + repeatCount(p, n) + " times:\n" + branch
}

func (b *NaturalBackend) ControlsWhileUntil(p *Pass, n *block.Node) string {
	mode := "while"
	if n.FieldString(FieldMode) == ModeUntil {
		mode = "until"
	}
	cond := p.ValueOr(n, SlotCond, order.None, NeutralBool)
	branch := p.AddLoopTrap(p.StatementToCode(n, SlotDo), n.ID)
	return "recycle " + mode + " " + cond + ":\n" + branch
}

func (b *NaturalBackend) ControlsFor(p *Pass, n *block.Node) string {
	variable := p.VariableName(n.FieldString(FieldVar))
	from := p.ValueOr(n, SlotFrom, order.None, NeutralNumber)
	to := p.ValueOr(n, SlotTo, order.None, NeutralNumber)
	by := p.ValueToCode(n, SlotBy, order.None)
	if by == "" {
		by = "1"
	}
	branch := p.AddLoopTrap(p.StatementToCode(n, SlotDo), n.ID)
	return fmt.Sprintf("count with %s from %s to %s by %s:\n", variable, from, to, by) + branch
}

func (b *NaturalBackend) TextPrint(p *Pass, n *block.Node) string {
	return "Output the data of " + p.ValueOr(n, SlotText, order.None, NeutralText) + "\n"
}

func (b *NaturalBackend) VariablesSet(p *Pass, n *block.Node) string {
	value := p.ValueOr(n, SlotValue, order.None, NeutralNumber)
	return "set " + p.VariableName(n.FieldString(FieldVar)) + " to " + value + "\n"
}

func (b *NaturalBackend) LogicCompare(p *Pass, n *block.Node) (string, order.Order) {
	field := n.FieldString(FieldOp)
	word, ok := naturalCompareOperators[field]
	if !ok {
		p.Report(unknownOperator(n))
		field = OpEq
		word = naturalCompareOperators[OpEq]
	}
	level := order.Relational
	if field == OpEq || field == OpNeq {
		level = order.Equality
	}
	a := p.ValueOr(n, SlotA, level, NeutralNumber)
	c := p.ValueOr(n, SlotB, level, NeutralNumber)
	return a + " " + word + " " + c, level
}

func (b *NaturalBackend) LogicBoolean(p *Pass, n *block.Node) (string, order.Order) {
	if n.FieldBool(FieldBool) {
		return "true", order.Atomic
	}
	return "false", order.Atomic
}

func (b *NaturalBackend) MathNumber(p *Pass, n *block.Node) (string, order.Order) {
	code := n.FieldString(FieldNum)
	if code == "" {
		return b.Neutral(NeutralNumber), order.Atomic
	}
	return code, numberOrder(code)
}

func (b *NaturalBackend) MathArithmetic(p *Pass, n *block.Node) (string, order.Order) {
	field := n.FieldString(FieldOp)
	if field == OpPower {
		a := p.ValueOr(n, SlotA, order.Comma, NeutralNumber)
		c := p.ValueOr(n, SlotB, order.Comma, NeutralNumber)
		return "pow(" + a + ", " + c + ")", order.FunctionCall
	}

	op, ok := naturalArithmeticOperators[field]
	if !ok {
		p.Report(unknownOperator(n))
		op = naturalArithmeticOperators[OpAdd]
	}
	a := p.ValueOr(n, SlotA, op.level, NeutralNumber)
	c := p.ValueOr(n, SlotB, op.level, NeutralNumber)
	return a + " " + op.word + " " + c, op.level
}

func (b *NaturalBackend) Text(p *Pass, n *block.Node) (string, order.Order) {
	return singleQuote(n.FieldString(FieldText)), order.Atomic
}

func (b *NaturalBackend) VariablesGet(p *Pass, n *block.Node) (string, order.Order) {
	return p.VariableName(n.FieldString(FieldVar)), order.Atomic
}

var singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `'`, `\'`)

func singleQuote(text string) string {
	return "'" + singleQuoteEscaper.Replace(text) + "'"
}
