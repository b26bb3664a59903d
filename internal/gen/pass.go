package gen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"blockgen/internal/gen/block"
	"blockgen/internal/gen/names"
	"blockgen/internal/gen/order"
)

// FunctionNamePlaceholder is replaced by the issued name in code passed to
// ProvideFunction.
const FunctionNamePlaceholder = "{{.FunctionName}}"

var (
	leadingBlankLines  = regexp.MustCompile(`^\s+\n`)
	trailingWhitespace = regexp.MustCompile(`\n\s+$`)
	lineEndSpaces      = regexp.MustCompile(`[ \t]+\n`)
	wordOnly           = regexp.MustCompile(`^\w+$`)
)

// Pass is one traversal of a graph by one backend. Every emission rule
// receives the pass and reads and writes state only through it. The first
// error sticks; later calls become no-ops returning empty text.
type Pass struct {
	backend Backend
	opts    Options
	ctx     *GenerationContext
	names   *names.Resolver

	onStack     map[*block.Node]bool
	diagnostics []Diagnostic
	err         error
}

func newPass(b Backend, opts Options) *Pass {
	return &Pass{
		backend: b,
		opts:    opts,
		ctx:     NewGenerationContext(),
		names:   names.New(b.ReservedWords()...),
		onStack: make(map[*block.Node]bool),
	}
}

// Context returns the pending collections of the pass
func (p *Pass) Context() *GenerationContext {
	return p.ctx
}

// Names returns the name resolver of the pass
func (p *Pass) Names() *names.Resolver {
	return p.names
}

// Options returns the options of the pass
func (p *Pass) Options() Options {
	return p.opts
}

// Err returns the sticky error
func (p *Pass) Err() error {
	return p.err
}

func (p *Pass) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Report records a diagnostic found while emitting
func (p *Pass) Report(d Diagnostic) {
	p.diagnostics = append(p.diagnostics, d)
}

// VariableName resolves a user variable name
func (p *Pass) VariableName(raw string) string {
	return p.names.GetName(raw, names.Variable)
}

// DistinctName issues a variable name never returned before in the pass
func (p *Pass) DistinctName(seed string) string {
	return p.names.GetDistinctName(seed, names.Variable)
}

// ProcedureName issues a fresh procedure name. A second procedure asking
// for the same name gets a numbered one.
func (p *Pass) ProcedureName(desired string) string {
	return p.names.GetDistinctName(desired, names.Procedure)
}

// ProvideFunction registers a helper definition once per pass and returns
// its issued name.
func (p *Pass) ProvideFunction(desired, code string) string {
	if name, ok := p.ctx.FunctionNames[desired]; ok {
		return name
	}
	name := p.names.GetDistinctName(desired, names.Procedure)
	p.ctx.FunctionNames[desired] = name
	p.ctx.AddDefinition(desired, strings.ReplaceAll(code, FunctionNamePlaceholder, name))
	return name
}

func (p *Pass) run(graph *block.Graph) (string, error) {
	p.backend.Init(p)

	lines := make([]string, 0, len(graph.Blocks))
	for _, n := range graph.Blocks {
		if n == nil {
			continue
		}
		code, _ := p.blockToCode(n, false)
		if p.err != nil {
			return "", p.err
		}
		if code == "" {
			continue
		}
		if n.Kind.IsValue() {
			code = p.backend.ScrubNakedValue(code)
		}
		lines = append(lines, code)
	}

	code := p.backend.Finish(p, strings.Join(lines, "\n"))
	if p.err != nil {
		return "", p.err
	}
	code = leadingBlankLines.ReplaceAllString(code, "")
	code = trailingWhitespace.ReplaceAllString(code, "\n")
	code = lineEndSpaces.ReplaceAllString(code, "\n")
	return code, nil
}

// blockToCode emits one node and, for statements, the rest of its
// sequence. inline is set for nodes plugged into a value slot.
func (p *Pass) blockToCode(n *block.Node, inline bool) (string, order.Order) {
	if n == nil || p.err != nil {
		return "", order.None
	}
	if p.onStack[n] {
		p.fail(fmt.Errorf("%w: block %q reached twice", ErrCyclicGraph, n.ID))
		return "", order.None
	}
	p.onStack[n] = true
	defer delete(p.onStack, n)

	code, ord := p.dispatch(n)
	if p.err != nil {
		return "", order.None
	}
	return p.scrub(n, code, inline), ord
}

// dispatch selects the rule of the node kind.
func (p *Pass) dispatch(n *block.Node) (string, order.Order) {
	r := p.backend
	switch n.Kind {
	case block.KindLedgerInit:
		return r.LedgerInit(p, n), order.None
	case block.KindLedgerBody:
		return r.LedgerBody(p, n), order.None
	case block.KindLedgerInitBody:
		return r.LedgerInitBody(p, n), order.None
	case block.KindLedgerInvoke:
		return r.LedgerInvoke(p, n), order.None
	case block.KindLedgerQuery:
		return r.LedgerQuery(p, n), order.None
	case block.KindLedgerDelete:
		return r.LedgerDelete(p, n), order.None
	case block.KindSetValue:
		return r.SetValue(p, n), order.None
	case block.KindControlsIf, block.KindControlsIfElse:
		return r.ControlsIf(p, n), order.None
	case block.KindControlsRepeat, block.KindControlsRepeatExt:
		return r.ControlsRepeat(p, n), order.None
	case block.KindControlsWhileUntil:
		return r.ControlsWhileUntil(p, n), order.None
	case block.KindControlsFor:
		return r.ControlsFor(p, n), order.None
	case block.KindTextPrint:
		return r.TextPrint(p, n), order.None
	case block.KindVariablesSet:
		return r.VariablesSet(p, n), order.None
	case block.KindLogicCompare:
		return r.LogicCompare(p, n)
	case block.KindLogicBoolean:
		return r.LogicBoolean(p, n)
	case block.KindMathNumber:
		return r.MathNumber(p, n)
	case block.KindMathArithmetic:
		return r.MathArithmetic(p, n)
	case block.KindText:
		return r.Text(p, n)
	case block.KindVariablesGet:
		return r.VariablesGet(p, n)
	}
	p.fail(fmt.Errorf("%w: %q (block %q)", block.ErrUnknownKind, n.Kind, n.ID))
	return "", order.None
}

// ValueToCode emits the node plugged into a value slot, parenthesized for a
// slot that requires the outer level. An empty slot yields "".
func (p *Pass) ValueToCode(n *block.Node, slot string, outer order.Order) string {
	child := n.Value(slot)
	if child == nil || p.err != nil {
		return ""
	}
	if !child.Kind.IsValue() {
		p.fail(fmt.Errorf("%w: %s block %q in value slot %s", ErrSlotMismatch, child.Kind, child.ID, slot))
		return ""
	}
	code, inner := p.blockToCode(child, true)
	return order.Wrap(code, outer, inner)
}

// ValueOr is ValueToCode with the backend neutral literal for an empty slot
func (p *Pass) ValueOr(n *block.Node, slot string, outer order.Order, neutral Neutral) string {
	if code := p.ValueToCode(n, slot, outer); code != "" {
		return code
	}
	return p.backend.Neutral(neutral)
}

// StatementToCode emits the sequence plugged into a statement slot,
// indented one level.
func (p *Pass) StatementToCode(n *block.Node, slot string) string {
	code := p.sequenceToCode(n.Statement(slot))
	if code == "" {
		return ""
	}
	return PrefixLines(code, p.backend.Indent())
}

// SequenceToCode emits a statement slot without indenting it, for slots
// whose statements become top-level declarations.
func (p *Pass) SequenceToCode(n *block.Node, slot string) string {
	return p.sequenceToCode(n.Statement(slot))
}

func (p *Pass) sequenceToCode(first *block.Node) string {
	if first == nil || p.err != nil {
		return ""
	}
	if first.Kind.IsValue() {
		p.fail(fmt.Errorf("%w: %s block %q in a statement sequence", ErrSlotMismatch, first.Kind, first.ID))
		return ""
	}
	code, _ := p.blockToCode(first, false)
	return code
}

// AddLoopTrap prefixes a loop body with the backend iteration guard when
// loop traps are enabled.
func (p *Pass) AddLoopTrap(branch, id string) string {
	if !p.opts.LoopTrap {
		return branch
	}
	return PrefixLines(p.backend.LoopTrap(p, id), p.backend.Indent()) + branch
}

// scrub attaches the node comment and the nested comments of its value
// children, then appends the rest of the sequence. Inline nodes get
// neither. A procedure is kept a blank line apart from what follows it.
func (p *Pass) scrub(n *block.Node, code string, inline bool) string {
	if inline {
		return code
	}

	var comments strings.Builder
	if text := Wrap(n.Comment, p.opts.CommentWrap-3); text != "" {
		if n.Kind.IsProcedure() {
			comments.WriteString("/**\n")
			comments.WriteString(PrefixLines(text+"\n", " * "))
			comments.WriteString(" */\n")
		} else {
			comments.WriteString(PrefixLines(text+"\n", "// "))
		}
	}
	for _, slot := range sortedSlots(n.Values) {
		if nested := allNestedComments(n.Values[slot]); nested != "" {
			comments.WriteString(PrefixLines(nested, "// "))
		}
	}

	if n.Kind.IsValue() {
		return comments.String() + code
	}
	next := p.sequenceToCode(n.Next)
	if next != "" && n.Kind.IsProcedure() {
		next = "\n" + next
	}
	return comments.String() + code + next
}

// GetAdjusted reads an index slot and shifts it by delta, taking the
// one-based option into account. Literal indexes are folded at generation
// time; anything else is adjusted in the emitted code.
func (p *Pass) GetAdjusted(n *block.Node, slot string, delta int, negate bool, outer order.Order) string {
	if p.opts.OneBasedIndex {
		delta--
	}
	defaultAt := "0"
	if p.opts.OneBasedIndex {
		defaultAt = "1"
	}

	var at string
	switch {
	case delta > 0:
		at = p.ValueToCode(n, slot, order.Addition)
	case delta < 0:
		at = p.ValueToCode(n, slot, order.Subtraction)
	case negate:
		at = p.ValueToCode(n, slot, order.UnaryNegation)
	default:
		at = p.ValueToCode(n, slot, outer)
	}
	if at == "" {
		at = defaultAt
	}

	if f, err := strconv.ParseFloat(at, 64); err == nil {
		f += float64(delta)
		if negate {
			f = -f
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	var inner order.Order
	if delta > 0 {
		at = at + " + " + strconv.Itoa(delta)
		inner = order.Addition
	} else if delta < 0 {
		at = at + " - " + strconv.Itoa(-delta)
		inner = order.Subtraction
	}
	if negate {
		if delta != 0 {
			at = "-(" + at + ")"
		} else {
			at = "-" + at
		}
		inner = order.UnaryNegation
	}
	if inner != order.Atomic && order.NeedsParens(outer, inner) {
		at = "(" + at + ")"
	}
	return at
}

// IsNumber reports whether code is a plain numeric literal
func IsNumber(code string) bool {
	if code == "" || strings.ContainsAny(code[:1], "iInN") {
		return false
	}
	_, err := strconv.ParseFloat(code, 64)
	return err == nil
}

// IsSimple reports whether code can be repeated without being cached in a
// variable first.
func IsSimple(code string) bool {
	return wordOnly.MatchString(code) || IsNumber(code)
}
