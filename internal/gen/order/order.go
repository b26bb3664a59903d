// Package order holds the binding-power table shared by every backend.
// Lower values bind tighter. Levels are rationals so a new level can be
// slotted between two existing ones without renumbering.
package order

import "math"

type Order float64

const (
	Atomic         Order = 0
	New            Order = 1.1
	Member         Order = 1.2
	FunctionCall   Order = 2
	Increment      Order = 3
	Decrement      Order = 3
	BitwiseNot     Order = 4.1
	UnaryPlus      Order = 4.2
	UnaryNegation  Order = 4.3
	LogicalNot     Order = 4.4
	Typeof         Order = 4.5
	Void           Order = 4.6
	Delete         Order = 4.7
	Division       Order = 5.1
	Multiplication Order = 5.2
	Modulus        Order = 5.3
	Subtraction    Order = 6.1
	Addition       Order = 6.2
	BitwiseShift   Order = 7
	Relational     Order = 8
	Equality       Order = 9
	BitwiseAnd     Order = 10
	BitwiseXor     Order = 11
	BitwiseOr      Order = 12
	LogicalAnd     Order = 13
	LogicalOr      Order = 14
	Conditional    Order = 15
	Assignment     Order = 16
	Comma          Order = 17
	None           Order = 99
)

// Pair is an (outer, inner) combination.
type Pair struct {
	Outer Order
	Inner Order
}

// Overrides lists the pairs that never need parentheses even though the
// classes would ask for them.
var Overrides = []Pair{
	{FunctionCall, Member},       // foo().bar
	{FunctionCall, FunctionCall}, // foo()()
	{Member, Member},             // foo.bar.baz
	{Member, FunctionCall},       // foo.bar()
	{LogicalNot, LogicalNot},     // !!foo
	{Multiplication, Multiplication},
	{Addition, Addition},
	{LogicalAnd, LogicalAnd},
	{LogicalOr, LogicalOr},
}

// Class is the integer band of the level.
func (o Order) Class() float64 {
	return math.Floor(float64(o))
}

// NeedsParens reports whether an inner expression must be wrapped when it
// is placed in a slot that requires the outer level.
func NeedsParens(outer, inner Order) bool {
	outerClass, innerClass := outer.Class(), inner.Class()
	if outerClass > innerClass {
		return false
	}
	if outerClass == innerClass && (outerClass == Atomic.Class() || outerClass == None.Class()) {
		return false
	}
	for _, pair := range Overrides {
		if pair.Outer == outer && pair.Inner == inner {
			return false
		}
	}
	return true
}

// Wrap parenthesizes code when NeedsParens says so. Empty code stays empty.
func Wrap(code string, outer, inner Order) string {
	if code == "" || !NeedsParens(outer, inner) {
		return code
	}
	return "(" + code + ")"
}

// Binary returns the level of an infix operator, None when unknown.
func Binary(op string) Order {
	switch op {
	case "*":
		return Multiplication
	case "/":
		return Division
	case "%":
		return Modulus
	case "+":
		return Addition
	case "-":
		return Subtraction
	case "<<", ">>":
		return BitwiseShift
	case "<", "<=", ">", ">=":
		return Relational
	case "==", "!=":
		return Equality
	case "&":
		return BitwiseAnd
	case "^":
		return BitwiseXor
	case "|":
		return BitwiseOr
	case "&&":
		return LogicalAnd
	case "||":
		return LogicalOr
	}
	return None
}

// Unary returns the level of a prefix operator.
func Unary(op string) Order {
	switch op {
	case "!":
		return LogicalNot
	case "-":
		return UnaryNegation
	case "+":
		return UnaryPlus
	case "^":
		return BitwiseNot
	}
	return UnaryNegation
}
