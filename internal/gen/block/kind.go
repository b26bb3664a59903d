package block

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a node carries a kind no backend can emit.
var ErrUnknownKind = errors.New("unknown block kind")

// Kind selects the emission rule of a node. It is a closed set: every
// backend implements one rule per kind.
type Kind string

const (
	KindLedgerInit     Kind = "chaincode_init"
	KindLedgerBody     Kind = "chaincode_body"
	KindLedgerInitBody Kind = "chaincode_init_body"
	KindLedgerInvoke   Kind = "chaincode_invoke"
	KindLedgerQuery    Kind = "chaincode_query"
	KindLedgerDelete   Kind = "chaincode_delete"
	KindSetValue       Kind = "set_value"

	KindControlsIf         Kind = "controls_if"
	KindControlsIfElse     Kind = "controls_ifelse"
	KindControlsRepeat     Kind = "controls_repeat"
	KindControlsRepeatExt  Kind = "controls_repeat_ext"
	KindControlsWhileUntil Kind = "controls_whileUntil"
	KindControlsFor        Kind = "controls_for"

	KindLogicCompare   Kind = "logic_compare"
	KindLogicBoolean   Kind = "logic_boolean"
	KindMathNumber     Kind = "math_number"
	KindMathArithmetic Kind = "math_arithmetic"
	KindText           Kind = "text"
	KindTextPrint      Kind = "text_print"
	KindVariablesGet   Kind = "variables_get"
	KindVariablesSet   Kind = "variables_set"
)

// Kinds lists every known kind in declaration order.
var Kinds = []Kind{
	KindLedgerInit,
	KindLedgerBody,
	KindLedgerInitBody,
	KindLedgerInvoke,
	KindLedgerQuery,
	KindLedgerDelete,
	KindSetValue,
	KindControlsIf,
	KindControlsIfElse,
	KindControlsRepeat,
	KindControlsRepeatExt,
	KindControlsWhileUntil,
	KindControlsFor,
	KindLogicCompare,
	KindLogicBoolean,
	KindMathNumber,
	KindMathArithmetic,
	KindText,
	KindTextPrint,
	KindVariablesGet,
	KindVariablesSet,
}

var valueKinds = map[Kind]bool{
	KindLogicCompare:   true,
	KindLogicBoolean:   true,
	KindMathNumber:     true,
	KindMathArithmetic: true,
	KindText:           true,
	KindVariablesGet:   true,
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsValue reports whether nodes of this kind produce an expression.
func (k Kind) IsValue() bool {
	return valueKinds[k]
}

// IsProcedure reports whether the kind emits a whole procedure. Comments on
// procedures are rendered as block comments.
func (k Kind) IsProcedure() bool {
	switch k {
	case KindLedgerInit, KindLedgerBody, KindLedgerInitBody,
		KindLedgerInvoke, KindLedgerQuery, KindLedgerDelete:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// UnmarshalText rejects kinds outside the closed set.
func (k *Kind) UnmarshalText(text []byte) error {
	kind := Kind(text)
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(text))
	}
	*k = kind
	return nil
}
