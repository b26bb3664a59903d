package gen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blockgen/internal/gen/block"

	"github.com/go-playground/validator/v10"
)

// Severity of a diagnostic. Alerts block the user in the editor but never
// stop generation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

const (
	CodeNegativeAmount        = "negative_amount"
	CodeAmountTooLarge        = "amount_too_large"
	CodeSecurityToggleIgnored = "security_toggle_ignored"
	CodeFormatFailed          = "format_failed"
)

// Diagnostic is a finding about the graph or the emitted text
type Diagnostic struct {
	NodeID   string   `json:"nodeId,omitempty"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Blocking reports whether the editor must show the diagnostic as an alert
func (d Diagnostic) Blocking() bool {
	return d.Severity == SeverityAlert
}

func (d Diagnostic) String() string {
	prefix := strings.ToUpper(string(d.Severity))
	if d.NodeID != "" {
		return fmt.Sprintf("%s [%s] block %s: %s", prefix, d.Code, d.NodeID, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", prefix, d.Code, d.Message)
}

// amountCheck bounds a literal transfer amount: nine characters at most,
// which keeps a single transfer under one billion.
type amountCheck struct {
	Text  string  `validate:"max=9"`
	Value float64 `validate:"gte=0"`
}

var amountValidator = validator.New()

// Validate walks the graph before emission and reports what the user
// should fix. It never fails and never changes what is emitted.
func Validate(graph *block.Graph) []Diagnostic {
	diags := make([]Diagnostic, 0)
	for _, top := range graph.Blocks {
		block.Walk(top, func(n *block.Node) bool {
			switch n.Kind {
			case block.KindLedgerInvoke:
				diags = append(diags, checkAmount(n)...)
				if n.FieldBool(FieldInvokeSecurity) {
					diags = append(diags, toggleIgnored(n, "transfer"))
				}
			case block.KindLedgerDelete:
				if n.FieldBool(FieldDeleteSecurity) {
					diags = append(diags, toggleIgnored(n, "delete"))
				}
			}
			return true
		})
	}
	return diags
}

// checkAmount looks at the amount slot when it holds a literal. Negative
// amounts take precedence over the length bound.
func checkAmount(n *block.Node) []Diagnostic {
	text, ok := literalText(n.Value(SlotAmount))
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)

	// The sign is read from the text so that -0 counts as negative.
	check := amountCheck{Text: text}
	if strings.HasPrefix(text, "-") {
		check.Value = -1
	} else if v, err := strconv.ParseFloat(text, 64); err == nil {
		check.Value = v
	}

	err := amountValidator.Struct(check)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	var negative, tooLarge bool
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Value":
			negative = true
		case "Text":
			tooLarge = true
		}
	}
	switch {
	case negative:
		return []Diagnostic{{
			NodeID:   n.ID,
			Code:     CodeNegativeAmount,
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("transfer amount %s must not be negative", text),
		}}
	case tooLarge:
		return []Diagnostic{{
			NodeID:   n.ID,
			Code:     CodeAmountTooLarge,
			Severity: SeverityAlert,
			Message:  fmt.Sprintf("transfer amount %s exceeds the single transfer limit of one billion", text),
		}}
	}
	return nil
}

func toggleIgnored(n *block.Node, operation string) Diagnostic {
	return Diagnostic{
		NodeID:   n.ID,
		Code:     CodeSecurityToggleIgnored,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("security check on %s is recorded but does not change the generated code", operation),
	}
}

func unknownOperator(n *block.Node) Diagnostic {
	return Diagnostic{
		NodeID:   n.ID,
		Code:     CodeUnknownOperator,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("unknown operator %q, emitted the first operator of the block instead", n.FieldString(FieldOp)),
	}
}

// literalText returns the source text of a number or text literal.
func literalText(n *block.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case block.KindMathNumber:
		return n.FieldString(FieldNum), true
	case block.KindText:
		return n.FieldString(FieldText), true
	}
	return "", false
}
