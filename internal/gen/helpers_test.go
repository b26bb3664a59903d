package gen

import (
	"testing"

	"blockgen/internal/gen/block"

	"github.com/stretchr/testify/require"
)

func num(v string) *block.Node {
	return &block.Node{ID: "num-" + v, Kind: block.KindMathNumber, Fields: map[string]any{FieldNum: v}}
}

func text(v string) *block.Node {
	return &block.Node{ID: "text-" + v, Kind: block.KindText, Fields: map[string]any{FieldText: v}}
}

func get(name string) *block.Node {
	return &block.Node{ID: "get-" + name, Kind: block.KindVariablesGet, Fields: map[string]any{FieldVar: name}}
}

func boolean(v bool) *block.Node {
	return &block.Node{Kind: block.KindLogicBoolean, Fields: map[string]any{FieldBool: v}}
}

func arith(op string, a, b *block.Node) *block.Node {
	return &block.Node{
		Kind:   block.KindMathArithmetic,
		Fields: map[string]any{FieldOp: op},
		Values: map[string]*block.Node{SlotA: a, SlotB: b},
	}
}

func compare(op string, a, b *block.Node) *block.Node {
	return &block.Node{
		Kind:   block.KindLogicCompare,
		Fields: map[string]any{FieldOp: op},
		Values: map[string]*block.Node{SlotA: a, SlotB: b},
	}
}

func printText(msg string) *block.Node {
	return &block.Node{
		ID:     "print-" + msg,
		Kind:   block.KindTextPrint,
		Values: map[string]*block.Node{SlotText: text(msg)},
	}
}

func invoke(a, b, amount *block.Node) *block.Node {
	return &block.Node{
		ID:     "invoke",
		Kind:   block.KindLedgerInvoke,
		Fields: map[string]any{FieldInvokeSecurity: false},
		Values: map[string]*block.Node{SlotAccountA: a, SlotAccountB: b, SlotAmount: amount},
	}
}

func query(account string, secure bool) *block.Node {
	return &block.Node{
		ID:     "query",
		Kind:   block.KindLedgerQuery,
		Fields: map[string]any{FieldQuerySecurity: secure},
		Values: map[string]*block.Node{SlotQueryAccount: text(account)},
	}
}

func forLoop(from, to, by *block.Node) *block.Node {
	return &block.Node{
		ID:     "for",
		Kind:   block.KindControlsFor,
		Fields: map[string]any{FieldVar: "i"},
		Values: map[string]*block.Node{SlotFrom: from, SlotTo: to, SlotBy: by},
	}
}

// chain links nodes through Next and returns the first one
func chain(nodes ...*block.Node) *block.Node {
	for i := 1; i < len(nodes); i++ {
		nodes[i-1].Next = nodes[i]
	}
	return nodes[0]
}

func graph(blocks ...*block.Node) *block.Graph {
	return &block.Graph{Blocks: blocks}
}

func generate(t *testing.T, backend string, opts Options, blocks ...*block.Node) *Result {
	t.Helper()
	g, err := NewGenerator(backend, opts)
	require.NoError(t, err)
	result, err := g.Generate(graph(blocks...))
	require.NoError(t, err)
	return result
}

const goHeader = `package main

import (
	"fmt"
	"github.com/hyperledger/fabric/core/chaincode/shim"
	pb "github.com/hyperledger/fabric/protos/peer"
	"strconv"
)

type SimpleChaincode struct{}
`
