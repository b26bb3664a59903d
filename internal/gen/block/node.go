package block

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Node is one block of the graph. A key present in Values or Statements with
// a nil node is a slot that exists but has nothing plugged in.
type Node struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	Fields     map[string]any   `json:"fields,omitempty"`
	Values     map[string]*Node `json:"values,omitempty"`
	Statements map[string]*Node `json:"statements,omitempty"`
	Next       *Node            `json:"next,omitempty"`
	Comment    string           `json:"comment,omitempty"`
}

// Graph holds the top-level blocks of a workspace in declared order.
// Next chains and statement inputs must not contain cycles.
type Graph struct {
	Blocks []*Node `json:"blocks"`
}

// Parse decodes a graph from its JSON wire format.
func Parse(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return &g, nil
}

// ParseBytes decodes a graph from a JSON document.
func ParseBytes(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return &g, nil
}

// HasField reports whether the node carries the named field.
func (n *Node) HasField(name string) bool {
	_, ok := n.Fields[name]
	return ok
}

// FieldString returns a field as text. Numbers are rendered without a
// trailing fraction when integral.
func (n *Node) FieldString(name string) string {
	switch v := n.Fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// FieldBool reads a checkbox field. Both JSON booleans and the editor's
// "TRUE"/"FALSE" strings are accepted.
func (n *Node) FieldBool(name string) bool {
	switch v := n.Fields[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "TRUE")
	}
	return false
}

// HasInput reports whether a value or statement slot with this name exists,
// connected or not.
func (n *Node) HasInput(name string) bool {
	if _, ok := n.Values[name]; ok {
		return true
	}
	_, ok := n.Statements[name]
	return ok
}

// Value returns the node plugged into a value slot, or nil.
func (n *Node) Value(name string) *Node {
	return n.Values[name]
}

// Statement returns the first node of a statement slot, or nil.
func (n *Node) Statement(name string) *Node {
	return n.Statements[name]
}

// Walk visits n, its value children, statement children and next chain
// depth-first in slot-name order. Returning false from fn stops descending
// into that node. Each node is visited at most once, so a malformed cyclic
// graph does not hang the walk.
func Walk(n *Node, fn func(*Node) bool) {
	walk(n, fn, make(map[*Node]bool))
}

func walk(n *Node, fn func(*Node) bool, seen map[*Node]bool) {
	for ; n != nil && !seen[n]; n = n.Next {
		seen[n] = true
		if !fn(n) {
			continue
		}
		for _, name := range sortedKeys(n.Values) {
			walk(n.Values[name], fn, seen)
		}
		for _, name := range sortedKeys(n.Statements) {
			walk(n.Statements[name], fn, seen)
		}
	}
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
