package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"sort"

	"blockgen/internal/gen/block"
	"blockgen/internal/gen/order"

	"github.com/google/uuid"
)

var (
	// ErrUnknownBackend is returned when no backend is registered under a name
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrCyclicGraph is returned when a node is reached again while it is
	// still being emitted
	ErrCyclicGraph = errors.New("cyclic block graph")

	// ErrSlotMismatch is returned when a statement node sits in a value slot
	// or the other way round
	ErrSlotMismatch = errors.New("block does not fit its slot")
)

// Rules emits one construct per block kind. Statement rules return
// newline-terminated text; expression rules return the text and the
// precedence level of its outermost operator.
type Rules interface {
	LedgerInit(p *Pass, n *block.Node) string
	LedgerBody(p *Pass, n *block.Node) string
	LedgerInitBody(p *Pass, n *block.Node) string
	LedgerInvoke(p *Pass, n *block.Node) string
	LedgerQuery(p *Pass, n *block.Node) string
	LedgerDelete(p *Pass, n *block.Node) string
	SetValue(p *Pass, n *block.Node) string

	ControlsIf(p *Pass, n *block.Node) string
	ControlsRepeat(p *Pass, n *block.Node) string
	ControlsWhileUntil(p *Pass, n *block.Node) string
	ControlsFor(p *Pass, n *block.Node) string
	TextPrint(p *Pass, n *block.Node) string
	VariablesSet(p *Pass, n *block.Node) string

	LogicCompare(p *Pass, n *block.Node) (string, order.Order)
	LogicBoolean(p *Pass, n *block.Node) (string, order.Order)
	MathNumber(p *Pass, n *block.Node) (string, order.Order)
	MathArithmetic(p *Pass, n *block.Node) (string, order.Order)
	Text(p *Pass, n *block.Node) (string, order.Order)
	VariablesGet(p *Pass, n *block.Node) (string, order.Order)
}

// Neutral names the default literal substituted for an empty value slot
type Neutral int

const (
	NeutralNumber Neutral = iota
	NeutralBool
	NeutralText
)

// Backend is a target output format: its rules plus the program assembler
type Backend interface {
	Rules

	// Name is the registry key of the backend
	Name() string

	// Indent is prefixed to every line of a nested statement slot
	Indent() string

	// ReservedWords are never issued by the name resolver
	ReservedWords() []string

	// Neutral returns the literal used for an empty value slot
	Neutral(kind Neutral) string

	// Init registers the fixed imports and definitions of a pass
	Init(p *Pass)

	// Finish wraps the body with the backend preamble
	Finish(p *Pass, body string) string

	// ScrubNakedValue turns a top-level expression into a statement line
	ScrubNakedValue(line string) string

	// LoopTrap returns the unindented iteration guard for a loop body
	LoopTrap(p *Pass, id string) string
}

// Options tune a pass
type Options struct {
	CommentWrap   int  `json:"commentWrap"`
	LoopTrap      bool `json:"loopTrap"`
	LoopTrapLimit int  `json:"loopTrapLimit"`
	Format        bool `json:"format"`

	// OneBasedIndex is read by GetAdjusted only. No block kind handled
	// today takes a list position, so it does not change the output yet.
	OneBasedIndex bool `json:"oneBasedIndex"`
}

// DefaultOptions returns the editor defaults
func DefaultOptions() Options {
	return Options{
		CommentWrap:   60,
		LoopTrapLimit: 1000000,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.CommentWrap <= 0 {
		o.CommentWrap = def.CommentWrap
	}
	if o.LoopTrapLimit <= 0 {
		o.LoopTrapLimit = def.LoopTrapLimit
	}
	return o
}

// Result is the artifact of one pass
type Result struct {
	PassID      string       `json:"id"`
	Backend     string       `json:"backend"`
	Code        string       `json:"code"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Registry holds all registered backends
type Registry struct {
	backends map[string]Backend
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register registers a backend under its name
func (r *Registry) Register(b Backend) {
	r.backends[b.Name()] = b
}

// Get returns the backend registered under name
func (r *Registry) Get(name string) (Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Names returns the registered backend names in lexical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the default backend registry
var DefaultRegistry = NewRegistry()

// RegisterBackend registers a backend with the default registry
func RegisterBackend(b Backend) {
	DefaultRegistry.Register(b)
}

// init registers the built-in backends
func init() {
	RegisterBackend(&ChaincodeBackend{})
	RegisterBackend(&NaturalBackend{})
}

// Generator runs passes of one backend. Backends are stateless, so a
// Generator may be shared between goroutines.
type Generator struct {
	backend Backend
	opts    Options
}

// NewGenerator looks up a backend in the default registry
func NewGenerator(backend string, opts Options) (*Generator, error) {
	b, ok := DefaultRegistry.Get(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	return &Generator{backend: b, opts: opts.withDefaults()}, nil
}

// Backend returns the backend name
func (g *Generator) Backend() string {
	return g.backend.Name()
}

// Generate validates the graph and emits it in a fresh pass
func (g *Generator) Generate(graph *block.Graph) (*Result, error) {
	diags := Validate(graph)

	p := newPass(g.backend, g.opts)
	code, err := p.run(graph)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", g.backend.Name(), err)
	}

	if g.opts.Format && g.backend.Name() == BackendGo {
		formatted, err := formatSource(code)
		if err != nil {
			diags = append(diags, Diagnostic{
				Code:     CodeFormatFailed,
				Severity: SeverityWarning,
				Message:  err.Error(),
			})
		} else {
			code = formatted
		}
	}

	return &Result{
		PassID:      uuid.NewString(),
		Backend:     g.backend.Name(),
		Code:        code,
		Diagnostics: append(diags, p.diagnostics...),
	}, nil
}

// formatSource runs gofmt over the emitted text. The raw text is kept by
// the caller when it does not parse.
func formatSource(code string) (string, error) {
	formatted, err := format.Source([]byte(code))
	if err != nil {
		return "", fmt.Errorf("failed to format: %w (raw output kept)", err)
	}
	return string(bytes.TrimLeft(formatted, "\n")), nil
}
