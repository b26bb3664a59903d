// Package names maps user-chosen identifiers to collision-free identifiers
// of a target language for the duration of one generation pass.
package names

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind separates identifier namespaces.
type Kind string

const (
	Variable  Kind = "VARIABLE"
	Procedure Kind = "PROCEDURE"
)

// Resolver is not safe for concurrent use; each pass owns its own.
type Resolver struct {
	reserved map[string]bool
	db       map[string]string // raw name + kind -> issued name
	issued   map[string]bool
}

// New creates a resolver that never issues any of the reserved words.
func New(reserved ...string) *Resolver {
	r := &Resolver{}
	r.SetReserved(reserved...)
	r.Reset()
	return r
}

// SetReserved replaces the reserved word set.
func (r *Resolver) SetReserved(words ...string) {
	r.reserved = make(map[string]bool, len(words))
	for _, w := range words {
		r.reserved[w] = true
	}
}

// Reset forgets every issued name. Reserved words are kept.
func (r *Resolver) Reset() {
	r.db = make(map[string]string)
	r.issued = make(map[string]bool)
}

// GetName returns the identifier for a raw name. The first call for a given
// (name, kind) allocates it; later calls return the same identifier.
// Lookups are case-insensitive on the raw name.
func (r *Resolver) GetName(name string, kind Kind) string {
	key := strings.ToLower(name) + "_" + string(kind)
	if issued, ok := r.db[key]; ok {
		return issued
	}
	safe := r.allocate(SafeName(name))
	r.db[key] = safe
	return safe
}

// GetDistinctName returns an identifier derived from seed that was never
// returned before in this pass.
func (r *Resolver) GetDistinctName(seed string, kind Kind) string {
	return r.allocate(SafeName(seed))
}

// IsReserved reports whether word is in the reserved set.
func (r *Resolver) IsReserved(word string) bool {
	return r.reserved[word]
}

func (r *Resolver) allocate(safe string) string {
	candidate := safe
	for i := 2; r.issued[candidate] || r.reserved[candidate]; i++ {
		candidate = safe + strconv.Itoa(i)
	}
	r.issued[candidate] = true
	return candidate
}

// SafeName turns arbitrary text into a legal identifier: spaces and other
// non-word characters become underscores and a leading digit is prefixed.
func SafeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	safe := b.String()
	if safe[0] >= '0' && safe[0] <= '9' {
		safe = "my_" + safe
	}
	return safe
}
