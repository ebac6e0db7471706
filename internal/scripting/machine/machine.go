// Package machine holds the variable state a running script reads and
// writes. Names are case-insensitive ASCII identifiers in two
// namespaces: locals, and globals prefixed with ':'. The prefix is an
// opaque part of the name to the engines; this package only uses it to
// decide which variables persist.
package machine

import (
	"fmt"
	"sort"
	"strings"

	"starscript/internal/log"
	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

// GlobalPrefix marks the global namespace.
const GlobalPrefix = ":"

// Normalize folds a variable name to its canonical lower-case form.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// IsGlobal reports whether a name lives in the global namespace.
func IsGlobal(name string) bool {
	return strings.HasPrefix(name, GlobalPrefix)
}

// Store persists global variables between sessions. The database
// package provides the SQLite implementation.
type Store interface {
	SaveVariable(name string, v value.Value) error
	LoadAll() (map[string]value.Value, error)
}

// State maps variable names to values. Unassigned names read as the
// Number 0.
type State struct {
	vars  map[string]value.Value
	store Store
}

// New creates an empty state.
func New() *State {
	return &State{vars: make(map[string]value.Value)}
}

// NewWithStore creates a state whose globals load from and persist to
// the given store.
func NewWithStore(store Store) (*State, error) {
	s := &State{vars: make(map[string]value.Value), store: store}
	if store != nil {
		globals, err := store.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to load global variables: %w", err)
		}
		for name, v := range globals {
			s.vars[Normalize(name)] = v
		}
	}
	return s, nil
}

// Get returns the value of a variable, or the Number 0 if it has never
// been assigned.
func (s *State) Get(name string) value.Value {
	if v, ok := s.vars[Normalize(name)]; ok {
		return v
	}
	return value.NewNumber(number.Zero)
}

// Set assigns a variable. Globals are written through to the store when
// one is attached; a store failure is logged, not raised, because the
// in-memory assignment has already happened.
func (s *State) Set(name string, v value.Value) {
	key := Normalize(name)
	s.vars[key] = v
	if s.store != nil && IsGlobal(key) {
		if err := s.store.SaveVariable(key, v); err != nil {
			log.Error("failed to persist global variable", "name", key, "error", err)
		}
	}
}

// Exists reports whether a variable has been assigned.
func (s *State) Exists(name string) bool {
	_, ok := s.vars[Normalize(name)]
	return ok
}

// Delete removes a variable.
func (s *State) Delete(name string) {
	delete(s.vars, Normalize(name))
}

// Names returns all assigned names in sorted order.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Globals returns a copy of the global namespace.
func (s *State) Globals() map[string]value.Value {
	globals := make(map[string]value.Value)
	for name, v := range s.vars {
		if IsGlobal(name) {
			globals[name] = v
		}
	}
	return globals
}

// Clone creates an independent copy of the state. The clone shares no
// map with the original and carries no store.
func (s *State) Clone() *State {
	clone := New()
	for name, v := range s.vars {
		clone.vars[name] = v
	}
	return clone
}

// Count returns the number of assigned variables.
func (s *State) Count() int {
	return len(s.vars)
}
