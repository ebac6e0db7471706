// Package analysis encodes program variables and expressions into an
// SMT solver so the host can ask questions such as "can X ever be 42",
// "must X be a string here", or "are these expressions equivalent".
//
// Each Number becomes a scaled integer in the solver, each String a
// character sequence, and each program value a tagged pair. A taint bit
// records when a computation became intractable (for example a mixed
// string/number concatenation, whose exact result the theory cannot
// produce); a tainted binding keeps its type constraint but gives up
// its value, which keeps partial information sound.
package analysis

import (
	"fmt"
	"strconv"

	z3 "github.com/vhavlena/z3-go/z3"

	"starscript/internal/scripting/ast"
	"starscript/internal/scripting/machine"
	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

// DefaultTimeoutMS bounds each satisfiability query when Options does
// not say otherwise. An expired query reports Unknown.
const DefaultTimeoutMS = 10_000

// Options configures a Model at construction.
type Options struct {
	// TimeoutMS is the per-query solver timeout in milliseconds.
	// Zero means DefaultTimeoutMS.
	TimeoutMS int
}

// Binding is the solver-side image of one program value: a type tag
// constrained to {NumType, StrType}, an integer channel for the scaled
// numeric value, a sequence channel for the string value, and the taint
// bit. Bindings live in the model's arena and are referenced by index.
type Binding struct {
	index int
	name  string // empty for anonymous subexpression bindings

	typ   z3.AST
	num   z3.AST
	str   z3.AST
	taint z3.AST
}

// Index returns the binding's arena index.
func (b *Binding) Index() int {
	return b.index
}

// Name returns the variable name, or "" for subexpression bindings.
func (b *Binding) Name() string {
	return b.name
}

// Model owns one solver context and the bindings asserted into it. A
// model is built and queried by a single goroutine; independent models
// may run in parallel.
type Model struct {
	cfg    *z3.Config
	ctx    *z3.Context
	solver *z3.Solver

	typeSort z3.Sort
	numType  z3.AST
	strType  z3.AST

	arena  []*Binding
	byName map[string]int
	aux    int
}

// NewModel builds an empty model. Close must be called to release the
// solver resources.
func NewModel(opts Options) *Model {
	timeout := opts.TimeoutMS
	if timeout <= 0 {
		timeout = DefaultTimeoutMS
	}

	cfg := z3.NewConfig()
	cfg.SetParam("timeout", strconv.Itoa(timeout))
	ctx := z3.NewContext(cfg)

	numCtor := ctx.MkConstructor("NumType", "is-num", nil)
	strCtor := ctx.MkConstructor("StrType", "is-str", nil)
	typeSort, decls := ctx.MkDatatype("ValType", []*z3.Constructor{numCtor, strCtor})

	return &Model{
		cfg:      cfg,
		ctx:      ctx,
		solver:   ctx.NewSolver(),
		typeSort: typeSort,
		numType:  ctx.App(decls[0].Constructor),
		strType:  ctx.App(decls[1].Constructor),
		byName:   make(map[string]int),
	}
}

// Close releases the solver, context and config. Safe to call more
// than once.
func (m *Model) Close() {
	if m.solver != nil {
		m.solver.Close()
		m.solver = nil
	}
	if m.ctx != nil {
		m.ctx.Close()
		m.ctx = nil
	}
	if m.cfg != nil {
		m.cfg.Close()
		m.cfg = nil
	}
}

// GetOrCreate returns the binding for a program variable, creating an
// unconstrained one on first use. Names are case-insensitive.
func (m *Model) GetOrCreate(name string) *Binding {
	key := machine.Normalize(name)
	if i, ok := m.byName[key]; ok {
		return m.arena[i]
	}
	b := m.newBinding(key)
	m.byName[key] = b.index
	return b
}

// Binding returns an arena entry by index.
func (m *Model) Binding(index int) *Binding {
	return m.arena[index]
}

// newBinding allocates a binding with fresh solver constants. Anonymous
// bindings (name "") take their constant names from the arena index.
func (m *Model) newBinding(name string) *Binding {
	idx := len(m.arena)
	prefix := name
	if prefix == "" {
		prefix = fmt.Sprintf("e%d", idx)
	}
	b := &Binding{
		index: idx,
		name:  name,
		typ:   m.ctx.Const(prefix+"!type", m.typeSort),
		num:   m.ctx.Const(prefix+"!num", m.ctx.IntSort()),
		str:   m.ctx.Const(prefix+"!str", m.ctx.StringSort()),
		taint: m.ctx.Const(prefix+"!taint", m.ctx.BoolSort()),
	}
	m.arena = append(m.arena, b)
	return b
}

// freshInt allocates an anonymous integer constant, used for the
// quotient/remainder encoding of truncating division.
func (m *Model) freshInt() z3.AST {
	name := fmt.Sprintf("aux%d", m.aux)
	m.aux++
	return m.ctx.Const(name, m.ctx.IntSort())
}

func (m *Model) isNum(b *Binding) z3.AST {
	return z3.Eq(b.typ, m.numType)
}

func (m *Model) isStr(b *Binding) z3.AST {
	return z3.Eq(b.typ, m.strType)
}

// valueEq builds the formula "binding equals this concrete value":
// type tag plus the matching channel.
func (m *Model) valueEq(b *Binding, v value.Value) z3.AST {
	if v.IsNumber() {
		return z3.And(m.isNum(b), z3.Eq(b.num, m.ctx.IntVal(v.Number().Raw())))
	}
	return z3.And(m.isStr(b), z3.Eq(b.str, m.ctx.StringVal(v.Str())))
}

// AssertValue binds a concrete value: type, the matching channel, and
// taint = false.
func (m *Model) AssertValue(b *Binding, v value.Value) {
	m.solver.Assert(m.valueEq(b, v))
	m.solver.Assert(z3.Eq(b.taint, m.ctx.BoolVal(false)))
}

// AssertAlias asserts two bindings equal on every channel.
func (m *Model) AssertAlias(a, b *Binding) {
	m.solver.Assert(z3.And(
		z3.Eq(a.typ, b.typ),
		z3.Eq(a.num, b.num),
		z3.Eq(a.str, b.str),
		z3.Eq(a.taint, b.taint),
	))
}

// AssertExpr constrains a binding to the value of an expression. When
// the tree contains a node kind the encoder cannot model, the affected
// subresults are tainted and ErrNotEncodable is returned; the
// assertion is still made and remains sound.
func (m *Model) AssertExpr(b *Binding, n *ast.Node) error {
	t, err := m.encode(n)
	m.AssertAlias(b, t)
	return err
}

// zero raw value used as the default read of unassigned variables.
var zeroValue = value.NewNumber(number.Zero)

// AssertUnassigned constrains a binding to the language default for a
// variable that no statement writes: the Number 0.
func (m *Model) AssertUnassigned(b *Binding) {
	m.AssertValue(b, zeroValue)
}
