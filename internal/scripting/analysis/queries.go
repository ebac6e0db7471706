package analysis

import (
	z3 "github.com/vhavlena/z3-go/z3"

	"starscript/internal/log"
	"starscript/internal/scripting/value"
)

// Answer is the three-valued result of a query. Yes and No are
// definitive and hold for every concrete execution; Unknown covers
// solver timeouts and incompleteness.
type Answer int

const (
	No Answer = iota
	Yes
	Unknown
)

func (a Answer) String() string {
	switch a {
	case No:
		return "no"
	case Yes:
		return "yes"
	default:
		return "unknown"
	}
}

// checkWith runs one satisfiability check with an extra assumption,
// inside a solver frame so the logical assertion set is unchanged
// afterwards.
func (m *Model) checkWith(assumption z3.AST) Answer {
	m.solver.Push()
	defer m.solver.Pop(1)
	m.solver.Assert(assumption)

	res, err := m.solver.Check()
	if err != nil {
		log.Warn("solver check did not complete", "error", err)
		return Unknown
	}
	switch res {
	case z3.Sat:
		return Yes
	case z3.Unsat:
		return No
	default:
		return Unknown
	}
}

// IsValueAvailable reports whether the binding can hold an exactly
// computed value, i.e. whether taint = false is satisfiable.
func (m *Model) IsValueAvailable(b *Binding) Answer {
	return m.checkWith(b.taint.Not())
}

// CanBeValue reports whether the binding can equal the concrete value.
func (m *Model) CanBeValue(b *Binding, v value.Value) Answer {
	return m.checkWith(m.valueEq(b, v))
}

// IsValue reports whether the binding must equal the concrete value in
// every satisfying assignment: it can equal v, and it cannot differ
// from v.
func (m *Model) IsValue(b *Binding, v value.Value) Answer {
	can := m.checkWith(m.valueEq(b, v))
	if can != Yes {
		return can
	}
	switch m.checkWith(m.valueEq(b, v).Not()) {
	case No:
		return Yes
	case Yes:
		return No
	default:
		return Unknown
	}
}

// CanBeString reports whether the binding's type can be String.
func (m *Model) CanBeString(b *Binding) Answer {
	return m.checkWith(m.isStr(b))
}

// CanBeNumber reports whether the binding's type can be Number.
func (m *Model) CanBeNumber(b *Binding) Answer {
	return m.checkWith(m.isNum(b))
}

// MustBeString reports whether the binding's type is String in every
// satisfying assignment.
func (m *Model) MustBeString(b *Binding) Answer {
	return invert(m.checkWith(m.isNum(b)))
}

// MustBeNumber reports whether the binding's type is Number in every
// satisfying assignment.
func (m *Model) MustBeNumber(b *Binding) Answer {
	return invert(m.checkWith(m.isStr(b)))
}

func invert(a Answer) Answer {
	switch a {
	case Yes:
		return No
	case No:
		return Yes
	default:
		return Unknown
	}
}
