package analysis

import (
	"errors"
	"fmt"

	z3 "github.com/vhavlena/z3-go/z3"

	"starscript/internal/scripting/ast"
	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

// ErrNotEncodable reports that an expression contained a node kind the
// encoder cannot model. The result binding is tainted instead of
// constrained, so queries against it degrade to type information only.
var ErrNotEncodable = errors.New("expression not encodable")

// encode recursively translates an expression into solver constraints,
// returning the binding that stands for the expression's value. Errors
// from subexpressions do not stop the surrounding encoding: taint
// propagation keeps the partial model sound, and the first error is
// reported so the caller knows precision was lost.
func (m *Model) encode(n *ast.Node) (*Binding, error) {
	switch n.Kind {
	case ast.ConstantNumber:
		b := m.newBinding("")
		m.AssertValue(b, value.NewNumber(n.Num))
		return b, nil

	case ast.ConstantString:
		b := m.newBinding("")
		m.AssertValue(b, value.NewString(n.Str))
		return b, nil

	case ast.Variable:
		return m.GetOrCreate(n.Name), nil

	case ast.Add:
		return m.encodeAdd(n)

	case ast.Multiply, ast.Divide:
		return m.encodeMulDiv(n)

	case ast.EqualTo, ast.NotEqualTo:
		return m.encodeEquality(n)

	case ast.And, ast.Or:
		return m.encodeLogical(n)

	default:
		b := m.newBinding("")
		m.solver.Assert(z3.Eq(b.taint, m.ctx.BoolVal(true)))
		return b, fmt.Errorf("%w: %s", ErrNotEncodable, n.Kind)
	}
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

// encodeAdd models +. The result is a Number only for Number+Number;
// any string operand makes it a String. The value channels are only
// pinned for same-type untainted operands: a mixed addition would need
// the solver to stringify the numeric side, which the theory cannot do,
// so mixing sets the taint bit instead.
func (m *Model) encodeAdd(n *ast.Node) (*Binding, error) {
	l, lerr := m.encode(n.Left)
	r, rerr := m.encode(n.Right)
	t := m.newBinding("")

	bothNum := z3.And(m.isNum(l), m.isNum(r))
	bothStr := z3.And(m.isStr(l), m.isStr(r))
	mixed := z3.Eq(l.typ, r.typ).Not()
	clean := z3.And(l.taint.Not(), r.taint.Not())

	m.solver.Assert(z3.Eq(t.typ, z3.Ite(bothNum, m.numType, m.strType)))
	m.solver.Assert(z3.Implies(z3.And(bothNum, clean),
		z3.Eq(t.num, z3.Add(l.num, r.num))))
	m.solver.Assert(z3.Implies(z3.And(bothStr, clean),
		z3.Eq(t.str, z3.Concat(l.str, r.str))))
	m.solver.Assert(z3.Eq(t.taint, z3.Or(l.taint, r.taint, mixed)))

	return t, firstErr(lerr, rerr)
}

// encodeMulDiv models * and /. The result type is forced to Number;
// operands that are not both Numbers taint the result. Division is
// encoded through an explicit quotient/remainder pair, which also makes
// a zero divisor unsatisfiable rather than defined.
func (m *Model) encodeMulDiv(n *ast.Node) (*Binding, error) {
	l, lerr := m.encode(n.Left)
	r, rerr := m.encode(n.Right)
	t := m.newBinding("")

	bothNum := z3.And(m.isNum(l), m.isNum(r))
	clean := z3.And(l.taint.Not(), r.taint.Not())

	m.solver.Assert(z3.Eq(t.typ, m.numType))
	m.solver.Assert(z3.Eq(t.taint, z3.Or(l.taint, r.taint, bothNum.Not())))

	scale := m.ctx.IntVal(number.Scale)
	var numerator, denom z3.AST
	if n.Kind == ast.Multiply {
		numerator = z3.Mul(l.num, r.num)
		denom = scale
	} else {
		numerator = z3.Mul(l.num, scale)
		denom = r.num
	}
	m.assertTruncDiv(z3.And(bothNum, clean), t.num, numerator, denom)

	return t, firstErr(lerr, rerr)
}

// assertTruncDiv constrains q = numerator / denom with truncation
// toward zero, guarded by cond: the remainder is smaller than the
// divisor in magnitude and carries the numerator's sign. With a zero
// denominator no remainder satisfies |r| < |d|, so the guarded
// constraints are unsatisfiable, which is how symbolic division by
// zero surfaces.
func (m *Model) assertTruncDiv(cond, q, numerator, denom z3.AST) {
	r := m.freshInt()
	zero := m.ctx.IntVal(0)

	absR := z3.Ite(z3.Ge(r, zero), r, z3.Sub(zero, r))
	absD := z3.Ite(z3.Ge(denom, zero), denom, z3.Sub(zero, denom))

	m.solver.Assert(z3.Implies(cond, z3.And(
		z3.Eq(numerator, z3.Add(z3.Mul(q, denom), r)),
		z3.Lt(absR, absD),
		z3.Or(
			z3.Eq(r, zero),
			z3.Ite(z3.Ge(numerator, zero), z3.Gt(r, zero), z3.Lt(r, zero)),
		),
	)))
}

// encodeEquality models == and !=. The result is a Number that is
// always exactly 0 or 1000; the precise value is pinned only for
// same-type untainted operands. Mixed comparisons keep the 0-or-1000
// bound, which is still useful to downstream queries.
func (m *Model) encodeEquality(n *ast.Node) (*Binding, error) {
	l, lerr := m.encode(n.Left)
	r, rerr := m.encode(n.Right)
	t := m.newBinding("")

	zero := m.ctx.IntVal(0)
	one := m.ctx.IntVal(number.Scale)
	bothNum := z3.And(m.isNum(l), m.isNum(r))
	bothStr := z3.And(m.isStr(l), m.isStr(r))
	clean := z3.And(l.taint.Not(), r.taint.Not())

	m.solver.Assert(z3.Eq(t.typ, m.numType))
	m.solver.Assert(z3.Or(z3.Eq(t.num, zero), z3.Eq(t.num, one)))

	whenTrue, whenFalse := one, zero
	if n.Kind == ast.NotEqualTo {
		whenTrue, whenFalse = zero, one
	}
	m.solver.Assert(z3.Implies(z3.And(bothNum, clean),
		z3.Eq(t.num, z3.Ite(z3.Eq(l.num, r.num), whenTrue, whenFalse))))
	m.solver.Assert(z3.Implies(z3.And(bothStr, clean),
		z3.Eq(t.num, z3.Ite(z3.Eq(l.str, r.str), whenTrue, whenFalse))))

	mixed := z3.Eq(l.typ, r.typ).Not()
	m.solver.Assert(z3.Eq(t.taint, z3.Or(l.taint, r.taint, mixed)))

	return t, firstErr(lerr, rerr)
}

// encodeLogical models and/or over truthiness: a string operand is true
// by type alone, a Number is true iff its num channel is nonzero. The
// num channel of a tainted numeric operand is unreliable, so the
// connective is only pinned when every numeric operand is untainted;
// a tainted string operand still counts as true.
func (m *Model) encodeLogical(n *ast.Node) (*Binding, error) {
	l, lerr := m.encode(n.Left)
	r, rerr := m.encode(n.Right)
	t := m.newBinding("")

	zero := m.ctx.IntVal(0)
	one := m.ctx.IntVal(number.Scale)

	lTrue := z3.Or(m.isStr(l), z3.Eq(l.num, zero).Not())
	rTrue := z3.Or(m.isStr(r), z3.Eq(r.num, zero).Not())
	var conn z3.AST
	if n.Kind == ast.And {
		conn = z3.And(lTrue, rTrue)
	} else {
		conn = z3.Or(lTrue, rTrue)
	}

	// A numeric operand's truth value is only trustworthy untainted.
	lReliable := z3.Or(m.isStr(l), l.taint.Not())
	rReliable := z3.Or(m.isStr(r), r.taint.Not())
	reliable := z3.And(lReliable, rReliable)

	m.solver.Assert(z3.Eq(t.typ, m.numType))
	m.solver.Assert(z3.Or(z3.Eq(t.num, zero), z3.Eq(t.num, one)))
	m.solver.Assert(z3.Implies(reliable, z3.Eq(t.num, z3.Ite(conn, one, zero))))
	m.solver.Assert(z3.Eq(t.taint, reliable.Not()))

	return t, firstErr(lerr, rerr)
}
