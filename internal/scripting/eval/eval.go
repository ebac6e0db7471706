// Package eval walks an expression tree against a machine state,
// producing concrete values with the operator semantics of the value
// package. The scheduler owning the program lines calls into this
// package one statement at a time.
package eval

import (
	"fmt"

	"starscript/internal/scripting/ast"
	"starscript/internal/scripting/value"
)

// State is the variable store an evaluation reads and writes. Reads of
// unassigned names yield the Number 0, the language default.
type State interface {
	Get(name string) value.Value
	Set(name string, v value.Value)
}

var binaryOps = map[ast.Kind]value.Op{
	ast.Add:           value.OpAdd,
	ast.Subtract:      value.OpSubtract,
	ast.Multiply:      value.OpMultiply,
	ast.Divide:        value.OpDivide,
	ast.Modulo:        value.OpModulo,
	ast.Exponent:      value.OpExponent,
	ast.EqualTo:       value.OpEqualTo,
	ast.NotEqualTo:    value.OpNotEqualTo,
	ast.LessThan:      value.OpLessThan,
	ast.GreaterThan:   value.OpGreaterThan,
	ast.LessThanEq:    value.OpLessThanEq,
	ast.GreaterThanEq: value.OpGreaterThanEq,
	ast.And:           value.OpAnd,
	ast.Or:            value.OpOr,
}

var unaryOps = map[ast.Kind]value.UnaryOp{
	ast.Not:       value.OpNot,
	ast.Negate:    value.OpNegate,
	ast.Abs:       value.OpAbs,
	ast.Sqrt:      value.OpSqrt,
	ast.Sin:       value.OpSin,
	ast.Cos:       value.OpCos,
	ast.Tan:       value.OpTan,
	ast.ArcSin:    value.OpArcSin,
	ast.ArcCos:    value.OpArcCos,
	ast.ArcTan:    value.OpArcTan,
	ast.Factorial: value.OpFactorial,
}

// Evaluate computes the value of an expression. Errors are either
// *value.RuntimeError or *value.StaticError; both halt the current
// statement, and the caller decides what the halt means.
func Evaluate(n *ast.Node, state State) (value.Value, error) {
	if n == nil {
		return value.Value{}, fmt.Errorf("evaluate: nil node")
	}

	switch n.Kind {
	case ast.ConstantNumber:
		return value.NewNumber(n.Num), nil
	case ast.ConstantString:
		return value.NewString(n.Str), nil
	case ast.Variable:
		return state.Get(n.Name), nil
	case ast.PreIncrement, ast.PostIncrement, ast.PreDecrement, ast.PostDecrement:
		return applyIncDec(n, state)
	}

	if op, ok := binaryOps[n.Kind]; ok {
		l, err := Evaluate(n.Left, state)
		if err != nil {
			return value.Value{}, err
		}
		r, err := Evaluate(n.Right, state)
		if err != nil {
			return value.Value{}, err
		}
		return value.Apply(op, l, r)
	}

	if op, ok := unaryOps[n.Kind]; ok {
		v, err := Evaluate(n.Left, state)
		if err != nil {
			return value.Value{}, err
		}
		return value.ApplyUnary(op, v)
	}

	return value.Value{}, fmt.Errorf("evaluate: unsupported node kind %s", n.Kind)
}

// applyIncDec performs the read-modify-write of ++ and --. The operand
// must be a variable reference; pre forms yield the updated value, post
// forms the original.
func applyIncDec(n *ast.Node, state State) (value.Value, error) {
	target := n.Left
	if target == nil || target.Kind != ast.Variable {
		return value.Value{}, fmt.Errorf("%s target must be a variable", n.Kind)
	}

	old := state.Get(target.Name)
	var updated value.Value
	var err error
	switch n.Kind {
	case ast.PreIncrement, ast.PostIncrement:
		updated = value.Increment(old)
	default:
		updated, err = value.Decrement(old)
		if err != nil {
			return value.Value{}, err
		}
	}
	state.Set(target.Name, updated)

	if n.Kind == ast.PostIncrement || n.Kind == ast.PostDecrement {
		return old, nil
	}
	return updated, nil
}
