package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starscript/internal/scripting/ast"
	"starscript/internal/scripting/machine"
	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

func intLit(i int64) *ast.Node { return ast.NumberLit(number.FromInt(i)) }

func TestEvaluateArithmetic(t *testing.T) {
	state := machine.New()

	// (1 + 2) * 3
	expr := ast.Binary(ast.Multiply, ast.Binary(ast.Add, intLit(1), intLit(2)), intLit(3))
	got, err := Evaluate(expr, state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.FromInt(9)), got)
}

func TestEvaluateVariables(t *testing.T) {
	state := machine.New()
	state.Set("x", value.NewNumber(number.FromInt(2)))

	expr := ast.Binary(ast.Add, ast.Var("X"), intLit(3))
	got, err := Evaluate(expr, state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.FromInt(5)), got, "variable names are case-insensitive")

	// Unassigned variables read as the Number 0.
	got, err = Evaluate(ast.Var("missing"), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.Zero), got)
}

func TestEvaluateMixedAdd(t *testing.T) {
	state := machine.New()
	expr := ast.Binary(ast.Add, ast.NumberLit(number.FromRaw(1500)), ast.StringLit("m"))
	got, err := Evaluate(expr, state)
	require.NoError(t, err)
	assert.Equal(t, value.NewString("1.5m"), got)
}

func TestEvaluateIncDec(t *testing.T) {
	state := machine.New()

	// ++x on an unassigned variable: 0 becomes 1, pre yields 1.
	got, err := Evaluate(ast.Unary(ast.PreIncrement, ast.Var("x")), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.One), got)
	assert.Equal(t, value.NewNumber(number.One), state.Get("x"))

	// x++ yields the old value and stores the new one.
	got, err = Evaluate(ast.Unary(ast.PostIncrement, ast.Var("x")), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.One), got)
	assert.Equal(t, value.NewNumber(number.FromInt(2)), state.Get("x"))

	// -- on a string drops the final character.
	state.Set("s", value.NewString("ab"))
	got, err = Evaluate(ast.Unary(ast.PreDecrement, ast.Var("s")), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewString("a"), got)

	// -- on an empty string is a runtime error and leaves it unchanged.
	state.Set("s", value.NewString(""))
	_, err = Evaluate(ast.Unary(ast.PostDecrement, ast.Var("s")), state)
	var rt *value.RuntimeError
	require.ErrorAs(t, err, &rt)
	assert.Equal(t, value.EmptyString, rt.Kind)
	assert.Equal(t, value.NewString(""), state.Get("s"))

	// Inc/dec of anything but a variable is rejected.
	_, err = Evaluate(ast.Unary(ast.PreIncrement, intLit(1)), state)
	assert.Error(t, err)
}

func TestEvaluateErrorPropagation(t *testing.T) {
	state := machine.New()

	// A divide-by-zero deep in the tree halts the whole statement.
	expr := ast.Binary(ast.Add,
		intLit(1),
		ast.Binary(ast.Divide, intLit(1), intLit(0)))
	_, err := Evaluate(expr, state)
	var rt *value.RuntimeError
	require.ErrorAs(t, err, &rt)
	assert.Equal(t, value.DivideByZero, rt.Kind)

	// A type mismatch surfaces as a static error value.
	expr = ast.Binary(ast.Multiply, intLit(2), ast.StringLit("a"))
	_, err = Evaluate(expr, state)
	var static *value.StaticError
	require.ErrorAs(t, err, &static)
}

func TestEvaluateComparisonChain(t *testing.T) {
	state := machine.New()

	// (2 < 3) == 1
	expr := ast.Binary(ast.EqualTo,
		ast.Binary(ast.LessThan, intLit(2), intLit(3)),
		intLit(1))
	got, err := Evaluate(expr, state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.One), got)
}

func TestEvaluateUnaryFunctions(t *testing.T) {
	state := machine.New()

	got, err := Evaluate(ast.Unary(ast.Sin, intLit(90)), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.FromRaw(1000)), got)

	got, err = Evaluate(ast.Unary(ast.Not, intLit(0)), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.One), got)

	got, err = Evaluate(ast.Unary(ast.Negate, intLit(5)), state)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.FromInt(-5)), got)
}
