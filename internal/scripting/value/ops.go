package value

import (
	"strings"
)

// Op identifies a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpExponent
	OpLessThan
	OpGreaterThan
	OpLessThanEq
	OpGreaterThanEq
	OpEqualTo
	OpNotEqualTo
	OpAnd
	OpOr
)

var opNames = map[Op]string{
	OpAdd:           "+",
	OpSubtract:      "-",
	OpMultiply:      "*",
	OpDivide:        "/",
	OpModulo:        "%",
	OpExponent:      "^",
	OpLessThan:      "<",
	OpGreaterThan:   ">",
	OpLessThanEq:    "<=",
	OpGreaterThanEq: ">=",
	OpEqualTo:       "==",
	OpNotEqualTo:    "!=",
	OpAnd:           "and",
	OpOr:            "or",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "?"
}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
	OpAbs
	OpSqrt
	OpSin
	OpCos
	OpTan
	OpArcSin
	OpArcCos
	OpArcTan
	OpFactorial
)

var unaryNames = map[UnaryOp]string{
	OpNot:       "not",
	OpNegate:    "negate",
	OpAbs:       "abs",
	OpSqrt:      "sqrt",
	OpSin:       "sin",
	OpCos:       "cos",
	OpTan:       "tan",
	OpArcSin:    "asin",
	OpArcCos:    "acos",
	OpArcTan:    "atan",
	OpFactorial: "factorial",
}

func (op UnaryOp) String() string {
	if s, ok := unaryNames[op]; ok {
		return s
	}
	return "?"
}

// opKey selects one cell of the operator matrix.
type opKey struct {
	op   Op
	l, r Type
}

type binaryFn func(l, r Value) (Value, error)

// binaryTable is the operator matrix from the language definition,
// expressed once as a dispatch table instead of per-type overloads.
// Every (op, left, right) combination has exactly one entry.
var binaryTable map[opKey]binaryFn

func init() {
	binaryTable = make(map[opKey]binaryFn)

	reg := func(op Op, l, r Type, fn binaryFn) {
		binaryTable[opKey{op, l, r}] = fn
	}
	// regAll registers the same behavior for all four type pairings.
	regAll := func(op Op, fn binaryFn) {
		reg(op, TypeNumber, TypeNumber, fn)
		reg(op, TypeNumber, TypeString, fn)
		reg(op, TypeString, TypeNumber, fn)
		reg(op, TypeString, TypeString, fn)
	}

	// Addition: numeric add, or concatenation once a string is involved.
	reg(OpAdd, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
		return NewNumber(l.num.Add(r.num)), nil
	})
	reg(OpAdd, TypeNumber, TypeString, func(l, r Value) (Value, error) {
		return NewString(l.num.String() + r.str), nil
	})
	reg(OpAdd, TypeString, TypeNumber, func(l, r Value) (Value, error) {
		return NewString(l.str + r.num.String()), nil
	})
	reg(OpAdd, TypeString, TypeString, func(l, r Value) (Value, error) {
		return NewString(l.str + r.str), nil
	})

	// Subtraction: numeric sub, or trim-suffix once a string is involved.
	reg(OpSubtract, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
		return NewNumber(l.num.Sub(r.num)), nil
	})
	reg(OpSubtract, TypeNumber, TypeString, func(l, r Value) (Value, error) {
		return NewString(trimLast(l.num.String(), r.str)), nil
	})
	reg(OpSubtract, TypeString, TypeNumber, func(l, r Value) (Value, error) {
		return NewString(trimLast(l.str, r.num.String())), nil
	})
	reg(OpSubtract, TypeString, TypeString, func(l, r Value) (Value, error) {
		return NewString(trimLast(l.str, r.str)), nil
	})

	// Multiplicative and exponent operators are numbers-only.
	reg(OpMultiply, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
		return NewNumber(l.num.Mul(r.num)), nil
	})
	reg(OpDivide, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
		q, err := l.num.Div(r.num)
		if err != nil {
			return Value{}, &RuntimeError{Kind: DivideByZero}
		}
		return NewNumber(q), nil
	})
	reg(OpModulo, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
		m, err := l.num.Mod(r.num)
		if err != nil {
			return Value{}, &RuntimeError{Kind: ModulusByZero}
		}
		return NewNumber(m), nil
	})
	reg(OpExponent, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
		return NewNumber(l.num.Pow(r.num)), nil
	})
	for _, op := range []Op{OpMultiply, OpDivide, OpModulo, OpExponent} {
		msg := typeErrMessage[op]
		fail := func(l, r Value) (Value, error) { return Value{}, staticErrf("%s", msg) }
		reg(op, TypeNumber, TypeString, fail)
		reg(op, TypeString, TypeNumber, fail)
		reg(op, TypeString, TypeString, fail)
	}

	// Ordering: numeric compare, or lexicographic compare with the
	// numeric side stringified.
	for op, keep := range map[Op]func(c int) bool{
		OpLessThan:      func(c int) bool { return c < 0 },
		OpGreaterThan:   func(c int) bool { return c > 0 },
		OpLessThanEq:    func(c int) bool { return c <= 0 },
		OpGreaterThanEq: func(c int) bool { return c >= 0 },
	} {
		keep := keep
		reg(op, TypeNumber, TypeNumber, func(l, r Value) (Value, error) {
			return NewBool(keep(l.num.Cmp(r.num))), nil
		})
		lex := func(l, r Value) (Value, error) {
			return NewBool(keep(strings.Compare(l.String(), r.String()))), nil
		}
		reg(op, TypeNumber, TypeString, lex)
		reg(op, TypeString, TypeNumber, lex)
		reg(op, TypeString, TypeString, lex)
	}

	// Equality: a number never equals a string.
	regAll(OpEqualTo, func(l, r Value) (Value, error) {
		return NewBool(l.Equal(r)), nil
	})
	regAll(OpNotEqualTo, func(l, r Value) (Value, error) {
		return NewBool(!l.Equal(r)), nil
	})

	// Logical connectives over truthiness; strings are always true.
	regAll(OpAnd, func(l, r Value) (Value, error) {
		return NewBool(l.IsTruthy() && r.IsTruthy()), nil
	})
	regAll(OpOr, func(l, r Value) (Value, error) {
		return NewBool(l.IsTruthy() || r.IsTruthy()), nil
	})
}

var typeErrMessage = map[Op]string{
	OpMultiply: "Attempted to multiply by a string",
	OpDivide:   "Attempted to divide by a string",
	OpModulo:   "Attempted to modulus by a string",
	OpExponent: "Attempted to exponent by a string",
}

// trimLast removes the rightmost occurrence of needle from s. If needle
// does not occur, s is returned unchanged.
func trimLast(s, needle string) string {
	if needle == "" {
		return s
	}
	idx := strings.LastIndex(s, needle)
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(needle):]
}

// Apply evaluates a binary operator for the given operands according to
// the operator matrix.
func Apply(op Op, l, r Value) (Value, error) {
	fn, ok := binaryTable[opKey{op, l.typ, r.typ}]
	if !ok {
		return Value{}, staticErrf("operator %s is not defined for %s and %s", op, l.typ, r.typ)
	}
	return fn(l, r)
}

// ApplyUnary evaluates a unary operator. The math functions are
// numbers-only and produce a static error for string operands; logical
// not is defined for everything.
func ApplyUnary(op UnaryOp, v Value) (Value, error) {
	if op == OpNot {
		return NewBool(!v.IsTruthy()), nil
	}
	if v.typ == TypeString {
		return Value{}, staticErrf("Attempted to %s a string", op)
	}
	switch op {
	case OpNegate:
		return NewNumber(v.num.Negate()), nil
	case OpAbs:
		return NewNumber(v.num.Abs()), nil
	case OpSqrt:
		return NewNumber(v.num.Sqrt()), nil
	case OpSin:
		return NewNumber(v.num.Sin()), nil
	case OpCos:
		return NewNumber(v.num.Cos()), nil
	case OpTan:
		return NewNumber(v.num.Tan()), nil
	case OpArcSin:
		return NewNumber(v.num.ArcSin()), nil
	case OpArcCos:
		return NewNumber(v.num.ArcCos()), nil
	case OpArcTan:
		return NewNumber(v.num.ArcTan()), nil
	case OpFactorial:
		return NewNumber(v.num.Factorial()), nil
	default:
		return Value{}, staticErrf("unknown unary operator %d", int(op))
	}
}
