package value

// The may-throw predicate is a first-class query: a caller holding
// operand values (or an analyser holding constraints proving them safe)
// asks whether an operator can fail for those operands, and if not,
// selects the check-free implementation.

// OpInfo pairs an operator's throw predicate with its unchecked fast
// path. Unchecked is only valid for operands where MayThrow is false.
type OpInfo struct {
	MayThrow  func(l, r Value) bool
	Unchecked func(l, r Value) Value
}

var opInfoTable = map[Op]OpInfo{
	OpAdd:      {MayThrow: never, Unchecked: uncheckedVia(OpAdd)},
	OpSubtract: {MayThrow: never, Unchecked: uncheckedVia(OpSubtract)},
	OpMultiply: {
		MayThrow:  anyString,
		Unchecked: func(l, r Value) Value { return NewNumber(l.num.Mul(r.num)) },
	},
	OpDivide: {
		MayThrow:  stringOrZeroDivisor,
		Unchecked: func(l, r Value) Value { return NewNumber(l.num.DivUnchecked(r.num)) },
	},
	OpModulo: {
		MayThrow:  stringOrZeroDivisor,
		Unchecked: func(l, r Value) Value { return NewNumber(l.num.ModUnchecked(r.num)) },
	},
	OpExponent: {
		MayThrow:  anyString,
		Unchecked: func(l, r Value) Value { return NewNumber(l.num.Pow(r.num)) },
	},
	OpLessThan:      {MayThrow: never, Unchecked: uncheckedVia(OpLessThan)},
	OpGreaterThan:   {MayThrow: never, Unchecked: uncheckedVia(OpGreaterThan)},
	OpLessThanEq:    {MayThrow: never, Unchecked: uncheckedVia(OpLessThanEq)},
	OpGreaterThanEq: {MayThrow: never, Unchecked: uncheckedVia(OpGreaterThanEq)},
	OpEqualTo: {
		MayThrow:  never,
		Unchecked: func(l, r Value) Value { return NewBool(l.Equal(r)) },
	},
	OpNotEqualTo: {
		MayThrow:  never,
		Unchecked: func(l, r Value) Value { return NewBool(!l.Equal(r)) },
	},
	OpAnd: {
		MayThrow:  never,
		Unchecked: func(l, r Value) Value { return NewBool(l.IsTruthy() && r.IsTruthy()) },
	},
	OpOr: {
		MayThrow:  never,
		Unchecked: func(l, r Value) Value { return NewBool(l.IsTruthy() || r.IsTruthy()) },
	},
}

func never(l, r Value) bool {
	return false
}

func anyString(l, r Value) bool {
	return l.typ == TypeString || r.typ == TypeString
}

func stringOrZeroDivisor(l, r Value) bool {
	return anyString(l, r) || r.num.IsZero()
}

// uncheckedVia reuses the matrix entry for operators that never fail.
func uncheckedVia(op Op) func(l, r Value) Value {
	return func(l, r Value) Value {
		v, _ := Apply(op, l, r)
		return v
	}
}

// MayThrow reports whether op can fail for the given operands.
func MayThrow(op Op, l, r Value) bool {
	info, ok := opInfoTable[op]
	if !ok {
		return true
	}
	return info.MayThrow(l, r)
}

// ApplyUnchecked evaluates op without error checks. The operands must
// satisfy !MayThrow(op, l, r).
func ApplyUnchecked(op Op, l, r Value) Value {
	return opInfoTable[op].Unchecked(l, r)
}

// MayThrowUnary reports whether a unary operator can fail for v. The
// numeric functions fail on string operands; logical not never fails.
func MayThrowUnary(op UnaryOp, v Value) bool {
	return op != OpNot && v.typ == TypeString
}

// DecrementMayThrow reports whether -- can fail for v: only the empty
// string does.
func DecrementMayThrow(v Value) bool {
	return v.typ == TypeString && v.str == ""
}
