// Package value implements the dynamically-typed value model of the
// scripting language: a sum of Number and String, plus the operator
// matrix that defines how every operator behaves for every type pairing.
package value

import (
	"unicode/utf8"

	"starscript/internal/scripting/number"
)

// Type is the discriminant of a Value.
type Type int

const (
	TypeNumber Type = iota
	TypeString
)

// String returns the type name used in diagnostics.
func (t Type) String() string {
	if t == TypeNumber {
		return "number"
	}
	return "string"
}

// Value is an immutable script value holding exactly one variant.
// The zero value is the Number 0.
type Value struct {
	typ Type
	num number.Number
	str string
}

// NewNumber wraps a Number.
func NewNumber(n number.Number) Value {
	return Value{typ: TypeNumber, num: n}
}

// NewString wraps a string.
func NewString(s string) Value {
	return Value{typ: TypeString, str: s}
}

// NewBool converts a boolean to the Number 1 or 0.
func NewBool(b bool) Value {
	return Value{typ: TypeNumber, num: number.FromBool(b)}
}

// Type returns the variant tag.
func (v Value) Type() Type {
	return v.typ
}

// IsNumber reports whether the value holds a Number.
func (v Value) IsNumber() bool {
	return v.typ == TypeNumber
}

// IsString reports whether the value holds a String.
func (v Value) IsString() bool {
	return v.typ == TypeString
}

// Number returns the numeric payload. Only meaningful when IsNumber.
func (v Value) Number() number.Number {
	return v.num
}

// Str returns the string payload. Only meaningful when IsString.
func (v Value) Str() string {
	return v.str
}

// String renders the value the way the language prints it: numbers use
// the fixed-point textual form, strings are returned verbatim.
func (v Value) String() string {
	if v.typ == TypeNumber {
		return v.num.String()
	}
	return v.str
}

// IsTruthy reports the value's boolean interpretation: a Number is false
// iff its raw value is zero; every String is true.
func (v Value) IsTruthy() bool {
	if v.typ == TypeNumber {
		return !v.num.IsZero()
	}
	return true
}

// Equal reports language-level equality: same type and same payload.
// A number never equals a string.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	if v.typ == TypeNumber {
		return v.num.Equal(o.num)
	}
	return v.str == o.str
}

// Increment implements the ++ operator: numbers gain one, strings gain
// a trailing space.
func Increment(v Value) Value {
	if v.typ == TypeNumber {
		return NewNumber(v.num.Increment())
	}
	return NewString(v.str + " ")
}

// Decrement implements the -- operator: numbers lose one, strings lose
// their final character. Decrementing the empty string is a runtime
// error.
func Decrement(v Value) (Value, error) {
	if v.typ == TypeNumber {
		return NewNumber(v.num.Decrement()), nil
	}
	if v.str == "" {
		return Value{}, &RuntimeError{Kind: EmptyString}
	}
	_, size := utf8.DecodeLastRuneInString(v.str)
	return NewString(v.str[:len(v.str)-size]), nil
}
