// Package ast defines the expression tree handed to the engines by the
// host parser. Both the concrete evaluator and the symbolic analyser
// consume the same nodes.
package ast

import "starscript/internal/scripting/number"

// Kind tags an expression node.
type Kind int

const (
	ConstantNumber Kind = iota
	ConstantString
	Variable
	Add
	Subtract
	Multiply
	Divide
	Modulo
	Exponent
	EqualTo
	NotEqualTo
	LessThan
	GreaterThan
	LessThanEq
	GreaterThanEq
	And
	Or
	Not
	Negate
	PreIncrement
	PostIncrement
	PreDecrement
	PostDecrement
	Abs
	Sqrt
	Sin
	Cos
	Tan
	ArcSin
	ArcCos
	ArcTan
	Factorial
)

var kindNames = [...]string{
	ConstantNumber: "ConstantNumber",
	ConstantString: "ConstantString",
	Variable:       "Variable",
	Add:            "Add",
	Subtract:       "Subtract",
	Multiply:       "Multiply",
	Divide:         "Divide",
	Modulo:         "Modulo",
	Exponent:       "Exponent",
	EqualTo:        "EqualTo",
	NotEqualTo:     "NotEqualTo",
	LessThan:       "LessThan",
	GreaterThan:    "GreaterThan",
	LessThanEq:     "LessThanEq",
	GreaterThanEq:  "GreaterThanEq",
	And:            "And",
	Or:             "Or",
	Not:            "Not",
	Negate:         "Negate",
	PreIncrement:   "PreIncrement",
	PostIncrement:  "PostIncrement",
	PreDecrement:   "PreDecrement",
	PostDecrement:  "PostDecrement",
	Abs:            "Abs",
	Sqrt:           "Sqrt",
	Sin:            "Sin",
	Cos:            "Cos",
	Tan:            "Tan",
	ArcSin:         "ArcSin",
	ArcCos:         "ArcCos",
	ArcTan:         "ArcTan",
	Factorial:      "Factorial",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is an expression tree node. Unary operators store their operand
// in Left; constants and variable references carry their payload fields
// and no children.
type Node struct {
	Kind  Kind
	Left  *Node
	Right *Node

	Num  number.Number // ConstantNumber payload
	Str  string        // ConstantString payload
	Name string        // Variable payload
}

// NumberLit builds a numeric constant node.
func NumberLit(n number.Number) *Node {
	return &Node{Kind: ConstantNumber, Num: n}
}

// StringLit builds a string constant node.
func StringLit(s string) *Node {
	return &Node{Kind: ConstantString, Str: s}
}

// Var builds a variable reference. Names are case-insensitive; a ':'
// prefix marks the global namespace and travels with the name.
func Var(name string) *Node {
	return &Node{Kind: Variable, Name: name}
}

// Binary builds a two-operand node.
func Binary(kind Kind, l, r *Node) *Node {
	return &Node{Kind: kind, Left: l, Right: r}
}

// Unary builds a one-operand node with the operand in Left.
func Unary(kind Kind, operand *Node) *Node {
	return &Node{Kind: kind, Left: operand}
}
