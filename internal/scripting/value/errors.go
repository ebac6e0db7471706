package value

import "fmt"

// The language distinguishes two error channels. Runtime errors are
// exceptional numeric events (division by zero, shrinking an empty
// string); they abort the current statement. Static errors are
// type-incompatible operand combinations; they travel as values so the
// host scheduler can treat them as the cheap, analysable case.

// RuntimeKind enumerates the runtime error taxonomy.
type RuntimeKind int

const (
	DivideByZero RuntimeKind = iota
	ModulusByZero
	EmptyString
)

// String returns the taxonomy name.
func (k RuntimeKind) String() string {
	switch k {
	case DivideByZero:
		return "DivideByZero"
	case ModulusByZero:
		return "ModulusByZero"
	case EmptyString:
		return "EmptyString"
	default:
		return fmt.Sprintf("RuntimeKind(%d)", int(k))
	}
}

// RuntimeError is raised by arithmetic that cannot complete.
type RuntimeError struct {
	Kind RuntimeKind
}

func (e *RuntimeError) Error() string {
	switch e.Kind {
	case DivideByZero:
		return "attempted to divide by zero"
	case ModulusByZero:
		return "attempted to modulus by zero"
	case EmptyString:
		return "attempted to decrement an empty string"
	default:
		return "runtime error"
	}
}

// StaticError is the sentinel error-value produced by type-incompatible
// operand combinations. Downstream operators treat it as the
// halt-this-statement signal.
type StaticError struct {
	Message string
}

func (e *StaticError) Error() string {
	return e.Message
}

func staticErrf(format string, args ...any) error {
	return &StaticError{Message: fmt.Sprintf(format, args...)}
}
