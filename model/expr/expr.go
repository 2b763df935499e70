package expr

import "fmt"

// Operator identifies a comparison operator in a rule test expression.
type Operator string

const (
	OpEq Operator = "=="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpLe Operator = "<="
	OpGt Operator = ">"
	OpGe Operator = ">="
)

// IsOrdering reports whether the operator requires ordered operands.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// OperandKind discriminates the three operand forms the rule language
// supports.
type OperandKind int

const (
	// KindNumber is a numeric literal, e.g. 42 or 3.5.
	KindNumber OperandKind = iota
	// KindString is a single- or double-quoted string literal.
	KindString
	// KindRef references another feature's current answer by id.
	KindRef
)

// Operand is a resolved-at-evaluation-time value source.
type Operand struct {
	Kind   OperandKind
	Number float64
	Text   string
	Ref    string
}

func (o Operand) String() string {
	switch o.Kind {
	case KindNumber:
		return fmt.Sprintf("%v", o.Number)
	case KindString:
		return fmt.Sprintf("%q", o.Text)
	default:
		return o.Ref
	}
}

// Comparison is the parsed form of a rule test expression:
// left operator right.
type Comparison struct {
	Left  Operand
	Op    Operator
	Right Operand
}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// Call is the parsed form of a rule action expression: name(arg, arg, ...).
type Call struct {
	Name string
	Args []Operand
}

func (c *Call) String() string {
	out := c.Name + "("
	for i, arg := range c.Args {
		if i > 0 {
			out += ", "
		}
		out += arg.String()
	}
	return out + ")"
}
