package evaluator

// Package evaluator decides whether a rule fires. A rule's test expression
// is parsed once at assembly time; evaluation resolves the two operands
// against instance state and applies the comparison operator. Any failure to
// resolve or compare is reported as an error so that callers can fail
// closed: a rule that cannot be understood never fires.

import (
	"fmt"

	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/runtime/instance"
)

// Evaluate resolves and applies a rule's test expression against the
// instance state. The error return covers every failure mode - missing AST,
// unresolvable reference, mismatched operand types - and callers are
// expected to treat an error as "does not fire".
func Evaluate(rule *graph.Rule, inst *instance.Instance) (bool, error) {
	if rule == nil {
		return false, fmt.Errorf("rule was nil")
	}
	if rule.Test == nil {
		return false, fmt.Errorf("rule %s has no parsed test expression", rule.ID)
	}

	left, err := Resolve(rule.Test.Left, inst)
	if err != nil {
		return false, fmt.Errorf("rule %s: %w", rule.ID, err)
	}
	right, err := Resolve(rule.Test.Right, inst)
	if err != nil {
		return false, fmt.Errorf("rule %s: %w", rule.ID, err)
	}

	result, err := compare(left, right, rule.Test.Op)
	if err != nil {
		return false, fmt.Errorf("rule %s: %w", rule.ID, err)
	}
	return result, nil
}

// Resolve returns the concrete value of an operand: the literal itself, or
// the referenced step's current answer. Resolution is total - every operand
// kind either yields a value or an explicit error; an unresolvable
// reference is never silently treated as a value.
func Resolve(operand expr.Operand, inst *instance.Instance) (interface{}, error) {
	switch operand.Kind {
	case expr.KindNumber:
		return operand.Number, nil
	case expr.KindString:
		return operand.Text, nil
	case expr.KindRef:
		if inst == nil {
			return nil, fmt.Errorf("reference %s: no instance state", operand.Ref)
		}
		step := inst.Step(operand.Ref)
		if step == nil {
			return nil, fmt.Errorf("reference %s: no such step", operand.Ref)
		}
		if step.Answer == nil {
			return nil, fmt.Errorf("reference %s: no answer recorded", operand.Ref)
		}
		return step.Answer, nil
	}
	return nil, fmt.Errorf("unsupported operand kind %v", operand.Kind)
}

// compare applies op using standard comparison semantics for same-typed
// operands. Mixed-typed operands are a comparison failure.
func compare(left, right interface{}, op expr.Operator) (bool, error) {
	if ln, lok := toFloat(left); lok {
		if rn, rok := toFloat(right); rok {
			return compareOrdered(ln, rn, op)
		}
	}
	if ls, lok := left.(string); lok {
		if rs, rok := right.(string); rok {
			return compareOrdered(ls, rs, op)
		}
	}
	if lb, lok := left.(bool); lok {
		if rb, rok := right.(bool); rok {
			switch op {
			case expr.OpEq:
				return lb == rb, nil
			case expr.OpNe:
				return lb != rb, nil
			}
			return false, fmt.Errorf("operator %s not defined for booleans", op)
		}
	}
	return false, fmt.Errorf("cannot compare %T with %T", left, right)
}

func compareOrdered[T float64 | string](left, right T, op expr.Operator) (bool, error) {
	switch op {
	case expr.OpEq:
		return left == right, nil
	case expr.OpNe:
		return left != right, nil
	case expr.OpLt:
		return left < right, nil
	case expr.OpLe:
		return left <= right, nil
	case expr.OpGt:
		return left > right, nil
	case expr.OpGe:
		return left >= right, nil
	}
	return false, fmt.Errorf("unsupported operator %s", op)
}

func toFloat(value interface{}) (float64, bool) {
	switch actual := value.(type) {
	case float64:
		return actual, true
	case float32:
		return float64(actual), true
	case int:
		return float64(actual), true
	case int64:
		return float64(actual), true
	}
	return 0, false
}
