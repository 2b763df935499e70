package setanswer

import (
	"context"

	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/runtime/evaluator"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/action"
)

const name = "SETANS"

// Service stores a value as another step's answer: SETANS(target, value).
// The value argument may be a literal or a reference to an answered step.
type Service struct{}

// Name returns the action name.
func (s *Service) Name() string {
	return name
}

// Exec resolves the value argument and writes it to the target step.
func (s *Service) Exec(ctx context.Context, inst *instance.Instance, call *expr.Call, actor string) error {
	if len(call.Args) != 2 {
		return action.NewArityError(name, 2, len(call.Args))
	}
	target := call.Args[0]
	if target.Kind != expr.KindRef {
		return action.NewInvalidArgumentError(name, 0, "target must be a feature id")
	}
	step := inst.Step(target.Ref)
	if step == nil {
		return action.NewUnknownTargetError(name, target.Ref)
	}
	value, err := evaluator.Resolve(call.Args[1], inst)
	if err != nil {
		return action.NewInvalidArgumentError(name, 1, err.Error())
	}
	step.Answer = value
	return nil
}

// New creates a new SETANS handler.
func New() *Service {
	return &Service{}
}
