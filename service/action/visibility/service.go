package visibility

import (
	"context"
	"fmt"
	"strconv"

	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/runtime/evaluator"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/action"
)

const name = "SHOWQ"

// Service toggles a step's visibility: SHOWQ(target, shown). A truthy value
// reveals the step, a falsy one hides it.
type Service struct{}

// Name returns the action name.
func (s *Service) Name() string {
	return name
}

// Exec resolves the shown argument and updates the target step's Hidden flag.
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
	shown, err := toBool(value)
	if err != nil {
		return action.NewInvalidArgumentError(name, 1, err.Error())
	}
	step.Hidden = !shown
	return nil
}

func toBool(value interface{}) (bool, error) {
	switch actual := value.(type) {
	case bool:
		return actual, nil
	case string:
		return strconv.ParseBool(actual)
	case float64:
		return actual != 0, nil
	case int:
		return actual != 0, nil
	}
	return false, fmt.Errorf("cannot interpret %T as a flag", value)
}

// New creates a new SHOWQ handler.
func New() *Service {
	return &Service{}
}
