package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/runtime/evaluator"
	"github.com/complyflow/complyflow/runtime/instance"
	"github.com/complyflow/complyflow/service/action"
	"github.com/complyflow/complyflow/service/notify"
)

const name = "NOTIFY"

// Service sends a message through the notification collaborator:
// NOTIFY('recipient', 'message'). Delivery failures are logged, never
// surfaced; the action is fire-and-forget.
type Service struct {
	notifier notify.Service
}

// Name returns the action name.
func (s *Service) Name() string {
	return name
}

// Exec resolves both arguments and hands the message to the notifier.
func (s *Service) Exec(ctx context.Context, inst *instance.Instance, call *expr.Call, actor string) error {
	if len(call.Args) != 2 {
		return action.NewArityError(name, 2, len(call.Args))
	}
	recipient, err := resolveText(call.Args[0], inst)
	if err != nil {
		return action.NewInvalidArgumentError(name, 0, err.Error())
	}
	message, err := resolveText(call.Args[1], inst)
	if err != nil {
		return action.NewInvalidArgumentError(name, 1, err.Error())
	}
	if err := s.notifier.Send(ctx, actor, message, []string{recipient}); err != nil {
		log.Printf("notify: failed to deliver to %v: %v", recipient, err)
	}
	return nil
}

func resolveText(operand expr.Operand, inst *instance.Instance) (string, error) {
	value, err := evaluator.Resolve(operand, inst)
	if err != nil {
		return "", err
	}
	switch actual := value.(type) {
	case string:
		return actual, nil
	default:
		return fmt.Sprintf("%v", actual), nil
	}
}

// New creates a new NOTIFY handler backed by the given notifier.
func New(notifier notify.Service) *Service {
	return &Service{notifier: notifier}
}
