package action

import (
	"context"

	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/runtime/instance"
)

// Handler applies one named action call to a workflow instance. Handlers
// mutate the instance they are given; persistence is the caller's concern.
type Handler interface {
	// Name returns the action name the handler answers to, e.g. "SETANS".
	Name() string

	// Exec applies the call on behalf of the given actor.
	Exec(ctx context.Context, inst *instance.Instance, call *expr.Call, actor string) error
}
