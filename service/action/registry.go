package action

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/policy"
	"github.com/complyflow/complyflow/runtime/instance"
)

// Registry holds the closed set of action handlers the engine dispatches to.
// The set is built at initialization; a call naming an unregistered function
// is logged and ignored.
type Registry struct {
	handlers map[string]Handler
	mux      sync.RWMutex
}

// Lookup returns a handler by name, or nil.
func (r *Registry) Lookup(name string) Handler {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.handlers[name]
}

// Register registers a handler under its own name.
func (r *Registry) Register(handler Handler) {
	if handler == nil {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.handlers[handler.Name()] = handler
}

// Names returns the registered action names, sorted.
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Dispatch routes the call to its handler and records the outcome on the
// instance log. An unregistered action name is not an error: the call is
// logged as unresolved and the instance is left unchanged.
func (r *Registry) Dispatch(ctx context.Context, inst *instance.Instance, call *expr.Call, actor string) error {
	if call == nil {
		return nil
	}
	handler := r.Lookup(call.Name)
	if handler == nil {
		log.Printf("action: unresolved function %v", call.Name)
		return nil
	}
	if p := policy.FromContext(ctx); p != nil {
		args := make([]string, 0, len(call.Args))
		for _, arg := range call.Args {
			args = append(args, arg.String())
		}
		if !p.Approves(ctx, call.Name, args) {
			log.Printf("action: %v blocked by policy", call.Name)
			return nil
		}
	}
	if err := handler.Exec(ctx, inst, call, actor); err != nil {
		return err
	}
	inst.AppendEvent(actor, instance.EventActionApplied, call.String())
	return nil
}

// NewRegistry creates a registry pre-populated with the given handlers.
func NewRegistry(handlers ...Handler) *Registry {
	ret := &Registry{handlers: make(map[string]Handler)}
	for _, handler := range handlers {
		ret.Register(handler)
	}
	return ret
}
