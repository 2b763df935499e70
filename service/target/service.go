package target

import (
	"context"

	"github.com/complyflow/complyflow/service/dao/criteria"
)

// Entity is an external subject a workflow instance is pinned to: a host,
// an account, a device or any other unit of assessment. The engine reads
// entities but never mutates them.
type Entity struct {
	ID    string            `json:"id" yaml:"id"`
	Name  string            `json:"name,omitempty" yaml:"name,omitempty"`
	Kind  string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	ret := *e
	if e.Attrs != nil {
		ret.Attrs = make(map[string]string, len(e.Attrs))
		for k, v := range e.Attrs {
			ret.Attrs[k] = v
		}
	}
	return &ret
}

// Service resolves target entities for instance allocation.
type Service interface {
	// Lookup returns the entity with the given id, or a dao.ErrNotFound error.
	Lookup(ctx context.Context, id string) (*Entity, error)

	// Find returns entities matching the filter, in a stable order.
	Find(ctx context.Context, filter *criteria.Filter) ([]*Entity, error)
}
