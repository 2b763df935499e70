package instance

import (
	"time"

	"github.com/complyflow/complyflow/internal/clock"
	"github.com/complyflow/complyflow/internal/idgen"
)

// Set is a named batch of instances created together against a filtered
// collection of target entities. A set owns its instances: deleting the set
// deletes every contained instance.
type Set struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageUUID string    `json:"imageUUID,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSet creates an empty instance set.
func NewSet(name, imageUUID string) *Set {
	return &Set{
		ID:        idgen.New(),
		Name:      name,
		ImageUUID: imageUUID,
		CreatedAt: clock.Now(),
	}
}
