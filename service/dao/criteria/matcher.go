package criteria

import (
	"github.com/complyflow/complyflow/service/dao"
)

// Mode selects how a target filter treats its id list.
type Mode string

const (
	ModeAll     Mode = "all"
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// Filter selects target entities for bulk instance creation: every entity,
// only the listed ids, or everything but the listed ids.
type Filter struct {
	Mode Mode
	IDs  []string
}

// All matches every target entity.
func All() *Filter {
	return &Filter{Mode: ModeAll}
}

// Include matches only the listed ids.
func Include(ids ...string) *Filter {
	return &Filter{Mode: ModeInclude, IDs: ids}
}

// Exclude matches everything but the listed ids.
func Exclude(ids ...string) *Filter {
	return &Filter{Mode: ModeExclude, IDs: ids}
}

// Matches reports whether the filter selects the supplied id. A nil filter
// matches everything.
func (f *Filter) Matches(id string) bool {
	if f == nil {
		return true
	}
	switch f.Mode {
	case ModeInclude:
		return f.contains(id)
	case ModeExclude:
		return !f.contains(id)
	}
	return true
}

func (f *Filter) contains(id string) bool {
	for _, candidate := range f.IDs {
		if candidate == id {
			return true
		}
	}
	return false
}

// FilterByState applies optional List parameters against an entity state.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	switch len(parameters) {
	case 0:
		return true
	case 1:
		if parameters[0].Name == "State" {
			switch actual := parameters[0].Value.(type) {
			case string:
				return state == actual
			case []string:
				for _, s := range actual {
					if state == s {
						return true
					}
				}
				return false
			}
		}
	}
	return true
}
