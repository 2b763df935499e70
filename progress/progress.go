package progress

import (
	"github.com/complyflow/complyflow/runtime/instance"
)

// Progress is an aggregated snapshot of how far a workflow instance has
// come: step counters plus the current position.
type Progress struct {
	InstanceID  string `json:"instanceID"`
	Name        string `json:"name,omitempty"`
	CurrFeature string `json:"currFeature,omitempty"`
	Complete    bool   `json:"complete"`

	TotalSteps     int `json:"totalSteps"`
	CompletedSteps int `json:"completedSteps"`
	StartedSteps   int `json:"startedSteps"`
	AnsweredSteps  int `json:"answeredSteps"`
	HiddenSteps    int `json:"hiddenSteps"`

	// Percent is completed steps over visible steps, 0-100.
	Percent int `json:"percent"`
}

// Of computes a snapshot for the given instance.
func Of(inst *instance.Instance) *Progress {
	if inst == nil {
		return nil
	}
	ret := &Progress{
		InstanceID:  inst.ID,
		Name:        inst.Name,
		CurrFeature: inst.CurrFeature,
		Complete:    inst.Complete,
	}
	for _, id := range inst.StepOrder {
		step := inst.Steps[id]
		if step == nil {
			continue
		}
		ret.TotalSteps++
		if step.Hidden {
			ret.HiddenSteps++
			continue
		}
		if step.Complete {
			ret.CompletedSteps++
		} else if step.StartedAt != nil {
			ret.StartedSteps++
		}
		if step.Answer != nil {
			ret.AnsweredSteps++
		}
	}
	if visible := ret.TotalSteps - ret.HiddenSteps; visible > 0 {
		ret.Percent = ret.CompletedSteps * 100 / visible
	} else if ret.Complete {
		ret.Percent = 100
	}
	return ret
}
