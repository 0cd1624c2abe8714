package observability

import "github.com/aretw0/fomod/pkg/domain"

// Combine fans every event out to each of hooks, in order. Nil callbacks
// are skipped, so partially filled hook sets can be mixed freely.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var loaded []func(*domain.SessionEvent)
	var enter []func(*domain.StepEvent)
	var changed, rejected []func(*domain.SelectionEvent)
	var plan []func(*domain.PlanEvent)
	for _, h := range hooks {
		if h.OnSessionLoaded != nil {
			loaded = append(loaded, h.OnSessionLoaded)
		}
		if h.OnStepEnter != nil {
			enter = append(enter, h.OnStepEnter)
		}
		if h.OnSelectionChanged != nil {
			changed = append(changed, h.OnSelectionChanged)
		}
		if h.OnSelectionRejected != nil {
			rejected = append(rejected, h.OnSelectionRejected)
		}
		if h.OnPlanResolved != nil {
			plan = append(plan, h.OnPlanResolved)
		}
	}

	if len(loaded) > 0 {
		out.OnSessionLoaded = func(e *domain.SessionEvent) {
			for _, fn := range loaded {
				fn(e)
			}
		}
	}
	if len(enter) > 0 {
		out.OnStepEnter = func(e *domain.StepEvent) {
			for _, fn := range enter {
				fn(e)
			}
		}
	}
	if len(changed) > 0 {
		out.OnSelectionChanged = func(e *domain.SelectionEvent) {
			for _, fn := range changed {
				fn(e)
			}
		}
	}
	if len(rejected) > 0 {
		out.OnSelectionRejected = func(e *domain.SelectionEvent) {
			for _, fn := range rejected {
				fn(e)
			}
		}
	}
	if len(plan) > 0 {
		out.OnPlanResolved = func(e *domain.PlanEvent) {
			for _, fn := range plan {
				fn(e)
			}
		}
	}
	return out
}
