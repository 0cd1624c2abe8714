package observability

import (
	"log/slog"

	"github.com/aretw0/fomod/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionLoaded: func(e *domain.SessionEvent) {
			logger.Info("session_loaded",
				"module", e.Module,
				"steps", e.Steps,
				"visible_steps", e.VisibleSteps,
			)
		},
		OnStepEnter: func(e *domain.StepEvent) {
			logger.Info("step_enter", "module", e.Module, "step", e.Step, "index", e.Index)
		},
		OnSelectionChanged: func(e *domain.SelectionEvent) {
			logger.Info("selection_changed",
				"module", e.Module,
				"step", e.Step,
				"group", e.Group,
				"option", e.Option,
				"selected", e.Selected,
			)
		},
		OnSelectionRejected: func(e *domain.SelectionEvent) {
			logger.Warn("selection_rejected",
				"module", e.Module,
				"step", e.Step,
				"group", e.Group,
				"option", e.Option,
				"selected", e.Selected,
			)
		},
		OnPlanResolved: func(e *domain.PlanEvent) {
			logger.Info("plan_resolved", "module", e.Module, "files", e.Files)
		},
	}
}
