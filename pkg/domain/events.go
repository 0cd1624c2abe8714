package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventSessionLoaded     EventType = "session_loaded"
	EventStepEnter         EventType = "step_enter"
	EventSelectionChanged  EventType = "selection_changed"
	EventSelectionRejected EventType = "selection_rejected"
	EventPlanResolved      EventType = "plan_resolved"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Module    string    `json:"module"`
}

// SessionEvent is emitted once a document is loaded.
type SessionEvent struct {
	EventBase
	Steps        int `json:"steps"`
	VisibleSteps int `json:"visible_steps"`
}

// StepEvent represents the cursor arriving on a step.
type StepEvent struct {
	EventBase
	Step  string `json:"step"`
	Index int    `json:"index"`
}

// SelectionEvent represents a select or deselect call.
type SelectionEvent struct {
	EventBase
	Step     string `json:"step"`
	Group    string `json:"group"`
	Option   string `json:"option"`
	Selected bool   `json:"selected"`
}

// PlanEvent represents a resolved install plan.
type PlanEvent struct {
	EventBase
	Files int `json:"files"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the caller's goroutine.
type LifecycleHooks struct {
	OnSessionLoaded     func(*SessionEvent)
	OnStepEnter         func(*StepEvent)
	OnSelectionChanged  func(*SelectionEvent)
	OnSelectionRejected func(*SelectionEvent)
	OnPlanResolved      func(*PlanEvent)
}
