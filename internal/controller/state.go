package controller

import "github.com/ppiankov/factcheck/internal/view"

// UIState is the display mode of the controller
type UIState int

const (
	// Idle: loading region hidden, submit enabled
	Idle UIState = iota
	// Loading: results region hidden, loading region shown, submit disabled
	Loading
)

func (s UIState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	default:
		return "unknown"
	}
}

// SubmitEnabled reports whether the submit control accepts input in this state
func (s UIState) SubmitEnabled() bool {
	return s == Idle
}

// Display is the set of UI regions the controller drives: the text input,
// the submit and clear controls, the loading region, and the results
// container with its list.
//
// The controller calls these methods while holding its own lock, so
// implementations must not call back into the controller synchronously.
type Display interface {
	// ShowState applies a UIState to the loading region, results region and submit control
	ShowState(state UIState)
	// ShowResults replaces the rendered entries, reveals the results region and scrolls it into view
	ShowResults(res view.Results)
	// HideResults hides the results region
	HideResults()
	// SetInput replaces the text input value
	SetInput(text string)
	// FocusInput moves focus to the text input
	FocusInput()
	// Alert shows a blocking warning to the user
	Alert(message string)
}
