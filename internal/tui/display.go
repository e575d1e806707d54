package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/factcheck/internal/controller"
	"github.com/ppiankov/factcheck/internal/view"
)

// Messages delivered to Update; display events arrive in call order
type (
	stateMsg         struct{ state controller.UIState }
	resultsMsg       struct{ results view.Results }
	hideResultsMsg   struct{}
	setInputMsg      struct{ text string }
	focusInputMsg    struct{}
	alertMsg         struct{ message string }
	submitDoneMsg    struct{ err error }
	displayClosedMsg struct{}
)

// Display adapts controller calls into tea messages.
// Calls never block: events are queued and drained one at a time by
// the command returned from wait.
type Display struct {
	mu     sync.Mutex
	queue  []tea.Msg
	ready  chan struct{}
	done   chan struct{}
	closed bool
}

// NewDisplay creates an empty event queue
func NewDisplay() *Display {
	return &Display{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (d *Display) ShowState(state controller.UIState) { d.push(stateMsg{state: state}) }
func (d *Display) ShowResults(res view.Results) { d.push(resultsMsg{results: res}) }
func (d *Display) HideResults() { d.push(hideResultsMsg{}) }
func (d *Display) SetInput(text string) { d.push(setInputMsg{text: text}) }
func (d *Display) FocusInput() { d.push(focusInputMsg{}) }
func (d *Display) Alert(message string) { d.push(alertMsg{message: message}) }

// Close wakes any pending wait; later events are dropped
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.done)
	}
}

func (d *Display) push(msg tea.Msg) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, msg)
	d.mu.Unlock()

	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// next blocks until an event is queued or the display is closed
func (d *Display) next() tea.Msg {
	for {
		d.mu.Lock()
		if len(d.queue) > 0 {
			msg := d.queue[0]
			d.queue = d.queue[1:]
			d.mu.Unlock()
			return msg
		}
		d.mu.Unlock()

		select {
		case <-d.ready:
		case <-d.done:
			return displayClosedMsg{}
		}
	}
}

// wait returns a command delivering the next queued event
func (d *Display) wait() tea.Cmd {
	return func() tea.Msg {
		return d.next()
	}
}
