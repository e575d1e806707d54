// Package tui is the interactive terminal front end: a text input, a
// submit and clear control, a loading indicator and a scrollable results
// list, all driven by a controller.Controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/controller"
	"github.com/ppiankov/factcheck/internal/view"
)

const (
	title        = "AI Fact-Checker"
	loadingText  = "Checking facts..."
	resultsTitle = "Fact-Check Results"
	inputHeight  = 6
)

// Model is the bubbletea model for the fact-check screen
type Model struct {
	ctrl     *controller.Controller
	display  *Display
	renderer *view.Renderer
	styles   view.Styles

	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	state   controller.UIState
	results *view.Results
	alert   string

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Model
type Option func(*options)

type options struct {
	logger *zap.Logger
	styles view.Styles
}

// WithLogger sends controller diagnostics to l
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStyles overrides the colour palette
func WithStyles(s view.Styles) Option {
	return func(o *options) { o.styles = s }
}

// New creates the model and its controller. Requests are bound to ctx.
func New(ctx context.Context, checker controller.Checker, opts ...Option) Model {
	o := options{logger: zap.NewNop(), styles: view.DefaultStyles()}
	for _, opt := range opts {
		opt(&o)
	}

	display := NewDisplay()
	ctrl := controller.New(checker, display, controller.WithLogger(o.logger))

	ta := textarea.New()
	ta.Placeholder = "Paste a statement, article excerpt or social media post..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = o.styles.Title

	vp := viewport.New(80, 12)

	renderer := view.NewRenderer(o.styles)
	renderer.SetWidth(80)

	ctx, cancel := context.WithCancel(ctx)

	return Model{
		ctrl:     ctrl,
		display:  display,
		renderer: renderer,
		styles:   o.styles,
		input:    ta,
		spinner:  sp,
		viewport: vp,
		help:     help.New(),
		keys:     defaultKeyMap(),
		state:    ctrl.State(),
		width:    80,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init starts the cursor blink and the display event loop
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.display.wait())
}

// Update handles key presses and display events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = msg.state
		cmds := []tea.Cmd{m.display.wait()}
		if m.state == controller.Loading {
			m.results = nil
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case resultsMsg:
		res := msg.results
		m.results = &res
		m.refreshResults()
		m.viewport.GotoTop()
		return m, m.display.wait()

	case hideResultsMsg:
		m.results = nil
		return m, m.display.wait()

	case setInputMsg:
		m.input.SetValue(msg.text)
		return m, m.display.wait()

	case focusInputMsg:
		return m, tea.Batch(m.input.Focus(), m.display.wait())

	case alertMsg:
		m.alert = msg.message
		return m, m.display.wait()

	case submitDoneMsg, displayClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if m.state != controller.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The alert is modal: any key dismisses it and does nothing else
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		m.display.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if !m.state.SubmitEnabled() {
			return m, nil
		}
		return m, m.submit(m.input.Value())

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the request off the event loop; results arrive as display events
func (m Model) submit(text string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx, text)}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.input.SetWidth(width - 2)
	m.help.Width = width
	m.renderer.SetWidth(width)

	// title, subtitle, input, controls, results heading, help
	chrome := 2 + 2 + inputHeight + 2 + 2 + 2
	m.viewport.Width = width
	m.viewport.Height = max(height-chrome, 3)
	m.refreshResults()
}

func (m *Model) refreshResults() {
	if m.results == nil {
		return
	}
	m.viewport.SetContent(m.renderer.RenderText(*m.results))
}

// View renders the screen
func (m Model) View() string {
	if m.alert != "" {
		return m.alertView()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title) + "\n")
	b.WriteString(m.styles.Muted.Render("Paste text and verify its factual claims.") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(m.controlsView() + "\n")

	if m.results != nil {
		b.WriteString("\n" + m.styles.Title.Render(resultsTitle) + "\n")
		b.WriteString(m.viewport.View() + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) controlsView() string {
	if m.state == controller.Loading {
		return fmt.Sprintf("%s %s", m.spinner.View(), loadingText)
	}
	submit := m.styles.Label.Render("[ Check Facts ]")
	clearBtn := m.styles.Muted.Render("[ Clear ]")
	return submit + "  " + clearBtn
}

func (m Model) alertView() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 3).
		Render(m.alert + "\n\n" + m.styles.Muted.Render("press any key"))

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Run starts the interactive program and blocks until the user quits
func Run(ctx context.Context, checker controller.Checker, opts ...Option) error {
	m := New(ctx, checker, opts...)
	defer m.cancel()
	defer m.display.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
