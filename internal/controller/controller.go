// Package controller wires user actions to a single fact-check request and
// drives the display through the Idle/Loading cycle.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/view"
	"go.uber.org/zap"
)

// EmptyInputMessage is the warning shown when submit is triggered with no text
const EmptyInputMessage = "Please enter some text to fact-check!"

var (
	// ErrEmptyInput is returned when the trimmed input is empty; no request is made
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned when submit is triggered while a request is in flight
	ErrBusy = errors.New("request already in progress")
	// ErrStale is returned when a response arrived after a newer submit or clear
	ErrStale = errors.New("stale response discarded")
)

// Checker sends text to a fact-check service
type Checker interface {
	Check(ctx context.Context, text string) (*model.FactCheckResponse, error)
}

// Controller owns the request/render cycle for one display.
// Every Submit and Clear starts a new generation; a response is rendered
// only if its generation is still current when it arrives.
type Controller struct {
	checker Checker
	display Display
	logger  *zap.Logger

	mu         sync.Mutex
	state      UIState
	generation uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the diagnostic logger (defaults to a no-op logger)
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller in the Idle state and applies it to the display
func New(checker Checker, display Display, opts ...Option) *Controller {
	c := &Controller{
		checker: checker,
		display: display,
		logger:  zap.NewNop(),
		state:   Idle,
	}
	for _, o := range opts {
		o(c)
	}

	c.display.ShowState(Idle)
	return c
}

// State returns the current UIState
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the current request generation
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Submit trims the input and, if anything is left, sends exactly one request
// and renders the outcome. It blocks until the response has been handled.
//
// The display is returned to Idle on every exit path once Loading has been
// entered. A failed request renders a single error entry; the underlying
// error goes to the logger and is also returned to the caller.
func (c *Controller) Submit(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		c.display.Alert(EmptyInputMessage)
		return ErrEmptyInput
	}

	gen, release, err := c.beginLoading()
	if err != nil {
		return err
	}
	defer release()

	c.logger.Debug("fact-check request",
		zap.Uint64("generation", gen),
		zap.Int("chars", len(text)))

	resp, checkErr := c.checker.Check(ctx, text)

	var res view.Results
	if checkErr != nil {
		c.logger.Error("fact-check failed",
			zap.Uint64("generation", gen),
			zap.Error(checkErr))
		res = view.Failure(view.FailureMessage)
	} else {
		res = view.Build(resp)
		c.logger.Debug("fact-check response",
			zap.Uint64("generation", gen),
			zap.Int("claims", len(res.Entries)))
	}

	if !c.render(gen, res) {
		c.logger.Debug("discarding stale response", zap.Uint64("generation", gen))
		return ErrStale
	}

	return checkErr
}

// Clear empties the input, hides results and refocuses the input.
// An in-flight request is not cancelled, but its response will be discarded.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.display.SetInput("")
	c.display.HideResults()
	c.display.FocusInput()
}

// beginLoading enters Loading and returns the release func that restores Idle.
// release is safe to call more than once.
func (c *Controller) beginLoading() (uint64, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Loading {
		return 0, nil, ErrBusy
	}

	c.state = Loading
	c.generation++
	gen := c.generation
	c.display.ShowState(Loading)

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.state = Idle
			c.display.ShowState(Idle)
		})
	}

	return gen, release, nil
}

// render shows res if gen is still the current generation
func (c *Controller) render(gen uint64, res view.Results) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}
	c.display.ShowResults(res)
	return true
}
