// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jeranaias/senti-tui/internal/analyzer"
)

// User-facing messages.
const (
	MsgEmptyInput = "Please enter some text to analyze"
	MsgFailure    = "Error connecting to the server. Make sure the backend is running."
)

// =============================================================================
// CALLS AND OUTCOMES
// =============================================================================

// Call is one outbound analysis request issued by Submit.
type Call struct {
	ID       uint64
	Text     string
	Started  time.Time
	analyzer analyzer.Analyzer
}

// Outcome is the settled result of a Call.
type Outcome struct {
	ID       uint64
	Result   *analyzer.Result
	Err      error
	Duration time.Duration
}

// Backend names the analyzer the call was issued against.
func (c *Call) Backend() string {
	if c.analyzer == nil {
		return ""
	}
	return c.analyzer.Name()
}

// Do performs the request and blocks until it settles. It is safe to run
// off the UI goroutine; it touches no Controller state.
func (c *Call) Do(ctx context.Context) Outcome {
	res, err := c.analyzer.Analyze(ctx, c.Text)
	return Outcome{
		ID:       c.ID,
		Result:   res,
		Err:      err,
		Duration: time.Since(c.Started),
	}
}

// Settlement describes an applied Outcome for SettleHook observers.
type Settlement struct {
	Call    *Call
	Outcome Outcome
	State   State
}

// SettleHook observes every applied settlement, for example to record history.
type SettleHook func(Settlement)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the input and the request lifecycle of one widget.
// It is not safe for concurrent use; all methods except Call.Do must run
// on the goroutine that owns the widget.
type Controller struct {
	input    Input
	state    State
	analyzer analyzer.Analyzer
	pending  *Call
	seq      uint64
	logger   *slog.Logger
	hooks    []SettleHook
	now      func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSettleHook registers an observer called after every applied settlement.
func WithSettleHook(hook SettleHook) Option {
	return func(c *Controller) {
		if hook != nil {
			c.hooks = append(c.hooks, hook)
		}
	}
}

// NewController creates a Controller in the Idle state.
func NewController(a analyzer.Analyzer, opts ...Option) *Controller {
	c := &Controller{
		state:    Idle{},
		analyzer: a,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input returns the input holder.
func (c *Controller) Input() *Input {
	return &c.input
}

// SetText replaces the input text. It never touches the request state.
func (c *Controller) SetText(text string) {
	c.input.SetText(text)
}

// Text returns the input text.
func (c *Controller) Text() string {
	return c.input.Text()
}

// State returns the current request state.
func (c *Controller) State() State {
	return c.state
}

// InFlight reports whether a request is outstanding.
func (c *Controller) InFlight() bool {
	return c.state.Kind() == KindPending
}

// Analyzer returns the analyzer used for new submissions.
func (c *Controller) Analyzer() analyzer.Analyzer {
	return c.analyzer
}

// SetAnalyzer swaps the analyzer used for subsequent submissions.
// A call already in flight keeps the analyzer it was issued with.
func (c *Controller) SetAnalyzer(a analyzer.Analyzer) {
	if a != nil {
		c.analyzer = a
	}
}

// Submit validates the input and, when it is acceptable, moves to Pending
// and returns the Call to execute. It returns false when no call must be made:
// the input was blank (state becomes Invalid) or a call is already pending
// (the submission is ignored).
func (c *Controller) Submit() (*Call, bool) {
	if c.InFlight() {
		c.logger.Debug("submit ignored while pending", "call_id", c.pending.ID)
		return nil, false
	}

	text := c.input.Text()
	if strings.TrimSpace(text) == "" {
		c.state = Invalid{Message: MsgEmptyInput}
		c.logger.Debug("submit rejected", "reason", "empty input")
		return nil, false
	}

	c.seq++
	call := &Call{
		ID:       c.seq,
		Text:     text,
		Started:  c.now(),
		analyzer: c.analyzer,
	}
	c.pending = call
	c.state = Pending{Text: text, Started: call.Started}
	c.logger.Debug("request pending", "call_id", call.ID, "backend", call.Backend(), "chars", len([]rune(text)))
	return call, true
}

// Settle applies an Outcome. Outcomes that do not belong to the pending call
// are dropped and false is returned. After an applied settlement the state
// is Succeeded or Failed, never Pending.
func (c *Controller) Settle(o Outcome) bool {
	if c.pending == nil || o.ID != c.pending.ID {
		c.logger.Debug("stale outcome dropped", "call_id", o.ID)
		return false
	}
	call := c.pending
	c.pending = nil

	switch {
	case o.Err != nil:
		c.state = Failed{Message: MsgFailure, Cause: o.Err}
		c.logger.Warn("analysis failed", "call_id", o.ID, "backend", call.Backend(), "error", o.Err)
	case o.Result == nil:
		c.state = Failed{Message: MsgFailure, Cause: analyzer.ErrInvalidResponse}
		c.logger.Warn("analysis returned no result", "call_id", o.ID, "backend", call.Backend())
	default:
		c.state = Succeeded{Text: o.Result.Text, Sentiment: o.Result.Sentiment}
		c.logger.Debug("analysis succeeded", "call_id", o.ID, "sentiment", o.Result.Sentiment, "duration", o.Duration)
	}

	s := Settlement{Call: call, Outcome: o, State: c.state}
	for _, hook := range c.hooks {
		hook(s)
	}
	return true
}

// Run is the synchronous form of Submit, Do and Settle.
// It returns the resulting state.
func (c *Controller) Run(ctx context.Context) State {
	call, ok := c.Submit()
	if !ok {
		return c.state
	}
	c.Settle(call.Do(ctx))
	return c.state
}

// Analyze replaces the input with text and runs it.
func (c *Controller) Analyze(ctx context.Context, text string) State {
	c.SetText(text)
	return c.Run(ctx)
}

// Reset returns to Idle. It is refused while a call is pending.
func (c *Controller) Reset() bool {
	if c.InFlight() {
		return false
	}
	c.state = Idle{}
	return true
}
