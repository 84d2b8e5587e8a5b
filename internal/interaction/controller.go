// Package interaction owns the user-facing analysis state: the current input,
// the in-flight request, the last outcome, and the bounded result history.
package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/veritas/internal/history"
)

// Predictor classifies text through the remote service.
type Predictor interface {
	Predict(ctx context.Context, text string) (history.AnalysisResult, error)
	BaseURL() string
}

// HistoryStore persists the history log.
type HistoryStore interface {
	Load(ctx context.Context) history.Log
	Save(ctx context.Context, log history.Log) error
	Clear(ctx context.Context) error
}

// State is an immutable snapshot of the controller for presentation.
type State struct {
	InputText  string                  `json:"input_text"`
	IsLoading  bool                    `json:"is_loading"`
	LastResult *history.AnalysisResult `json:"last_result,omitempty"`
	LastError  string                  `json:"last_error,omitempty"`
	History    history.Log             `json:"history"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used to stamp history entries.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTimeLayout overrides the layout history entry times are rendered in.
func WithTimeLayout(layout string) Option {
	return func(c *Controller) {
		if layout != "" {
			c.layout = layout
		}
	}
}

// Controller serializes user intents against the prediction service and
// mirrors completed analyses into the history store.
//
// At most one submission is in flight; a concurrent Submit fails with ErrBusy.
// Submit and ClearHistory wait for Initialize so the persisted log is never
// overwritten before it has been adopted.
type Controller struct {
	predictor Predictor
	store     HistoryStore
	logger    *slog.Logger
	now       func() time.Time
	layout    string

	inflight *semaphore.Weighted
	persist  sync.Mutex
	ready    chan struct{}
	loaded   sync.Once

	mu      sync.RWMutex
	input   string
	loading bool
	result  *history.AnalysisResult
	lastErr string
	log     history.Log
}

// New creates a Controller with an empty history. Call Initialize to adopt
// the persisted log; history mutations block until it has run.
func New(predictor Predictor, store HistoryStore, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		predictor: predictor,
		store:     store,
		logger:    logger.With("system", "interaction"),
		now:       time.Now,
		layout:    history.DefaultTimeLayout,
		inflight:  semaphore.NewWeighted(1),
		ready:     make(chan struct{}),
		log:       history.Log{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize replaces the in-memory history with the persisted log.
func (c *Controller) Initialize(ctx context.Context) {
	c.persist.Lock()
	defer c.persist.Unlock()

	log := c.store.Load(ctx)

	c.mu.Lock()
	c.log = log
	c.mu.Unlock()

	c.loaded.Do(func() { close(c.ready) })
	c.logger.Info("history loaded", "entries", len(log))
}

// Ready reports whether Initialize has adopted the persisted log.
func (c *Controller) Ready() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

func (c *Controller) awaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	}
}

// SetInput records the text currently being edited.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Submit classifies text. Blank text fails with ErrValidation without a
// network call. A failed exchange sets a user-facing error and returns an
// error matching prediction.ErrTransport. Both failures are returned as
// *Error carrying the message shown to the user. On success the result is
// prepended to the history and written through to the store; a failed write
// is logged and does not fail the submission.
//
// Submit waits for Initialize; if ctx ends first it fails with ErrNotReady
// and leaves the outcome untouched.
func (c *Controller) Submit(ctx context.Context, text string) (history.AnalysisResult, error) {
	if !c.inflight.TryAcquire(1) {
		return history.AnalysisResult{}, ErrBusy
	}
	defer c.inflight.Release(1)

	c.mu.Lock()
	c.input = text
	if strings.TrimSpace(text) == "" {
		c.lastErr = MsgEmptyInput
		c.mu.Unlock()
		return history.AnalysisResult{}, &Error{Message: MsgEmptyInput, Err: ErrValidation}
	}
	c.mu.Unlock()

	if err := c.awaitReady(ctx); err != nil {
		return history.AnalysisResult{}, fmt.Errorf("submit: %w", err)
	}

	c.mu.Lock()
	c.lastErr = ""
	c.result = nil
	c.loading = true
	c.mu.Unlock()

	result, err := c.predictor.Predict(ctx, text)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		msg := FailureMessage(c.predictor.BaseURL())
		c.lastErr = msg
		c.mu.Unlock()
		c.logger.Warn("analysis failed", "error", err)
		return history.AnalysisResult{}, &Error{Message: msg, Err: err}
	}
	c.result = &result
	entry := history.NewEntry(result, c.now(), c.layout)
	c.log = c.log.Prepend(entry)
	c.mu.Unlock()

	c.logger.Info(
		"analysis complete",
		"id", entry.ID,
		"label", result.Label,
		"percent", result.Percent(),
	)

	c.save(ctx)
	return result, nil
}

// SelectExample loads the catalog headline at index into the input and clears
// the last outcome. No request is made.
func (c *Controller) SelectExample(index int) error {
	text, err := Example(index)
	if err != nil {
		return err
	}
	c.SelectText(text)
	return nil
}

// SelectText loads text into the input and clears the last outcome.
func (c *Controller) SelectText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
	c.result = nil
	c.lastErr = ""
}

// ClearHistory empties the history and removes it from the store.
// The last result and error are kept. A failed removal is logged. Like Submit
// it waits for Initialize and fails with ErrNotReady if ctx ends first.
func (c *Controller) ClearHistory(ctx context.Context) error {
	if err := c.awaitReady(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	c.persist.Lock()
	defer c.persist.Unlock()

	c.mu.Lock()
	c.log = history.Log{}
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("history clear failed", "error", err)
		return nil
	}
	c.logger.Info("history cleared")
	return nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := State{
		InputText: c.input,
		IsLoading: c.loading,
		LastError: c.lastErr,
		History:   c.log.Clone(),
	}
	if c.result != nil {
		r := *c.result
		s.LastResult = &r
	}
	return s
}

// History returns a copy of the current log, newest first.
func (c *Controller) History() history.Log {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.Clone()
}

// BaseURL returns the classification service root.
func (c *Controller) BaseURL() string {
	return c.predictor.BaseURL()
}

func (c *Controller) save(ctx context.Context) {
	c.persist.Lock()
	defer c.persist.Unlock()

	if err := c.store.Save(ctx, c.History()); err != nil {
		c.logger.Warn("history write failed", "error", err)
	}
}
