package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nightjar-dev/nightjar/pkg/classifier"
	"github.com/nightjar-dev/nightjar/pkg/logging"
	"github.com/nightjar-dev/nightjar/pkg/timing"
)

const (
	// defaultWindow bounds how long after a submission a confirmation
	// still counts. Age is evaluated at match time.
	defaultWindow = 30 * time.Second

	// defaultSettleDelayMs is the pause before the one-shot probe that
	// catches confirmation text rendered immediately after submit.
	defaultSettleDelayMs = 1200
)

// ErrIdentityNotConfigured is returned by StartMonitoring when the
// configuration source has no identity. This is a configuration
// error: it is reported once and monitoring does not start.
var ErrIdentityNotConfigured = errors.New("watch identity not configured")

// Submission records one qualifying form submission, owned by the
// engine until consumed or discarded.
type Submission struct {
	Identity   string
	Intent     classifier.Intent
	FormHandle string
	ObservedAt time.Time
}

// Detection is handed to the registered consumer exactly once per
// qualifying submission. It is never mutated after construction.
type Detection struct {
	Detected bool
	Identity string
	Intent   classifier.Intent
	Note     string
}

// Engine is a stateful per-page watcher. It holds at most one pending
// submission; a new qualifying submission replaces the prior one, and
// the pending state is cleared unconditionally after the first
// detection fires so a later mutation cannot fire a duplicate.
type Engine struct {
	surface PageSurface
	ids     IdentitySource
	log     *logging.Logger

	now      func() time.Time
	window   time.Duration
	settleMs int

	mu       sync.Mutex
	identity string
	pending  *Submission
	callback func(Detection)
	started  bool
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithEngineClock injects the time source.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithWindow overrides the correlation window.
func WithWindow(d time.Duration) EngineOption {
	return func(e *Engine) { e.window = d }
}

// WithSettleDelay overrides the settle probe delay in milliseconds.
func WithSettleDelay(ms int) EngineOption {
	return func(e *Engine) { e.settleMs = ms }
}

// WithEngineLogger attaches a diagnostic logger.
func WithEngineLogger(log *logging.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates a watcher over the given page surface and
// configuration source. The caller that assembles the automation
// pipeline owns the instance; there is no process-wide singleton.
func NewEngine(surface PageSurface, ids IdentitySource, opts ...EngineOption) *Engine {
	e := &Engine{
		surface:  surface,
		ids:      ids,
		now:      time.Now,
		window:   defaultWindow,
		settleMs: defaultSettleDelayMs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterCallback sets the detection consumer. Registration is a
// single slot: registering again replaces the previous consumer.
func (e *Engine) RegisterCallback(fn func(Detection)) {
	e.mu.Lock()
	e.callback = fn
	e.mu.Unlock()
}

// StartMonitoring loads the configured identity and hooks the page
// surface. With no identity configured it refuses to start.
func (e *Engine) StartMonitoring(ctx context.Context) error {
	raw, err := e.ids.Identity()
	if err != nil {
		return fmt.Errorf("read configured identity: %w", err)
	}
	identity := classifier.NormalizeIdentity(raw)
	if identity == "" {
		if e.log != nil {
			e.log.Errorf("monitoring not started: no identity configured")
		}
		return ErrIdentityNotConfigured
	}

	e.mu.Lock()
	e.identity = identity
	alreadyStarted := e.started
	e.started = true
	e.mu.Unlock()

	if alreadyStarted {
		return nil
	}

	e.surface.OnFormSubmit(func(ev SubmitEvent) {
		e.handleSubmit(ctx, ev)
	})
	e.surface.OnMutation(func() {
		e.checkConfirmation()
	})

	if e.log != nil {
		e.log.Infof("monitoring started for %s", identity)
	}
	return nil
}

// RefreshIdentity re-reads the identity from the configuration
// source. A pending submission captured under the old identity is not
// retroactively validated.
func (e *Engine) RefreshIdentity() error {
	raw, err := e.ids.Identity()
	if err != nil {
		return fmt.Errorf("read configured identity: %w", err)
	}
	identity := classifier.NormalizeIdentity(raw)
	if identity == "" {
		return ErrIdentityNotConfigured
	}

	e.mu.Lock()
	e.identity = identity
	e.mu.Unlock()
	return nil
}

// handleSubmit classifies a submission and records it as pending when
// it carries the configured identity. Forms without an identity field
// and mismatched identities are routine, not errors.
func (e *Engine) handleSubmit(ctx context.Context, ev SubmitEvent) {
	identity, ok := classifier.ExtractIdentity(ev.FormHTML)
	if !ok {
		e.debugf("ignoring submission without identity field")
		return
	}

	e.mu.Lock()
	configured := e.identity
	e.mu.Unlock()

	if identity != configured {
		e.debugf("ignoring submission for %s (watching %s)", identity, configured)
		return
	}

	handle := classifier.FormAttributeString(ev.FormHTML)
	sub := &Submission{
		Identity:   identity,
		Intent:     classifier.ClassifyFormIntent(handle, ev.FormText),
		FormHandle: handle,
		ObservedAt: e.now(),
	}

	e.mu.Lock()
	e.pending = sub
	e.mu.Unlock()

	e.debugf("pending %s submission for %s", sub.Intent, sub.Identity)

	// One-shot settle probe. The pending state may be gone by the
	// time it fires; checkConfirmation tolerates that.
	go func() {
		if err := timing.Sleep(ctx, e.settleMs); err != nil {
			return
		}
		e.checkConfirmation()
	}()
}

// checkConfirmation re-runs confirmation detection against the current
// page. Called from the settle probe and from every mutation batch.
func (e *Engine) checkConfirmation() {
	e.mu.Lock()
	pending := e.pending
	e.mu.Unlock()
	if pending == nil {
		return
	}

	pageText, err := e.surface.PageText()
	if err != nil {
		e.debugf("page text snapshot failed: %v", err)
	}
	notifications, err := e.surface.NotificationTexts()
	if err != nil {
		e.debugf("notification snapshot failed: %v", err)
	}

	if !classifier.DetectConfirmationSignal(pageText, notifications) {
		return
	}

	e.mu.Lock()
	if e.pending != pending {
		// Consumed by a racing probe or superseded meanwhile.
		e.mu.Unlock()
		return
	}

	// The recency guard takes precedence over match success.
	if e.now().Sub(pending.ObservedAt) > e.window {
		e.pending = nil
		e.mu.Unlock()
		e.debugf("confirmation for %s arrived after the window, discarded", pending.Identity)
		return
	}

	intent := pending.Intent
	if intent != classifier.IntentSignin && intent != classifier.IntentSignup {
		intent = classifier.IntentSignin
	}
	callback := e.callback
	e.pending = nil
	e.mu.Unlock()

	if callback == nil {
		return
	}
	callback(Detection{
		Detected: true,
		Identity: pending.Identity,
		Intent:   intent,
		Note:     "confirmation observed",
	})
}

func (e *Engine) debugf(format string, v ...interface{}) {
	if e.log != nil {
		e.log.Debugf(format, v...)
	}
}
