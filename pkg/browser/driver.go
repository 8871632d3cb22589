package browser

import (
	"context"
	"fmt"

	"github.com/nightjar-dev/nightjar/pkg/timing"
)

// Actions is the subset of page interaction the driver needs. Surface
// satisfies it; tests use a fake.
type Actions interface {
	Click(selector string) error
	TypeCharacter(selector, ch string) error
}

// Driver performs page interactions paced by the timing scheduler, so
// automated input lands at a human cadence in stealth mode and with
// minimal overhead in speed mode.
type Driver struct {
	actions Actions
	sched   *timing.Scheduler
}

// NewDriver creates a driver over the given page actions.
func NewDriver(actions Actions, sched *timing.Scheduler) *Driver {
	return &Driver{actions: actions, sched: sched}
}

// TypeInto types text into the element one character at a time, pausing
// between keystrokes per the typing delay.
func (d *Driver) TypeInto(ctx context.Context, selector, text string) error {
	for _, r := range text {
		if err := d.actions.TypeCharacter(selector, string(r)); err != nil {
			return fmt.Errorf("typing into %s: %w", selector, err)
		}
		if err := timing.Sleep(ctx, d.sched.TypingDelay()); err != nil {
			return err
		}
	}
	return nil
}

// Click pauses for the pointer movement delay and clicks the element.
func (d *Driver) Click(ctx context.Context, selector string) error {
	if err := timing.Sleep(ctx, d.sched.MouseMoveDelay()); err != nil {
		return err
	}
	if err := d.actions.Click(selector); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// SubmitForm pauses for the inter-command delay and clicks the submit
// control.
func (d *Driver) SubmitForm(ctx context.Context, selector string) error {
	if err := timing.Sleep(ctx, d.sched.ModeDelay()); err != nil {
		return err
	}
	return d.Click(ctx, selector)
}

// DismissModal waits out the modal settle delay and clicks the dismiss
// control. Modals keep a floor delay even in speed mode.
func (d *Driver) DismissModal(ctx context.Context, selector string) error {
	if err := timing.Sleep(ctx, d.sched.ModalInteractionDelay()); err != nil {
		return err
	}
	if err := d.actions.Click(selector); err != nil {
		return fmt.Errorf("dismissing modal via %s: %w", selector, err)
	}
	return nil
}

// Pace inserts an adaptive pause sized to the complexity of the
// upcoming action.
func (d *Driver) Pace(ctx context.Context, c timing.Complexity) error {
	return timing.Sleep(ctx, d.sched.AdaptiveDelay(c))
}

// WaitFor polls cond up to maxAttempts times with progressively longer
// pauses. It returns nil as soon as cond reports true, and an error
// when cond fails or the attempts are exhausted.
func (d *Driver) WaitFor(ctx context.Context, maxAttempts int, cond func() (bool, error)) error {
	for i := 0; i < maxAttempts; i++ {
		ok, err := cond()
		if err != nil {
			return fmt.Errorf("condition check failed: %w", err)
		}
		if ok {
			return nil
		}
		if err := timing.Sleep(ctx, d.sched.ProgressiveDelay(i, maxAttempts)); err != nil {
			return err
		}
	}
	return fmt.Errorf("condition not met after %d attempts", maxAttempts)
}
