package browser

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightjar-dev/nightjar/pkg/timing"
)

type fakeActions struct {
	mu      sync.Mutex
	clicks  []string
	typed   map[string]string
	failure error
}

func newFakeActions() *fakeActions {
	return &fakeActions{typed: make(map[string]string)}
}

func (f *fakeActions) Click(selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return f.failure
	}
	f.clicks = append(f.clicks, selector)
	return nil
}

func (f *fakeActions) TypeCharacter(selector, ch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return f.failure
	}
	f.typed[selector] += ch
	return nil
}

func speedDriver(actions Actions) *Driver {
	cfg := timing.ModeConfig{Mode: timing.ModeSpeed}
	return NewDriver(actions, timing.NewScheduler(cfg, nil))
}

func TestTypeInto_TypesEveryCharacter(t *testing.T) {
	actions := newFakeActions()
	d := speedDriver(actions)

	require.NoError(t, d.TypeInto(context.Background(), "#email", "a@x.com"))
	assert.Equal(t, "a@x.com", actions.typed["#email"])
}

func TestTypeInto_PropagatesFailure(t *testing.T) {
	actions := newFakeActions()
	actions.failure = errors.New("element detached")
	d := speedDriver(actions)

	err := d.TypeInto(context.Background(), "#email", "a@x.com")
	assert.ErrorContains(t, err, "element detached")
}

func TestClickAndSubmitForm(t *testing.T) {
	actions := newFakeActions()
	d := speedDriver(actions)

	require.NoError(t, d.Click(context.Background(), "#next"))
	require.NoError(t, d.SubmitForm(context.Background(), "button[type=submit]"))
	assert.Equal(t, []string{"#next", "button[type=submit]"}, actions.clicks)
}

func TestDismissModal(t *testing.T) {
	actions := newFakeActions()
	d := speedDriver(actions)

	require.NoError(t, d.DismissModal(context.Background(), ".modal-close"))
	assert.Equal(t, []string{".modal-close"}, actions.clicks)
}

func TestClick_CancelledContext(t *testing.T) {
	actions := newFakeActions()
	cfg := timing.ModeConfig{
		Mode:    timing.ModeStealth,
		Stealth: timing.StealthConfig{MouseMoveDelay: 60_000},
	}
	d := NewDriver(actions, timing.NewScheduler(cfg, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Click(ctx, "#next")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, actions.clicks)
}

func TestWaitFor_SucceedsOnLaterAttempt(t *testing.T) {
	d := speedDriver(newFakeActions())

	calls := 0
	err := d.WaitFor(context.Background(), 10, func() (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitFor_ExhaustsAttempts(t *testing.T) {
	d := speedDriver(newFakeActions())

	err := d.WaitFor(context.Background(), 4, func() (bool, error) {
		return false, nil
	})
	assert.ErrorContains(t, err, "after 4 attempts")
}

func TestWaitFor_ConditionError(t *testing.T) {
	d := speedDriver(newFakeActions())

	boom := errors.New("page gone")
	err := d.WaitFor(context.Background(), 4, func() (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}
