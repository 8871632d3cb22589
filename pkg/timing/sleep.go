package timing

import (
	"context"
	"time"
)

// Sleep suspends the caller for at least ms milliseconds, returning
// early with the context error if ctx is cancelled first. Non-positive
// values return immediately.
func Sleep(ctx context.Context, ms int) error {
	if ms <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
