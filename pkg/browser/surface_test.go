package browser

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightjar-dev/nightjar/pkg/watch"
)

// Integration test: requires a Playwright-managed Chromium install.
func TestSurface_SubmitAndMutationObservers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	surface, err := Launch(Options{Headless: true})
	require.NoError(t, err)
	defer surface.Close()

	var submits atomic.Int32
	var lastHTML atomic.Value
	surface.OnFormSubmit(func(ev watch.SubmitEvent) {
		lastHTML.Store(ev.FormHTML)
		submits.Add(1)
	})

	var mutations atomic.Int32
	surface.OnMutation(func() {
		mutations.Add(1)
	})

	page := `data:text/html,<html><body>
		<form onsubmit="event.preventDefault(); document.body.insertAdjacentHTML('beforeend', '<p>Check your email</p>');">
			<input type="email" name="email">
			<button type="submit">Send magic link</button>
		</form>
	</body></html>`
	require.NoError(t, surface.Navigate(page))

	require.NoError(t, surface.page.Fill("input[type=email]", "a@x.com"))
	require.NoError(t, surface.Click("button[type=submit]"))

	require.Eventually(t, func() bool {
		return submits.Load() == 1 && mutations.Load() >= 1
	}, 10*time.Second, 100*time.Millisecond)

	// The snapshot carries the live field value.
	html, _ := lastHTML.Load().(string)
	assert.Contains(t, html, `value="a@x.com"`)

	text, err := surface.PageText()
	require.NoError(t, err)
	assert.Contains(t, text, "Check your email")
}

func TestSurface_NotificationTexts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	surface, err := Launch(Options{Headless: true})
	require.NoError(t, err)
	defer surface.Close()

	page := `data:text/html,<html><body>
		<div role="alert">Magic link sent!</div>
		<div class="toast">Saved</div>
	</body></html>`
	require.NoError(t, surface.Navigate(page))

	texts, err := surface.NotificationTexts()
	require.NoError(t, err)
	assert.Contains(t, texts, "Magic link sent!")
	assert.Contains(t, texts, "Saved")
}
