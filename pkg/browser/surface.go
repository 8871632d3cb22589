package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/nightjar-dev/nightjar/pkg/watch"
)

// Default values for surface options
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// notificationSelector covers the elements sites use for transient
// confirmation messages.
const notificationSelector = `[role="alert"], [role="status"], .toast, .notification, .alert, .flash`

// Options configures a browser surface.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for page operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Surface is a live Chromium page implementing watch.PageSurface.
// The injected observer script reports form submissions and batched
// subtree mutations back through exposed bindings.
type Surface struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	mu         sync.Mutex
	submitFn   func(watch.SubmitEvent)
	mutationFn func()
}

// Launch installs and starts Playwright, opens a Chromium page, and
// wires the observer bindings. The caller owns the surface and must
// Close it.
func Launch(opts Options) (*Surface, error) {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	// Discard driver output so it cannot interleave with CLI output.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	s := &Surface{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
	}
	if err := s.wireObservers(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// wireObservers exposes the Go-side bindings and registers the init
// script so every navigated page reports submissions and mutations.
func (s *Surface) wireObservers() error {
	err := s.page.ExposeBinding("__nightjarSubmit", func(source *playwright.BindingSource, args ...interface{}) interface{} {
		if len(args) < 2 {
			return nil
		}
		formHTML, _ := args[0].(string)
		formText, _ := args[1].(string)

		s.mu.Lock()
		fn := s.submitFn
		s.mu.Unlock()
		if fn != nil {
			fn(watch.SubmitEvent{FormHTML: formHTML, FormText: formText})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to expose submit binding: %w", err)
	}

	err = s.page.ExposeBinding("__nightjarMutation", func(source *playwright.BindingSource, args ...interface{}) interface{} {
		s.mu.Lock()
		fn := s.mutationFn
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to expose mutation binding: %w", err)
	}

	if err := s.page.AddInitScript(playwright.Script{Content: playwright.String(observerScript)}); err != nil {
		return fmt.Errorf("failed to register observer script: %w", err)
	}
	return nil
}

// Navigate loads the given URL and waits for DOM content.
func (s *Surface) Navigate(url string) error {
	waitUntil := playwright.WaitUntilStateDomcontentloaded
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{WaitUntil: waitUntil}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// URL returns the current page URL.
func (s *Surface) URL() string {
	return s.page.URL()
}

// OnFormSubmit registers the form submission handler.
// Registration is a single slot; registering again replaces it.
func (s *Surface) OnFormSubmit(fn func(watch.SubmitEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitFn = fn
}

// OnMutation registers the mutation batch handler.
func (s *Surface) OnMutation(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutationFn = fn
}

// Click clicks the first element matching selector.
func (s *Surface) Click(selector string) error {
	if err := s.page.Click(selector); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// TypeCharacter sends a keystroke sequence to the element matching
// selector. The driver calls this once per character so it can pace
// the keystrokes itself.
func (s *Surface) TypeCharacter(selector, ch string) error {
	if err := s.page.Type(selector, ch); err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return nil
}

// PageText returns the visible text of the page body.
func (s *Surface) PageText() (string, error) {
	body, err := s.page.QuerySelector("body")
	if err != nil {
		return "", fmt.Errorf("body query failed: %w", err)
	}
	if body == nil {
		return "", nil
	}
	text, err := body.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

// NotificationTexts returns the text of alert/notification/toast
// elements currently on the page.
func (s *Surface) NotificationTexts() ([]string, error) {
	elements, err := s.page.QuerySelectorAll(notificationSelector)
	if err != nil {
		return nil, fmt.Errorf("notification query failed: %w", err)
	}

	var texts []string
	for _, element := range elements {
		text, err := element.TextContent()
		if err != nil {
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// Close tears down the page, context, browser, and Playwright driver.
func (s *Surface) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.context != nil {
		_ = s.context.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
	}
	return nil
}
