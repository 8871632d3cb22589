// Package browser provides the Playwright-backed page surface: it
// launches a Chromium page, injects the submit and mutation observers
// the watch engine subscribes to, and exposes a humanized driver that
// paces fills and clicks through the timing scheduler.
package browser
