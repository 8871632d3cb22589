// Package watch bridges asynchronous page events into a single
// deterministic detection: it observes form submissions on a page,
// keeps the one that matches the configured identity, and correlates
// it with a later confirmation signal inside a bounded window.
package watch
