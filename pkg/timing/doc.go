// Package timing derives humanized delay values for automated browser
// actions. A Scheduler maps an operating mode (stealth or speed) and an
// action category to a millisecond delay; Sleep suspends the caller
// cooperatively for a derived value.
package timing
