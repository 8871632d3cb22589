// Package classifier provides stateless text matching over form
// snapshots and page content: form intent classification, identity
// (email) extraction, and confirmation-signal detection. Every
// function is pure with respect to the snapshot passed in.
package classifier
