// Package session tracks pending passwordless authentication attempts.
// A store holds at most one live session per identity, keyed by the
// normalized email address, from issuance until verification or expiry.
// The memory store is the default backend; a Redis backend is provided
// for deployments that persist sessions across processes.
package session
