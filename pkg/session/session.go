package session

import (
	"context"
	"errors"
	"time"
)

// Kind distinguishes how a pending attempt is completed.
type Kind string

const (
	// KindCode sessions are verified with a 5-digit numeric code
	KindCode Kind = "code"

	// KindLink sessions are verified by opening an emailed magic link
	KindLink Kind = "link"
)

// Session is the state of one pending authentication attempt. Exactly
// one of Code and Token is set, fixed at creation by Kind.
type Session struct {
	Identity  string    `json:"identity"`
	Kind      Kind      `json:"kind"`
	Code      string    `json:"code,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Verified  bool      `json:"verified"`
}

// Status is the externally visible state of a session.
type Status struct {
	Verified bool
	Kind     Kind
}

// Outcome is the typed result of a verification call. Verification
// failures are outcomes for the caller to present, not faults.
type Outcome int

const (
	// OutcomeSuccess means the supplied secret matched
	OutcomeSuccess Outcome = iota

	// OutcomeNoSession means no live session exists for the identity
	OutcomeNoSession

	// OutcomeWrongKind means the session is not completed with this secret type
	OutcomeWrongKind

	// OutcomeMismatch means the supplied code did not match
	OutcomeMismatch

	// OutcomeNotFound means no live session carries the supplied token
	OutcomeNotFound
)

// String returns a short label for logging and CLI output.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoSession:
		return "no_session"
	case OutcomeWrongKind:
		return "wrong_kind"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Store is the authoritative state for pending attempts. Issue
// overwrites any live session for the same identity; verification
// flips Verified true monotonically and idempotently.
type Store interface {
	// Issue creates (or replaces) the session for identity.
	Issue(ctx context.Context, identity string, kind Kind) (Session, error)

	// VerifyCode checks a 5-digit code against the identity's session.
	VerifyCode(ctx context.Context, identity, code string) (Outcome, error)

	// VerifyToken checks a magic-link token against all live sessions.
	// The token alone disambiguates; no identity is supplied.
	VerifyToken(ctx context.Context, token string) (Outcome, error)

	// Status reports the verified flag and kind for identity.
	// ok is false when no live session exists.
	Status(ctx context.Context, identity string) (status Status, ok bool, err error)
}

const (
	// DefaultRetention is how long a session lives, verified or not.
	DefaultRetention = 15 * time.Minute

	// DefaultSweepInterval is how often expired sessions are removed.
	DefaultSweepInterval = 60 * time.Second
)

var (
	// ErrEmptyIdentity is returned when Issue is called without an identity.
	ErrEmptyIdentity = errors.New("session identity is empty")

	// ErrInvalidKind is returned when Issue is called with an unknown kind.
	ErrInvalidKind = errors.New("invalid session kind")

	// ErrStoreUnavailable wraps backend failures from persistent stores.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
