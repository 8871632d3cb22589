package session

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// MemoryStore is the default in-process Store. A background sweeper
// removes sessions older than the retention window; sweeping is
// advisory cleanup and never blocks issue or verify calls for long.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	rng   *rand.Rand
	rngMu sync.Mutex

	retention     time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithRetention overrides the session retention window.
func WithRetention(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.retention = d }
}

// WithSweepInterval overrides the sweeper period.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.sweepInterval = d }
}

// WithClock injects the time source, used by tests to age sessions.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithRand injects the random source used for code generation.
func WithRand(rng *rand.Rand) MemoryOption {
	return func(s *MemoryStore) { s.rng = rng }
}

// NewMemoryStore creates an empty store with the default retention
// window and sweep interval.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions:      make(map[string]*Session),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		retention:     DefaultRetention,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates the session for identity, overwriting any live session
// for the same identity. There is no multi-session queuing.
func (s *MemoryStore) Issue(_ context.Context, identity string, kind Kind) (Session, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if identity == "" {
		return Session{}, ErrEmptyIdentity
	}

	sess := Session{
		Identity:  identity,
		Kind:      kind,
		CreatedAt: s.now(),
	}
	switch kind {
	case KindCode:
		s.rngMu.Lock()
		sess.Code = newCode(s.rng)
		s.rngMu.Unlock()
	case KindLink:
		sess.Token = newToken()
	default:
		return Session{}, ErrInvalidKind
	}

	s.mu.Lock()
	s.sessions[identity] = &sess
	s.mu.Unlock()

	return sess, nil
}

// VerifyCode checks code against the session for identity. Re-verifying
// an already verified session succeeds again.
func (s *MemoryStore) VerifyCode(_ context.Context, identity, code string) (Outcome, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[identity]
	if !ok {
		return OutcomeNoSession, nil
	}
	if sess.Kind != KindCode {
		return OutcomeWrongKind, nil
	}
	if sess.Code != code {
		return OutcomeMismatch, nil
	}

	sess.Verified = true
	return OutcomeSuccess, nil
}

// VerifyToken scans live sessions for a token match. Scan order is
// unspecified; tokens are globally unique in practice.
func (s *MemoryStore) VerifyToken(_ context.Context, token string) (Outcome, error) {
	if token == "" {
		return OutcomeNotFound, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.Kind == KindLink && sess.Token == token {
			sess.Verified = true
			return OutcomeSuccess, nil
		}
	}
	return OutcomeNotFound, nil
}

// Status reports the verified flag and kind for identity.
func (s *MemoryStore) Status(_ context.Context, identity string) (Status, bool, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[identity]
	if !ok {
		return Status{}, false, nil
	}
	return Status{Verified: sess.Verified, Kind: sess.Kind}, true, nil
}

// Sweep removes every session whose age exceeds the retention window,
// verified or not, and returns the number removed.
func (s *MemoryStore) Sweep() int {
	cutoff := s.now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for identity, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, identity)
			removed++
		}
	}
	return removed
}

// StartSweeper runs the periodic sweep until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
