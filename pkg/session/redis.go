package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "njs:sess:"
	tokenKeyPrefix   = "njs:tok:"
)

// RedisStore is a Store backed by Redis, for deployments that keep
// pending sessions across process restarts. Expiry is enforced by key
// TTLs instead of a sweeper goroutine; the observable behavior is the
// same: a session older than the retention window is gone regardless
// of its verified state.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
	rng       *rand.Rand
}

// RedisOption customizes a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisRetention overrides the session retention window.
func WithRedisRetention(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.retention = d }
}

// WithRedisRand injects the random source used for code generation.
func WithRedisRand(rng *rand.Rand) RedisOption {
	return func(s *RedisStore) { s.rng = rng }
}

// NewRedisStore creates a Store on top of an existing Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		retention: DefaultRetention,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionKey(identity string) string { return sessionKeyPrefix + identity }
func tokenKey(token string) string      { return tokenKeyPrefix + token }

// Issue creates the session for identity, overwriting any live session
// and retiring the replaced session's token index.
func (s *RedisStore) Issue(ctx context.Context, identity string, kind Kind) (Session, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if identity == "" {
		return Session{}, ErrEmptyIdentity
	}

	sess := Session{
		Identity:  identity,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	switch kind {
	case KindCode:
		sess.Code = newCode(s.rng)
	case KindLink:
		sess.Token = newToken()
	default:
		return Session{}, ErrInvalidKind
	}

	prior, err := s.load(ctx, identity)
	if err != nil && !errors.Is(err, redis.Nil) {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	encoded, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prior != nil && prior.Token != "" {
			pipe.Del(ctx, tokenKey(prior.Token))
		}
		pipe.Set(ctx, sessionKey(identity), encoded, s.retention)
		if sess.Token != "" {
			pipe.Set(ctx, tokenKey(sess.Token), identity, s.retention)
		}
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return sess, nil
}

// VerifyCode checks code against the identity's session.
func (s *RedisStore) VerifyCode(ctx context.Context, identity, code string) (Outcome, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))

	sess, err := s.load(ctx, identity)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return OutcomeNoSession, nil
		}
		return OutcomeNoSession, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if sess.Kind != KindCode {
		return OutcomeWrongKind, nil
	}
	if sess.Code != code {
		return OutcomeMismatch, nil
	}

	if err := s.markVerified(ctx, sess); err != nil {
		return OutcomeSuccess, err
	}
	return OutcomeSuccess, nil
}

// VerifyToken resolves the token through its index key and flips the
// matching session verified.
func (s *RedisStore) VerifyToken(ctx context.Context, token string) (Outcome, error) {
	if token == "" {
		return OutcomeNotFound, nil
	}

	identity, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return OutcomeNotFound, nil
		}
		return OutcomeNotFound, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sess, err := s.load(ctx, identity)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Session expired between index lookup and load.
			return OutcomeNotFound, nil
		}
		return OutcomeNotFound, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if sess.Kind != KindLink || sess.Token != token {
		// Stale index entry from a superseded session.
		return OutcomeNotFound, nil
	}

	if err := s.markVerified(ctx, sess); err != nil {
		return OutcomeSuccess, err
	}
	return OutcomeSuccess, nil
}

// Status reports the verified flag and kind for identity.
func (s *RedisStore) Status(ctx context.Context, identity string) (Status, bool, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))

	sess, err := s.load(ctx, identity)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Status{}, false, nil
		}
		return Status{}, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Status{Verified: sess.Verified, Kind: sess.Kind}, true, nil
}

func (s *RedisStore) load(ctx context.Context, identity string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(identity)).Bytes()
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// markVerified rewrites the session with Verified set, keeping the
// remaining TTL so verification never extends a session's life.
func (s *RedisStore) markVerified(ctx context.Context, sess *Session) error {
	sess.Verified = true
	encoded, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(sess.Identity), encoded, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
