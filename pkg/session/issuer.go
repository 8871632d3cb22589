package session

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"github.com/nightjar-dev/nightjar/pkg/logging"
)

// Mailer delivers the secret to the identity out of band. Transport is
// the collaborator's concern; this package only decides which secret
// to embed.
type Mailer interface {
	Send(ctx context.Context, to, subject, content string) error
}

// Issuer starts a passwordless attempt: it makes the unbiased random
// choice between code and link, issues the session through the store,
// and hands the secret to the mailer. A delivery failure propagates as
// a single error with no retry; retry policy belongs to the caller.
type Issuer struct {
	store       Store
	mailer      Mailer
	rng         *rand.Rand
	subject     string
	linkBaseURL string
	log         *logging.Logger
}

// IssuerOption customizes an Issuer.
type IssuerOption func(*Issuer)

// WithSubject overrides the mail subject line.
func WithSubject(subject string) IssuerOption {
	return func(i *Issuer) { i.subject = subject }
}

// WithLinkBaseURL sets the base URL embedded in magic links.
func WithLinkBaseURL(base string) IssuerOption {
	return func(i *Issuer) { i.linkBaseURL = base }
}

// WithIssuerRand injects the random source for the code/link choice.
func WithIssuerRand(rng *rand.Rand) IssuerOption {
	return func(i *Issuer) { i.rng = rng }
}

// WithIssuerLogger attaches a diagnostic logger.
func WithIssuerLogger(log *logging.Logger) IssuerOption {
	return func(i *Issuer) { i.log = log }
}

// NewIssuer creates an issuer over the given store and mailer.
func NewIssuer(store Store, mailer Mailer, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		store:       store,
		mailer:      mailer,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		subject:     "Your sign-in details",
		linkBaseURL: "http://localhost:8080",
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Request issues a new session for identity and mails its secret.
func (i *Issuer) Request(ctx context.Context, identity string) (Session, error) {
	kind := KindCode
	if i.rng.Intn(2) == 1 {
		kind = KindLink
	}

	sess, err := i.store.Issue(ctx, identity, kind)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	var content string
	switch sess.Kind {
	case KindCode:
		content = fmt.Sprintf("Your sign-in code is %s. It expires in 15 minutes.", sess.Code)
	case KindLink:
		content = fmt.Sprintf("Open this link to sign in: %s/auth/verify?token=%s",
			i.linkBaseURL, url.QueryEscape(sess.Token))
	}

	if err := i.mailer.Send(ctx, sess.Identity, i.subject, content); err != nil {
		if i.log != nil {
			i.log.Errorf("mail delivery to %s failed: %v", sess.Identity, err)
		}
		return Session{}, fmt.Errorf("send sign-in mail: %w", err)
	}

	if i.log != nil {
		i.log.Infof("issued %s session for %s", sess.Kind, sess.Identity)
	}
	return sess, nil
}

// LogMailer is a development Mailer that writes the would-be mail to
// the log instead of sending it.
type LogMailer struct {
	Log *logging.Logger
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, to, subject, content string) error {
	if m.Log != nil {
		m.Log.Infof("mail to=%s subject=%q content=%q", to, subject, content)
	}
	return nil
}
