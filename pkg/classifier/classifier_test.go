package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFormIntent(t *testing.T) {
	tests := []struct {
		name       string
		attributes string
		text       string
		expected   Intent
	}{
		{
			name:     "signin text",
			text:     "Sign in to your account",
			expected: IntentSignin,
		},
		{
			name:     "login text",
			text:     "Log in with your email",
			expected: IntentSignin,
		},
		{
			name:     "signup text",
			text:     "Create an account to get started",
			expected: IntentSignup,
		},
		{
			name:     "register text",
			text:     "Register for free",
			expected: IntentSignup,
		},
		{
			name:       "attributes alone are enough",
			attributes: "action=/auth/login id=login-form",
			expected:   IntentSignin,
		},
		{
			name:       "signup attribute",
			attributes: "action=/signup class=auth",
			expected:   IntentSignup,
		},
		{
			name:     "ambiguous text prefers signup",
			text:     "Sign in or sign up to continue",
			expected: IntentSignup,
		},
		{
			name:     "case insensitive",
			text:     "WELCOME BACK",
			expected: IntentSignin,
		},
		{
			name:     "magic link phrasing is a signin",
			text:     "Send magic link",
			expected: IntentSignin,
		},
		{
			name:     "unrelated form",
			text:     "Search our catalog",
			expected: IntentUnknown,
		},
		{
			name:     "empty input",
			expected: IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyFormIntent(tt.attributes, tt.text))
		})
	}
}

func TestExtractIdentity(t *testing.T) {
	tests := []struct {
		name     string
		formHTML string
		expected string
		found    bool
	}{
		{
			name:     "typed email field",
			formHTML: `<form><input type="email" name="user" value="User@Example.com"></form>`,
			expected: "user@example.com",
			found:    true,
		},
		{
			name:     "typed email field wins over fallback",
			formHTML: `<form><input type="text" name="email_backup" value="wrong@example.com"><input type="email" value="right@example.com"></form>`,
			expected: "right@example.com",
			found:    true,
		},
		{
			name:     "fallback on name",
			formHTML: `<form><input type="text" name="work-email" value="a@x.com"></form>`,
			expected: "a@x.com",
			found:    true,
		},
		{
			name:     "fallback on id",
			formHTML: `<form><input type="text" id="Email" value="b@x.com"></form>`,
			expected: "b@x.com",
			found:    true,
		},
		{
			name:     "fallback on placeholder",
			formHTML: `<form><input type="text" placeholder="Your Email Address" value="c@x.com"></form>`,
			expected: "c@x.com",
			found:    true,
		},
		{
			name:     "trims and lowercases",
			formHTML: `<form><input type="email" value="  Mixed@Case.COM  "></form>`,
			expected: "mixed@case.com",
			found:    true,
		},
		{
			name:     "no email field",
			formHTML: `<form><input type="text" name="query" value="shoes"></form>`,
			found:    false,
		},
		{
			name:     "email field without a value",
			formHTML: `<form><input type="email" name="email"></form>`,
			found:    false,
		},
		{
			name:     "empty form",
			formHTML: `<form></form>`,
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, ok := ExtractIdentity(tt.formHTML)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, identity)
		})
	}
}

func TestFormAttributeString(t *testing.T) {
	attrs := FormAttributeString(`<form action="/auth/login" id="signin" class="auth-form"></form>`)
	assert.Contains(t, attrs, "action=/auth/login")
	assert.Contains(t, attrs, "id=signin")
	assert.Contains(t, attrs, "class=auth-form")

	assert.Empty(t, FormAttributeString(`<div>no form here</div>`))
}

func TestDetectConfirmationSignal(t *testing.T) {
	tests := []struct {
		name          string
		pageText      string
		notifications []string
		expected      bool
	}{
		{
			name:     "page text match",
			pageText: "Check your email for a sign-in link.",
			expected: true,
		},
		{
			name:     "we sent phrasing",
			pageText: "We sent a login link to your inbox",
			expected: true,
		},
		{
			name:          "notification node match only",
			pageText:      "Welcome to the app",
			notifications: []string{"Magic link sent!"},
			expected:      true,
		},
		{
			name:          "any notification node is sufficient",
			pageText:      "",
			notifications: []string{"saved", "A verification code sent to your email"},
			expected:      true,
		},
		{
			name:     "case insensitive",
			pageText: "CHECK YOUR INBOX",
			expected: true,
		},
		{
			name:          "no match anywhere",
			pageText:      "Enter your email to continue",
			notifications: []string{"autosave complete"},
			expected:      false,
		},
		{
			name:     "empty inputs",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectConfirmationSignal(tt.pageText, tt.notifications))
		})
	}
}
