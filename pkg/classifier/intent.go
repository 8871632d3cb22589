package classifier

import (
	"strings"

	"github.com/gobwas/glob"
)

// Intent is the classified purpose of a submitted form.
type Intent string

const (
	// IntentSignin marks a form that authenticates an existing account
	IntentSignin Intent = "signin"

	// IntentSignup marks a form that creates a new account
	IntentSignup Intent = "signup"

	// IntentUnknown marks a form whose purpose could not be determined
	IntentUnknown Intent = "unknown"
)

// Signup patterns are evaluated before signin patterns: signup phrasing
// is the more specific signal, and ambiguous pages ("Sign in or create
// an account") routinely contain both.
var signupPatterns = compilePatterns(
	"*sign up*",
	"*signup*",
	"*create account*",
	"*create an account*",
	"*create your account*",
	"*register*",
	"*get started*",
	"*join now*",
)

var signinPatterns = compilePatterns(
	"*sign in*",
	"*signin*",
	"*log in*",
	"*login*",
	"*welcome back*",
	"*continue with email*",
	"*send magic link*",
	"*email me a link*",
)

func compilePatterns(patterns ...string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		globs = append(globs, glob.MustCompile(p))
	}
	return globs
}

func matchesAny(globs []glob.Glob, text string) bool {
	for _, g := range globs {
		if g.Match(text) {
			return true
		}
	}
	return false
}

// ClassifyFormIntent classifies a form from its attribute string
// (action, id, class, name) and its visible text. Matching is
// case-insensitive; signup takes precedence over signin.
func ClassifyFormIntent(formAttributes, visibleText string) Intent {
	haystack := strings.ToLower(formAttributes + " " + visibleText)

	if matchesAny(signupPatterns, haystack) {
		return IntentSignup
	}
	if matchesAny(signinPatterns, haystack) {
		return IntentSignin
	}
	return IntentUnknown
}
