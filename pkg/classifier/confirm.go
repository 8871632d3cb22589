package classifier

import "strings"

// Confirmation indicators cover the phrasings sites use after accepting
// a passwordless request. Page-wide text and notification-node text are
// equally sufficient triggers; no confidence distinction is made
// between the two sources.
var confirmationPatterns = compilePatterns(
	"*check your email*",
	"*check your inbox*",
	"*we sent*",
	"*we've sent*",
	"*we have sent*",
	"*sent you a link*",
	"*sent you an email*",
	"*sent a code*",
	"*magic link sent*",
	"*verification code sent*",
	"*email sent*",
	"*link has been sent*",
	"*code has been sent*",
	"*enter the code*",
)

// DetectConfirmationSignal reports whether the page shows a
// confirmation that a sign-in email or code was dispatched. pageText is
// the full visible text of the page; notificationTexts is the text of
// any elements carrying an alert/notification/toast role. Matching
// either source is sufficient.
func DetectConfirmationSignal(pageText string, notificationTexts []string) bool {
	if matchesConfirmation(pageText) {
		return true
	}
	for _, text := range notificationTexts {
		if matchesConfirmation(text) {
			return true
		}
	}
	return false
}

func matchesConfirmation(text string) bool {
	if text == "" {
		return false
	}
	return matchesAny(confirmationPatterns, strings.ToLower(text))
}
