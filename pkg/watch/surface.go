package watch

// SubmitEvent is the raw payload captured by the page surface the
// instant a tracked form is submitted. FormHTML is a serialized
// snapshot of the form with live field values written into value
// attributes; FormText is the form's visible text.
type SubmitEvent struct {
	FormHTML string
	FormText string
}

// PageSurface is the DOM-like observation capability the hosting
// environment supplies. The engine only needs to be told when a form
// was submitted and when the page changed, and to snapshot page text
// on demand; it assumes nothing about the underlying change-detection
// mechanism.
type PageSurface interface {
	// OnFormSubmit registers the handler invoked for every form
	// submission on the page.
	OnFormSubmit(fn func(SubmitEvent))

	// OnMutation registers the handler invoked for every batch of
	// subtree mutations.
	OnMutation(fn func())

	// PageText returns the full visible text of the page.
	PageText() (string, error)

	// NotificationTexts returns the text of elements carrying an
	// alert/notification/toast role.
	NotificationTexts() ([]string, error)
}

// IdentitySource provides the configured identity. It is read once
// when monitoring starts and re-read on demand through
// Engine.RefreshIdentity.
type IdentitySource interface {
	Identity() (string, error)
}
