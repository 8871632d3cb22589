package classifier

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ExtractIdentity extracts the email address filled into a form from a
// serialized HTML snapshot of that form. The snapshot must carry the
// live field values in value attributes (the browser surface serializes
// them at submit time).
//
// A strongly typed email field (input type="email") wins; otherwise any
// field whose name, id, or placeholder contains "email" is used. The
// returned identity is trimmed and lower-cased. ok is false when the
// form carries no recognizable email-bearing field, which is routine
// for search boxes and the like, not an error.
func ExtractIdentity(formHTML string) (identity string, ok bool) {
	doc, err := html.Parse(strings.NewReader(formHTML))
	if err != nil {
		return "", false
	}

	var typed, fallback string
	walkNodes(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "input" {
			return
		}
		attrs := attributeMap(n)
		value := attrs["value"]
		if value == "" {
			return
		}
		if typed == "" && strings.EqualFold(attrs["type"], "email") {
			typed = value
			return
		}
		if fallback == "" && mentionsEmail(attrs) {
			fallback = value
		}
	})

	raw := typed
	if raw == "" {
		raw = fallback
	}
	identity = NormalizeIdentity(raw)
	return identity, identity != ""
}

// NormalizeIdentity trims and lower-cases an email address so it can be
// compared and used as a correlation key.
func NormalizeIdentity(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// mentionsEmail reports whether a field's name, id, or placeholder
// contains the substring "email", case-insensitively.
func mentionsEmail(attrs map[string]string) bool {
	for _, key := range []string{"name", "id", "placeholder"} {
		if strings.Contains(strings.ToLower(attrs[key]), "email") {
			return true
		}
	}
	return false
}

func attributeMap(n *html.Node) map[string]string {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}
	return attrs
}

func walkNodes(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, visit)
	}
}

// FormAttributeString flattens the identifying attributes of the form
// element in a snapshot into a single matchable string for
// ClassifyFormIntent.
func FormAttributeString(formHTML string) string {
	doc, err := html.Parse(strings.NewReader(formHTML))
	if err != nil {
		return ""
	}

	var parts []string
	walkNodes(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "form" {
			return
		}
		for _, a := range n.Attr {
			parts = append(parts, fmt.Sprintf("%s=%s", a.Key, a.Val))
		}
	})
	return strings.Join(parts, " ")
}
