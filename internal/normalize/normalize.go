package normalize

import (
	"fmt"
	"net/url"
	"strings"
)

// Clean trims surrounding whitespace and then drops every newline left
// inside the value. Carriage returns are kept.
func Clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "")
}

// DelimitedValue cleans s and wraps it in double quotes when it contains a
// comma. Embedded quotes are not escaped.
func DelimitedValue(s string) string {
	s = Clean(s)
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}

// ResolveURL resolves href against base. Absolute hrefs are returned as is.
func ResolveURL(base, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	if ref.IsAbs() || base == "" {
		return ref.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
