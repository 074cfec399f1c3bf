package scraper

import "fmt"

// Fields are the values extracted from one card on the listing page.
type Fields struct {
	Title     string
	Subtitle  string
	Location  string
	Posted    string
	ApplyLink string
}

// Field names as they appear in output headers and keys.
const (
	FieldTitle     = "title"
	FieldSubtitle  = "subtitle"
	FieldLocation  = "location"
	FieldPosted    = "posted"
	FieldApplyLink = "apply_link"
	FieldContent   = "content"
)

// ParseError reports a selector that matched nothing. Index is the card's
// position on the listing page, or -1 for a detail page.
type ParseError struct {
	Field    string
	Selector string
	Index    int
	URL      string
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse %s: no element for %s (selector %q)", e.URL, e.Field, e.Selector)
	}
	return fmt.Sprintf("parse %s: card %d: no element for %s (selector %q)", e.URL, e.Index, e.Field, e.Selector)
}
