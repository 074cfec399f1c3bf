package scraper

import (
	"context"

	"jobcards-parser/internal/fetcher"
	"jobcards-parser/internal/normalize"
	"jobcards-parser/internal/observability"
)

// Record is one parsed card. Its base fields never change; content is read
// from the detail page on first request and kept.
type Record struct {
	index   int
	fields  Fields
	baseURL string

	getter  fetcher.Getter
	scraper *Scraper
	logger  *observability.Logger

	content contentCell
}

// contentCell is either unset or holds the fetched text. An empty string is
// a valid set value.
type contentCell struct {
	value string
	set   bool
}

func newRecord(index int, f Fields, baseURL string, g fetcher.Getter, s *Scraper, logger *observability.Logger) *Record {
	return &Record{
		index:   index,
		fields:  f,
		baseURL: baseURL,
		getter:  g,
		scraper: s,
		logger:  logger,
	}
}

// Index is the card's position on the listing page.
func (r *Record) Index() int           { return r.index }
func (r *Record) Title() string        { return r.fields.Title }
func (r *Record) Subtitle() string     { return r.fields.Subtitle }
func (r *Record) Location() string     { return r.fields.Location }
func (r *Record) Posted() string       { return r.fields.Posted }
func (r *Record) ApplyLink() string    { return r.fields.ApplyLink }
func (r *Record) ContentFetched() bool { return r.content.set }

// DetailURL is the apply link resolved against the listing page URL.
func (r *Record) DetailURL() (string, error) {
	return normalize.ResolveURL(r.baseURL, r.fields.ApplyLink)
}

// Content returns the full description from the record's detail page,
// fetching it on the first call only. Errors leave the cell unset.
func (r *Record) Content(ctx context.Context) (string, error) {
	if r.content.set {
		return r.content.value, nil
	}

	detailURL, err := r.DetailURL()
	if err != nil {
		return "", &fetcher.FetchError{URL: r.fields.ApplyLink, Err: err}
	}

	r.logger.Debug("Fetching detail page", "card", r.index, "url", detailURL)

	resp, err := r.getter.Fetch(ctx, detailURL)
	if err != nil {
		return "", err
	}

	text, err := r.scraper.ParseContent(string(resp.Body), detailURL)
	if err != nil {
		return "", err
	}

	r.content = contentCell{value: text, set: true}
	return text, nil
}
