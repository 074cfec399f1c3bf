package scraper

import (
	"context"

	"jobcards-parser/internal/fetcher"
	"jobcards-parser/internal/observability"
)

// ListingSource fetches and parses one listing page. The page is read at
// most once per instance; after the first successful Cards call the same
// records are returned without touching the network.
type ListingSource struct {
	url     string
	getter  fetcher.Getter
	scraper *Scraper
	logger  *observability.Logger

	loaded  bool
	records []*Record
}

func NewListingSource(url string, getter fetcher.Getter, s *Scraper, logger *observability.Logger) *ListingSource {
	return &ListingSource{
		url:     url,
		getter:  getter,
		scraper: s,
		logger:  logger,
	}
}

func (l *ListingSource) URL() string {
	return l.url
}

// Cards returns the records of the listing page in document order.
// A failed call is not cached.
func (l *ListingSource) Cards(ctx context.Context) ([]*Record, error) {
	if l.loaded {
		return l.records, nil
	}

	l.logger.Info("Fetching listing page", "url", l.url)

	resp, err := l.getter.Fetch(ctx, l.url)
	if err != nil {
		return nil, err
	}

	fields, err := l.scraper.ParseListing(string(resp.Body), l.url)
	if err != nil {
		return nil, err
	}

	// Relative apply links resolve against where the listing actually lives
	baseURL := resp.URL
	if baseURL == "" {
		baseURL = l.url
	}

	records := make([]*Record, 0, len(fields))
	for i, f := range fields {
		records = append(records, newRecord(i, f, baseURL, l.getter, l.scraper, l.logger))
	}

	l.logger.Info("Parsed listing page", "url", l.url, "cards", len(records))

	l.records = records
	l.loaded = true
	return l.records, nil
}
