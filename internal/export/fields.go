package export

import (
	"context"

	"jobcards-parser/internal/scraper"
)

// RecordSource yields the records to serialize.
type RecordSource interface {
	Cards(ctx context.Context) ([]*scraper.Record, error)
}

type Options struct {
	// IncludeContent adds the detail-page text as the last column, fetching
	// it for every record that does not have it yet.
	IncludeContent bool
}

type column struct {
	name  string
	value func(*scraper.Record) string
}

// baseColumns is the one field order used by every output format.
var baseColumns = []column{
	{scraper.FieldTitle, (*scraper.Record).Title},
	{scraper.FieldSubtitle, (*scraper.Record).Subtitle},
	{scraper.FieldLocation, (*scraper.Record).Location},
	{scraper.FieldPosted, (*scraper.Record).Posted},
	{scraper.FieldApplyLink, (*scraper.Record).ApplyLink},
}

// Header returns the column names for opts.
func Header(opts Options) []string {
	names := make([]string, 0, len(baseColumns)+1)
	for _, c := range baseColumns {
		names = append(names, c.name)
	}
	if opts.IncludeContent {
		names = append(names, scraper.FieldContent)
	}
	return names
}

// row holds the raw, untransformed values of one record.
type row struct {
	base       []string
	content    string
	hasContent bool
}

func readRow(ctx context.Context, r *scraper.Record, opts Options) (row, error) {
	out := row{base: make([]string, len(baseColumns))}
	for i, c := range baseColumns {
		out.base[i] = c.value(r)
	}
	if opts.IncludeContent {
		content, err := r.Content(ctx)
		if err != nil {
			return row{}, err
		}
		out.content = content
		out.hasContent = true
	}
	return out, nil
}
