package export

import (
	"bufio"
	"context"
	"io"
	"strings"

	"jobcards-parser/internal/normalize"
	"jobcards-parser/internal/scraper"
)

// WriteDelimited writes a header line and one comma-joined line per record.
// Values are cleaned and quoted only when they contain a comma; this is not
// RFC 4180 and embedded quotes are left alone.
func WriteDelimited(ctx context.Context, w io.Writer, records []*scraper.Record, opts Options) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header(opts), ",") + "\n"); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}

	for _, r := range records {
		rw, err := readRow(ctx, r, opts)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(delimitedLine(rw) + "\n"); err != nil {
			return &SerializationError{Op: "write", Err: err}
		}
	}

	if err := bw.Flush(); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	return nil
}

func delimitedLine(rw row) string {
	values := make([]string, 0, len(rw.base)+1)
	for _, v := range rw.base {
		values = append(values, normalize.DelimitedValue(v))
	}
	if rw.hasContent {
		values = append(values, normalize.DelimitedValue(rw.content))
	}
	return strings.Join(values, ",")
}

// WriteDelimitedFile loads the records from src and writes them to path.
func WriteDelimitedFile(ctx context.Context, path string, src RecordSource, opts Options) error {
	records, err := src.Cards(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteDelimited(ctx, w, records, opts)
	})
}
