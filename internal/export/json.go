package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"jobcards-parser/internal/normalize"
	"jobcards-parser/internal/scraper"
)

type keyValue struct {
	key   string
	value string
}

// object marshals as a JSON object with keys in slice order.
type object []keyValue

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(&buf, kv.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeString(&buf, kv.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// jsonObject cleans the base fields; content goes out exactly as fetched.
func jsonObject(rw row) object {
	obj := make(object, 0, len(baseColumns)+1)
	for i, c := range baseColumns {
		obj = append(obj, keyValue{c.name, normalize.Clean(rw.base[i])})
	}
	if rw.hasContent {
		obj = append(obj, keyValue{scraper.FieldContent, rw.content})
	}
	return obj
}

// WriteJSON writes the records as one compact JSON array with no trailing
// newline.
func WriteJSON(ctx context.Context, w io.Writer, records []*scraper.Record, opts Options) error {
	objects := make([]object, 0, len(records))
	for _, r := range records {
		rw, err := readRow(ctx, r, opts)
		if err != nil {
			return err
		}
		objects = append(objects, jsonObject(rw))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(objects); err != nil {
		return &SerializationError{Op: "encode", Err: err}
	}

	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	return nil
}

// WriteJSONFile loads the records from src and writes them to path.
func WriteJSONFile(ctx context.Context, path string, src RecordSource, opts Options) error {
	records, err := src.Cards(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(ctx, w, records, opts)
	})
}
