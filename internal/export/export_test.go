package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcards-parser/internal/config"
	"jobcards-parser/internal/fetcher"
	"jobcards-parser/internal/observability"
	"jobcards-parser/internal/scraper"
)

type card struct {
	title, subtitle, location, posted, link string
}

func cardHTML(c card) string {
	return fmt.Sprintf(`
<div class="column"><div class="card"><div class="card-content">
  <div class="media-content"><h2 class="title">%s</h2><h3 class="subtitle">%s</h3></div>
  <div class="content"><p class="location">%s</p><p><time>%s</time></p></div>
  <footer><a class="card-footer-item" href="#">Learn</a><a class="card-footer-item" href="%s">Apply</a></footer>
</div></div></div>`, c.title, c.subtitle, c.location, c.posted, c.link)
}

// newBoard serves a listing built from cards plus the given detail pages
// and returns a fresh ListingSource for it.
func newBoard(t *testing.T, cards []card, details map[string]string) (*scraper.ListingSource, *int) {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<html><body><div id="ResultsContainer">`)
	for _, c := range cards {
		b.WriteString(cardHTML(c))
	}
	b.WriteString(`</div></body></html>`)
	listing := b.String()

	detailHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, listing)
			return
		}
		content, ok := details[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		detailHits++
		fmt.Fprintf(w, `<html><body><div class="content"><p>%s</p></div></body></html>`, content)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	logger := observability.Nop()
	src := scraper.NewListingSource(srv.URL+"/", fetcher.NewFetcher(cfg, logger), scraper.NewScraper(cfg.Source.Selectors), logger)
	return src, &detailHits
}

func twoCards() []card {
	return []card{
		{"Engineer, Sr.", "Acme", "Remote, USA", "2021-04-08", "/jobs/1.html"},
		{"  Data\nAnalyst ", "Globex", "Springfield", "2021-04-09", "/jobs/2.html"},
	}
}

func twoDetails() map[string]string {
	return map[string]string{
		"/jobs/1.html": "Build things, fast.",
		"/jobs/2.html": "\n  Crunch numbers  \n",
	}
}

func TestWriteDelimited(t *testing.T) {
	src, _ := newBoard(t, twoCards(), twoDetails())
	ctx := context.Background()
	records, err := src.Cards(ctx)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteDelimited(ctx, &buf, records, Options{IncludeContent: true}))

	expected := "title,subtitle,location,posted,apply_link,content\n" +
		`"Engineer, Sr.",Acme,"Remote, USA",2021-04-08,/jobs/1.html,"Build things, fast."` + "\n" +
		"DataAnalyst,Globex,Springfield,2021-04-09,/jobs/2.html,Crunch numbers\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteDelimitedWithoutContent(t *testing.T) {
	src, hits := newBoard(t, twoCards(), twoDetails())
	ctx := context.Background()
	records, err := src.Cards(ctx)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteDelimited(ctx, &buf, records, Options{}))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "title,subtitle,location,posted,apply_link", lines[0])
	assert.Equal(t, `"Engineer, Sr.",Acme,"Remote, USA",2021-04-08,/jobs/1.html`, lines[1])
	assert.Equal(t, 0, *hits)
}

func TestWriteJSON(t *testing.T) {
	src, _ := newBoard(t, twoCards(), twoDetails())
	ctx := context.Background()
	records, err := src.Cards(ctx)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteJSON(ctx, &buf, records, Options{IncludeContent: true}))

	out := buf.String()
	assert.False(t, strings.HasSuffix(out, "\n"))
	assert.True(t, strings.HasPrefix(out, `[{"title":"Engineer, Sr.","subtitle":"Acme","location":"Remote, USA"`))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)

	// no comma quoting in JSON
	assert.Equal(t, "Engineer, Sr.", decoded[0]["title"])
	assert.Equal(t, "DataAnalyst", decoded[1]["title"])
	// content is not cleaned
	assert.Equal(t, "\n  Crunch numbers  \n", decoded[1]["content"])
	assert.Equal(t, "/jobs/2.html", decoded[1]["apply_link"])
}

func TestWriteJSONKeyOrderWithoutContent(t *testing.T) {
	src, hits := newBoard(t, twoCards()[:1], twoDetails())
	ctx := context.Background()
	records, err := src.Cards(ctx)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteJSON(ctx, &buf, records, Options{}))

	assert.Equal(t,
		`[{"title":"Engineer, Sr.","subtitle":"Acme","location":"Remote, USA","posted":"2021-04-08","apply_link":"/jobs/1.html"}]`,
		buf.String())
	assert.Equal(t, 0, *hits)
}

func TestWriteJSONDoesNotEscapeHTML(t *testing.T) {
	src, _ := newBoard(t, []card{{"R&amp;D Lead", "A", "B", "C", "/jobs/1.html"}}, nil)
	ctx := context.Background()
	records, err := src.Cards(ctx)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteJSON(ctx, &buf, records, Options{}))
	assert.Contains(t, buf.String(), `"title":"R&D Lead"`)
}

func TestFilesShareContentFetches(t *testing.T) {
	src, hits := newBoard(t, twoCards(), twoDetails())
	ctx := context.Background()
	dir := t.TempDir()
	opts := Options{IncludeContent: true}

	require.NoError(t, WriteDelimitedFile(ctx, filepath.Join(dir, "demo.csv"), src, opts))
	require.NoError(t, WriteJSONFile(ctx, filepath.Join(dir, "demo.json"), src, opts))

	// one detail read per record across both outputs
	assert.Equal(t, 2, *hits)

	csvData, err := os.ReadFile(filepath.Join(dir, "demo.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(csvData), "\n"))

	jsonData, err := os.ReadFile(filepath.Join(dir, "demo.json"))
	require.NoError(t, err)
	assert.True(t, json.Valid(jsonData))
}

func TestZeroCardsHeaderOnly(t *testing.T) {
	src, _ := newBoard(t, nil, nil)
	ctx := context.Background()
	dir := t.TempDir()
	opts := Options{IncludeContent: true}

	require.NoError(t, WriteDelimitedFile(ctx, filepath.Join(dir, "demo.csv"), src, opts))
	require.NoError(t, WriteJSONFile(ctx, filepath.Join(dir, "demo.json"), src, opts))

	csvData, err := os.ReadFile(filepath.Join(dir, "demo.csv"))
	require.NoError(t, err)
	assert.Equal(t, "title,subtitle,location,posted,apply_link,content\n", string(csvData))

	jsonData, err := os.ReadFile(filepath.Join(dir, "demo.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(jsonData))
}

func TestContentFailureLeavesNoFile(t *testing.T) {
	// second detail page is missing
	src, _ := newBoard(t, twoCards(), map[string]string{"/jobs/1.html": "ok"})
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.csv")

	err := WriteDelimitedFile(ctx, path, src, Options{IncludeContent: true})
	var fetchErr *fetcher.FetchError
	require.True(t, errors.As(err, &fetchErr))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file should be removed")
}

func TestUnwritableDestination(t *testing.T) {
	src, _ := newBoard(t, twoCards(), twoDetails())
	path := filepath.Join(t.TempDir(), "missing-dir", "demo.json")

	err := WriteJSONFile(context.Background(), path, src, Options{})
	var serErr *SerializationError
	require.True(t, errors.As(err, &serErr))
	assert.Equal(t, path, serErr.Path)
	assert.Equal(t, "create", serErr.Op)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterFailure(t *testing.T) {
	src, _ := newBoard(t, twoCards(), twoDetails())
	ctx := context.Background()
	records, err := src.Cards(ctx)
	require.NoError(t, err)

	err = WriteJSON(ctx, failingWriter{}, records, Options{})
	var serErr *SerializationError
	require.True(t, errors.As(err, &serErr))
	assert.Equal(t, "write", serErr.Op)

	err = WriteDelimited(ctx, failingWriter{}, records, Options{})
	require.True(t, errors.As(err, &serErr))
}
