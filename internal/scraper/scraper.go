package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobcards-parser/internal/config"
)

type Scraper struct {
	selectors config.SelectorsConfig
}

func NewScraper(selectors config.SelectorsConfig) *Scraper {
	return &Scraper{
		selectors: selectors,
	}
}

// ParseListing extracts the fields of every card in document order. A card
// missing any field fails the whole page; no partial result is returned.
func (s *Scraper) ParseListing(html, pageURL string) ([]Fields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	cards := doc.Find(s.selectors.CardContainer)
	out := make([]Fields, 0, cards.Length())

	var parseErr error
	cards.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		fields, err := s.parseCard(sel)
		if err != nil {
			err.Index = i
			err.URL = pageURL
			parseErr = err
			return false
		}
		out = append(out, fields)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return out, nil
}

func (s *Scraper) parseCard(sel *goquery.Selection) (Fields, *ParseError) {
	var f Fields
	var err *ParseError

	text := func(field, selector string) string {
		if err != nil {
			return ""
		}
		node := sel.Find(selector).First()
		if node.Length() == 0 {
			err = &ParseError{Field: field, Selector: selector}
			return ""
		}
		return node.Text()
	}

	f.Title = text(FieldTitle, s.selectors.Title)
	f.Subtitle = text(FieldSubtitle, s.selectors.Subtitle)
	f.Location = text(FieldLocation, s.selectors.Location)
	f.Posted = text(FieldPosted, s.selectors.Posted)
	if err != nil {
		return Fields{}, err
	}

	href, ok := sel.Find(s.selectors.ApplyLink).First().Attr("href")
	if !ok {
		return Fields{}, &ParseError{Field: FieldApplyLink, Selector: s.selectors.ApplyLink}
	}
	f.ApplyLink = href

	return f, nil
}

// ParseContent returns the text of the first element on a detail page
// matching the content selector.
func (s *Scraper) ParseContent(html, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	node := doc.Find(s.selectors.Content).First()
	if node.Length() == 0 {
		return "", &ParseError{Field: FieldContent, Selector: s.selectors.Content, Index: -1, URL: pageURL}
	}

	return node.Text(), nil
}
