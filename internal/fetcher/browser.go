package fetcher

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"jobcards-parser/internal/config"
	"jobcards-parser/internal/observability"
)

// BrowserFetcher renders pages in headless Chrome before returning the HTML.
// Use it for listing boards that build their cards with JavaScript.
//
// The DevTools protocol does not hand back the document status here, so
// StatusCode is left at 0 and only navigation errors become FetchErrors.
type BrowserFetcher struct {
	cfg      *config.Config
	logger   *observability.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewBrowserFetcher(cfg *config.Config, logger *observability.Logger) (*BrowserFetcher, error) {
	l := launcher.New().Headless(true)
	if cfg.Rod.ChromePath != "" {
		l = l.Bin(cfg.Rod.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger.Info("Headless browser started", "control_url", controlURL)

	return &BrowserFetcher{
		cfg:      cfg,
		logger:   logger,
		launcher: l,
		browser:  browser,
	}, nil
}

func (b *BrowserFetcher) Fetch(ctx context.Context, urlStr string) (*FetchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.GetRodPageTimeout())
	defer cancel()

	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: urlStr})
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: err}
	}
	defer func() {
		if err := page.Close(); err != nil {
			b.logger.Warn("Failed to close browser page", "url", urlStr, "error", err.Error())
		}
	}()

	if err := page.WaitLoad(); err != nil {
		return nil, &FetchError{URL: urlStr, Err: fmt.Errorf("wait load: %w", err)}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: fmt.Errorf("read html: %w", err)}
	}

	finalURL := urlStr
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	b.logger.Debug("Rendered page", "url", finalURL, "bytes", len(html))

	return &FetchResponse{
		Body: []byte(html),
		URL:  finalURL,
	}, nil
}

func (b *BrowserFetcher) Close() error {
	err := b.browser.Close()
	b.launcher.Cleanup()
	return err
}
