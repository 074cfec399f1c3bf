package fetcher

import (
	"jobcards-parser/internal/config"
	"jobcards-parser/internal/observability"
)

// GetCloser is a Getter that holds resources until closed.
type GetCloser interface {
	Getter
	Close() error
}

var (
	_ GetCloser = (*Fetcher)(nil)
	_ GetCloser = (*BrowserFetcher)(nil)
)

// New returns the browser-backed fetcher when rod is enabled, otherwise the
// plain HTTP one.
func New(cfg *config.Config, logger *observability.Logger) (GetCloser, error) {
	if cfg.Rod.Enabled {
		b, err := NewBrowserFetcher(cfg, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return NewFetcher(cfg, logger), nil
}

// Close releases idle keep-alive connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
