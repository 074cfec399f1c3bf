package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"

	"jobcards-parser/internal/checksum"
	"jobcards-parser/internal/config"
	"jobcards-parser/internal/export"
	"jobcards-parser/internal/normalize"
	"jobcards-parser/internal/observability"
	"jobcards-parser/internal/scraper"
	"jobcards-parser/internal/storage"
)

// Pipeline runs one pass: cards, detail contents, CSV, JSON, then the
// optional storage sink. The first error stops it.
type Pipeline struct {
	cfg        *config.Config
	logger     *observability.Logger
	source     *scraper.ListingSource
	repo       storage.Repository
	checksum   *checksum.Generator
	dateParser *scraper.DateParser
	now        func() time.Time
}

// NewPipeline wires a pipeline. repo may be nil to skip storage.
func NewPipeline(
	cfg *config.Config,
	logger *observability.Logger,
	source *scraper.ListingSource,
	repo storage.Repository,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		source:     source,
		repo:       repo,
		checksum:   checksum.NewGenerator(),
		dateParser: scraper.NewDateParser(),
		now:        time.Now,
	}
}

type RunStats struct {
	Cards           int
	ContentsFetched int
	Stored          int
	NewRows         int
	Unchanged       int
}

func (p *Pipeline) Run(ctx context.Context) (*RunStats, error) {
	lock := flock.New(p.cfg.Output.CSVPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, &export.SerializationError{Path: lock.Path(), Op: "lock", Err: err}
	}
	if !locked {
		return nil, fmt.Errorf("another run is writing %s", p.cfg.Output.CSVPath)
	}
	defer p.releaseLock(lock)

	stats := &RunStats{}
	opts := export.Options{IncludeContent: p.cfg.Output.IncludeContent}

	records, err := p.source.Cards(ctx)
	if err != nil {
		p.logger.Error("Listing failed", "url", p.source.URL(), "error", err.Error())
		return stats, err
	}
	stats.Cards = len(records)

	if opts.IncludeContent {
		for _, r := range records {
			if r.ContentFetched() {
				continue
			}
			if _, err := r.Content(ctx); err != nil {
				p.logger.Error("Detail page failed",
					"card", r.Index(),
					"apply_link", r.ApplyLink(),
					"error", err.Error(),
				)
				return stats, err
			}
			stats.ContentsFetched++
		}
		p.logger.Info("Fetched detail pages", "count", stats.ContentsFetched)
	}

	if err := export.WriteDelimitedFile(ctx, p.cfg.Output.CSVPath, p.source, opts); err != nil {
		p.logger.Error("Writing CSV failed", "path", p.cfg.Output.CSVPath, "error", err.Error())
		return stats, err
	}
	p.logger.Info("Wrote CSV", "path", p.cfg.Output.CSVPath, "records", len(records))

	if err := export.WriteJSONFile(ctx, p.cfg.Output.JSONPath, p.source, opts); err != nil {
		p.logger.Error("Writing JSON failed", "path", p.cfg.Output.JSONPath, "error", err.Error())
		return stats, err
	}
	p.logger.Info("Wrote JSON", "path", p.cfg.Output.JSONPath, "records", len(records))

	if p.repo != nil {
		if err := p.store(ctx, records, opts, stats); err != nil {
			return stats, err
		}
	}

	p.logger.Info("Run completed",
		"cards", stats.Cards,
		"contents_fetched", stats.ContentsFetched,
		"stored", stats.Stored,
		"new_rows", stats.NewRows,
	)

	return stats, nil
}

// releaseLock unlocks and removes the lock file so only outputs remain.
func (p *Pipeline) releaseLock(lock *flock.Flock) {
	if err := os.Remove(lock.Path()); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("Failed to remove output lock", "path", lock.Path(), "error", err.Error())
	}
	if err := lock.Unlock(); err != nil {
		p.logger.Warn("Failed to release output lock", "path", lock.Path(), "error", err.Error())
	}
}

func (p *Pipeline) store(ctx context.Context, records []*scraper.Record, opts export.Options, stats *RunStats) error {
	fetchedAt := p.now().UTC()

	for _, r := range records {
		rec, err := p.jobRecord(ctx, r, opts, fetchedAt)
		if err != nil {
			return err
		}

		stored, found, err := p.repo.CheckSumByLink(ctx, rec.ApplyLink)
		if err != nil {
			p.logger.Error("Reading stored checksum failed", "apply_link", rec.ApplyLink, "error", err.Error())
			return err
		}
		if found && p.checksum.VerifyContentHash(stored, rec.ApplyLink, rec.Title, rec.Posted, rec.Content.String) {
			stats.Unchanged++
			continue
		}

		isNew, err := p.repo.UpsertRecord(ctx, rec)
		if err != nil {
			p.logger.Error("Storing record failed", "apply_link", rec.ApplyLink, "error", err.Error())
			return err
		}
		stats.Stored++
		if isNew {
			stats.NewRows++
		}
	}

	p.logger.Info("Stored records", "stored", stats.Stored, "new", stats.NewRows, "unchanged", stats.Unchanged)
	return nil
}

func (p *Pipeline) jobRecord(ctx context.Context, r *scraper.Record, opts export.Options, fetchedAt time.Time) (*storage.JobRecord, error) {
	rec := &storage.JobRecord{
		ApplyLink:   normalize.Clean(r.ApplyLink()),
		Title:       normalize.Clean(r.Title()),
		Subtitle:    normalize.Clean(r.Subtitle()),
		Location:    normalize.Clean(r.Location()),
		Posted:      normalize.Clean(r.Posted()),
		SequenceNum: r.Index(),
		FetchedAt:   fetchedAt,
	}

	if opts.IncludeContent {
		content, err := r.Content(ctx)
		if err != nil {
			return nil, err
		}
		rec.Content = sql.NullString{String: content, Valid: true}
	}

	if postedOn, err := p.dateParser.Parse(rec.Posted); err == nil {
		rec.PostedOn = sql.NullTime{Time: postedOn, Valid: true}
	} else {
		p.logger.Warn("Failed to parse posted date",
			"apply_link", rec.ApplyLink,
			"posted", rec.Posted,
			"error", err.Error(),
		)
	}

	rec.CheckSum = p.checksum.GenerateContentHash(rec.ApplyLink, rec.Title, rec.Posted, rec.Content.String)
	return rec, nil
}
