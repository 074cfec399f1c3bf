package storage

import (
	"context"
	"database/sql"
	"time"
)

// JobRecord is one serialized card as stored in the job_records table.
type JobRecord struct {
	ApplyLink   string // key
	Title       string
	Subtitle    string
	Location    string
	Posted      string
	PostedOn    sql.NullTime   // Posted parsed as a date, when it could be
	Content     sql.NullString // NULL when detail pages were not fetched
	CheckSum    string
	SequenceNum int
	FetchedAt   time.Time
}

// Repository persists job records.
type Repository interface {
	// UpsertRecord inserts or updates a record by apply link and reports
	// whether it was new.
	UpsertRecord(ctx context.Context, rec *JobRecord) (isNew bool, err error)

	ExistsByLink(ctx context.Context, applyLink string) (bool, error)

	// CheckSumByLink returns the stored checksum for applyLink; found is
	// false when no row exists.
	CheckSumByLink(ctx context.Context, applyLink string) (sum string, found bool, err error)

	Count(ctx context.Context) (int, error)

	Close() error
}
