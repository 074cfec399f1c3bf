package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobcards-parser/internal/observability"
	"jobcards-parser/internal/storage"
)

type Repository struct {
	db             *sql.DB
	dialect        dialect
	commandTimeout time.Duration
	logger         *observability.Logger
}

var _ storage.Repository = (*Repository)(nil)

// Open connects to driver ("mssql", "postgres" or "sqlite"), checks the
// connection and creates the job_records table when missing.
func Open(driver, dsn string, commandTimeout time.Duration, logger *observability.Logger) (*Repository, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create job_records table: %w", err)
	}

	return &Repository{
		db:             db,
		dialect:        d,
		commandTimeout: commandTimeout,
		logger:         logger,
	}, nil
}

func (r *Repository) UpsertRecord(ctx context.Context, rec *storage.JobRecord) (bool, error) {
	exists, err := r.ExistsByLink(ctx, rec.ApplyLink)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	stmt, err := r.db.PrepareContext(ctx, r.dialect.upsertQuery())
	if err != nil {
		return false, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			r.logger.Error("Failed to close statement", "error", err.Error())
		}
	}()

	_, err = stmt.ExecContext(ctx,
		rec.ApplyLink,
		rec.Title,
		rec.Subtitle,
		rec.Location,
		rec.Posted,
		rec.PostedOn,
		rec.Content,
		rec.CheckSum,
		rec.SequenceNum,
		rec.FetchedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to execute upsert: %w", err)
	}

	return !exists, nil
}

func (r *Repository) ExistsByLink(ctx context.Context, applyLink string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, r.dialect.existsQuery(), applyLink).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}

	return count > 0, nil
}

func (r *Repository) CheckSumByLink(ctx context.Context, applyLink string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var sum string
	err := r.db.QueryRowContext(ctx, r.dialect.checksumQuery(), applyLink).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query database: %w", err)
	}

	return sum, true, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}

	return count, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
