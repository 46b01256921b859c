// Package archive keeps an index of generated reports in SQLite.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no report matches the lookup.
var ErrNotFound = errors.New("report not found")

// Record describes one generated report file.
type Record struct {
	ID           string
	Recipient    string
	Title        string
	Layout       string
	FilePath     string
	ProductCount int
	PublishedURL string
	GeneratedAt  time.Time
}

// Repository handles persistence of report records.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository on an open connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `SELECT id, recipient, title, layout, file_path, product_count, published_url, generated_at FROM reports`

// Save inserts a record, replacing any existing one with the same ID.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, recipient, title, layout, file_path, product_count, published_url, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			recipient = excluded.recipient,
			title = excluded.title,
			layout = excluded.layout,
			file_path = excluded.file_path,
			product_count = excluded.product_count,
			published_url = excluded.published_url,
			generated_at = excluded.generated_at`,
		rec.ID, rec.Recipient, rec.Title, rec.Layout, rec.FilePath,
		rec.ProductCount, rec.PublishedURL, rec.GeneratedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a record by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return rec, nil
}

// ListRecentByRecipient returns up to limit records, newest first. An empty
// recipient lists every report.
func (r *Repository) ListRecentByRecipient(ctx context.Context, recipient string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	query := selectColumns + ` WHERE (? = '' OR recipient = ?) ORDER BY generated_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, recipient, recipient, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// MarkPublished stores the public URL of a report.
func (r *Repository) MarkPublished(ctx context.Context, id, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reports SET published_url = ? WHERE id = ?`, url, id)
	if err != nil {
		return fmt.Errorf("failed to mark report %s published: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark report %s published: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Record, error) {
	var (
		rec Record
		ms  int64
	)
	err := s.Scan(&rec.ID, &rec.Recipient, &rec.Title, &rec.Layout, &rec.FilePath,
		&rec.ProductCount, &rec.PublishedURL, &ms)
	if err != nil {
		return nil, err
	}
	rec.GeneratedAt = time.UnixMilli(ms).UTC()
	return &rec, nil
}
