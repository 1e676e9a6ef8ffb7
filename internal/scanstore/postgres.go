package scanstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore persists scan history to PostgreSQL. The summary is
// stored as jsonb so the schema does not chase the Summary shape.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore creates a PostgresStore backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger}
}

// Save implements Store. Sets ID and CreatedAt on the scan.
func (s *PostgresStore) Save(ctx context.Context, scan *Scan) error {
	scan.ID = uuid.New()
	scan.CreatedAt = time.Now().UTC()

	summaryJSON, err := json.Marshal(scan.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	q := `
		INSERT INTO scans (id, source, total_records, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.pool.Exec(ctx, q,
		scan.ID, scan.Source, scan.TotalRecords, summaryJSON, scan.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// GetByID implements Store.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Scan, error) {
	q := `SELECT id, source, total_records, summary, created_at FROM scans WHERE id = $1`
	scan, err := scanRow(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return scan, nil
}

// List implements Store, returning scans newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Scan, error) {
	q := `
		SELECT id, source, total_records, summary, created_at
		FROM scans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	result := []*Scan{}
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, scan)
	}
	return result, rows.Err()
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanRow maps one result row to a Scan.
func scanRow(row pgx.Row) (*Scan, error) {
	var scan Scan
	var summaryJSON []byte
	if err := row.Scan(&scan.ID, &scan.Source, &scan.TotalRecords, &summaryJSON, &scan.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(summaryJSON, &scan.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &scan, nil
}
