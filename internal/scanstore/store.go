// Package scanstore records the history of scoring runs. Each upload that
// goes through the engine produces one Scan — report metadata plus the
// population summary. The scored dataset itself is not persisted; scoring
// is deterministic and re-runs are cheap, so the rows stay transient.
package scanstore

import (
	"context"
	"errors"
	"time"

	"github.com/accesslens/accesslens/internal/risk"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a scan lookup finds no matching record.
var ErrNotFound = errors.New("scan not found")

// Scan is one recorded scoring run.
type Scan struct {
	ID           uuid.UUID    `json:"id"`
	Source       string       `json:"source"` // upload filename or caller-supplied label
	TotalRecords int          `json:"total_records"`
	Summary      risk.Summary `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Store persists scan history.
type Store interface {
	Save(ctx context.Context, scan *Scan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Scan, error)
	List(ctx context.Context, limit, offset int) ([]*Scan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
