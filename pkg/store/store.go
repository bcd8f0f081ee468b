// Package store persists planning results for later retrieval.
//
// A Record archives one resolved layout with identity and provenance
// metadata. Two backends are provided: an in-memory store for tests and
// single-process use, and a MongoDB store for service deployments.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	clamperr "github.com/jmorra/clampgen/pkg/errors"
	"github.com/jmorra/clampgen/pkg/render"
)

// Record is one archived planning result.
type Record struct {
	ID         string         `json:"id" bson:"_id"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	Cell       string         `json:"cell" bson:"cell"`
	TopLayer   int            `json:"top_layer" bson:"top_layer"`
	LayoutHash string         `json:"layout_hash" bson:"layout_hash"`
	Layout     *render.Layout `json:"layout" bson:"layout"`
}

// NewRecord builds a record for a layout with a fresh ID and timestamp.
func NewRecord(layout *render.Layout, layoutHash string) *Record {
	return &Record{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Cell:       layout.Cell,
		TopLayer:   layout.TopLayer,
		LayoutHash: layoutHash,
		Layout:     layout,
	}
}

// Store is the plan archive interface.
type Store interface {
	// Put archives a record.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. A missing record returns an error
	// with code PLAN_NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record by ID. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return clamperr.New(clamperr.ErrCodePlanNotFound, "plan %q not found", id)
}
