// Package store persists the reports of completed counting runs.
//
// A [Report] records the inputs and outcome of one run so the HTTP server can
// answer GET /v1/runs/{id} after the request that produced it has finished.
// [MemoryStore] keeps reports in process; [MongoStore] keeps them in a
// MongoDB collection shared between server replicas.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/uniquepaths/pkg/estimate"
)

// ErrNotFound is returned when no report has the requested ID.
var ErrNotFound = errors.New("report not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Report describes one completed run.
type Report struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Input
	GraphHash string `json:"graph_hash" bson:"graph_hash"`
	Nodes     int    `json:"nodes" bson:"nodes"`
	Edges     int    `json:"edges" bson:"edges"`
	Start     int    `json:"start" bson:"start"`
	End       int    `json:"end" bson:"end"`

	// Settings
	Gating      string `json:"gating" bson:"gating"`
	Combine     string `json:"combine" bson:"combine"`
	PilotWalks  int    `json:"pilot_walks" bson:"pilot_walks"`
	SampleWalks int    `json:"sample_walks" bson:"sample_walks"`
	Seed        int64  `json:"seed" bson:"seed"`

	// Outcome
	Estimate         estimate.Result  `json:"estimate" bson:"estimate"`
	Exact            *estimate.Result `json:"exact,omitempty" bson:"exact,omitempty"`
	Components       int              `json:"components" bson:"components"`
	LargestComponent int              `json:"largest_component" bson:"largest_component"`
	CachedComponents int              `json:"cached_components" bson:"cached_components"`
	Duration         time.Duration    `json:"duration_ns" bson:"duration_ns"`
}

// Store saves and retrieves run reports.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores r. An empty ID is replaced by a fresh UUID and a zero
	// CreatedAt by the current time; both are written back into r.
	Save(ctx context.Context, r *Report) error

	// Get returns the report with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns up to limit reports, newest first.
	List(ctx context.Context, limit int) ([]*Report, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare fills the generated fields of r.
func prepare(r *Report) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
