// Package store archives solved runs so they can be listed and fetched
// later through the HTTP API.
//
// Two backends are provided: [MemoryStore] for a single process and
// [MongoStore] for a shared MongoDB collection.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/knapset/pkg/solver"
)

// ErrRunNotFound is returned by Get when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps List results when ListOptions.Limit is zero.
const DefaultListLimit = 50

// Run is one archived search.
type Run struct {
	ID           string        `json:"id" bson:"_id"`
	Instance     string        `json:"instance" bson:"instance"`
	InstanceHash string        `json:"instance_hash" bson:"instance_hash"`
	Vertices     []string      `json:"vertices" bson:"vertices"`
	Value        int           `json:"value" bson:"value"`
	Weight       int           `json:"weight" bson:"weight"`
	Optimal      bool          `json:"optimal" bson:"optimal"`
	Cached       bool          `json:"cached" bson:"cached"`
	Steps        int64         `json:"steps" bson:"steps"`
	Duration     time.Duration `json:"duration" bson:"duration"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
}

// NewRun builds a run record for a search result with a fresh ID.
func NewRun(instance, instanceHash string, res solver.Result) Run {
	vs := res.Vertices
	if vs == nil {
		vs = []string{}
	}
	return Run{
		ID:           uuid.New().String(),
		Instance:     instance,
		InstanceHash: instanceHash,
		Vertices:     vs,
		Value:        res.Value,
		Weight:       res.Weight,
		Optimal:      res.Optimal,
		Steps:        res.Stats.Steps,
		Duration:     res.Stats.Duration,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// ListOptions filters List.
type ListOptions struct {
	// Instance restricts results to one instance name (empty = all).
	Instance string
	// Limit caps the number of runs (0 = DefaultListLimit).
	Limit int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Store persists runs. Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts a run. The ID must be unique.
	Save(ctx context.Context, run Run) error

	// Get returns the run with the given ID or ErrRunNotFound.
	Get(ctx context.Context, id string) (Run, error)

	// List returns runs newest first.
	List(ctx context.Context, opts ListOptions) ([]Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ValidID reports whether id has the shape of a run ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
