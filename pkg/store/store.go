package store

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
	"github.com/matzehuels/qtranspile/pkg/metrics"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Record is one stored run.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	Backend   string          `json:"backend" bson:"backend"`
	Passes    []string        `json:"passes" bson:"passes"`
	Source    string          `json:"source" bson:"source"`
	Circuit   circuit.Circuit `json:"circuit" bson:"circuit"`
	Stats     metrics.Stats   `json:"stats" bson:"stats"`
	SwapCount int             `json:"swap_count" bson:"swap_count"`
}

// NewRecord builds a record for a finished run. The ID is the run ID
// assigned by the runner.
func NewRecord(src string, res *pipeline.Result) Record {
	return Record{
		ID:        res.Info.RunID,
		CreatedAt: time.Now().UTC(),
		Backend:   res.Backend,
		Passes:    res.Passes,
		Source:    src,
		Circuit:   res.Circuit,
		Stats:     res.Stats,
		SwapCount: res.SwapCount,
	}
}

// Store persists run records. Implementations are safe for concurrent use.
type Store interface {
	// Save inserts rec. Saving an existing ID replaces it.
	Save(ctx context.Context, rec Record) error
	// Get returns the record with the given ID or a RUN_NOT_FOUND error.
	Get(ctx context.Context, id string) (Record, error)
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open connects to the store named by uri.
func Open(ctx context.Context, uri string) (Store, error) {
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return OpenMongo(ctx, uri)
	case strings.HasPrefix(uri, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(uri, "sqlite://"))
	case strings.Contains(uri, "://"):
		return nil, qerrors.New(qerrors.ErrCodeUnsupported, "unsupported store %q (use sqlite:// or mongodb://)", uri)
	case uri == "":
		return nil, qerrors.New(qerrors.ErrCodeInvalidInput, "store location is required")
	default:
		return OpenSQLite(uri)
	}
}

func notFound(id string) error {
	return qerrors.New(qerrors.ErrCodeRunNotFound, "run %q not found", id)
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
