// internal/batch/sink.go
package batch

import (
	"context"

	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// Sink persists enrichment results. Store errors should classify as
// retryable storage errors so the runner can back off and try again.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	// Store writes the outcome of one record.
	Store(ctx context.Context, record Record, resp *pipl.SearchResponse) error
	Close() error
}

// personsFound counts how many persons a response carries, whether a
// single match or a list of possible matches.
func personsFound(resp *pipl.SearchResponse) int {
	if resp.Person != nil {
		return 1
	}
	return len(resp.PossiblePersons)
}
