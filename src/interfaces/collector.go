package interfaces

import (
	"context"
	"sync"

	"ofs-monitor/src/models"
)

// -----------------------------------------------------------------------------
// ICollector interface for polling a venue's bid book from an external source.
// -----------------------------------------------------------------------------

type ICollector interface {

	// Name returns the unique identifier of the collector
	Name() string

	// -----------------------------------------------------------------------------

	// Venue returns the venue this collector feeds
	Venue() models.Venue

	// -----------------------------------------------------------------------------

	// FetchBook performs one fetch+parse cycle. It returns the full replacement
	// book and, when the source exposes a cutoff-bucket row, the reserved
	// quantity observed there (nil otherwise).
	FetchBook() (models.MVenueBook, *int64, error)

	// -----------------------------------------------------------------------------

	// Start begins the polling loop
	// ctx: controls the lifecycle (cancellation stops the collector)
	// wg: WaitGroup to signal when the collector has fully stopped
	Start(ctx context.Context, wg *sync.WaitGroup) error

	// -----------------------------------------------------------------------------

	// Stop terminates the polling loop (legacy/manual stop)
	// Ideally, cancelling the context passed to Start should be enough.
	Stop() error
}
