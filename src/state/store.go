package state

import (
	"sync"
	"time"

	"ofs-monitor/src/models"
)

// -----------------------------------------------------------------------------
// Venue State Store
// -----------------------------------------------------------------------------
// Shared between the two collector goroutines (writers) and the broadcast loop
// (reader). One mutex guards the full bundle so no reader can observe a torn
// cross-field update. The lock is never held across network calls: collectors
// build their book locally and only swap it in here.
// -----------------------------------------------------------------------------

type venueState struct {
	book        models.MVenueBook
	lastUpdated *time.Time
	reserved    *int64
}

// Store holds the latest snapshot, freshness timestamp and optional reserved
// (cutoff-bucket) quantity for each venue.
type Store struct {
	mu     sync.Mutex
	venues map[models.Venue]*venueState
}

// -----------------------------------------------------------------------------

func NewStore() *Store {
	return &Store{
		venues: map[models.Venue]*venueState{
			models.VenueNSE: {book: models.MVenueBook{}},
			models.VenueBSE: {book: models.MVenueBook{}},
		},
	}
}

// -----------------------------------------------------------------------------
// Collector-side operations
// -----------------------------------------------------------------------------

// ReplaceBook swaps in a venue's new snapshot wholesale. The store takes its
// own copy so the caller may keep mutating its map afterwards.
func (s *Store) ReplaceBook(venue models.Venue, book models.MVenueBook) {
	copied := book.Copy()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[venue].book = copied
}

// -----------------------------------------------------------------------------

// TouchUpdated records the moment a collector began a fetch attempt,
// independent of whether that fetch later succeeds.
func (s *Store) TouchUpdated(venue models.Venue, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[venue].lastUpdated = &ts
}

// -----------------------------------------------------------------------------

// SetReservedOnce records a venue's reserved quantity the first time it is
// observed. Later observations are ignored (first-write-wins); the cutoff
// bucket of an issue is fixed for the life of the process.
func (s *Store) SetReservedOnce(venue models.Venue, qty int64) {
	if qty < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.venues[venue].reserved == nil {
		s.venues[venue].reserved = &qty
	}
}

// -----------------------------------------------------------------------------
// Reader-side operations
// -----------------------------------------------------------------------------

// ReadBook returns a deep copy of a venue's snapshot and its last-updated
// timestamp (nil if the venue has never been touched).
func (s *Store) ReadBook(venue models.Venue) (models.MVenueBook, *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.venues[venue]
	return v.book.Copy(), copyTime(v.lastUpdated)
}

// -----------------------------------------------------------------------------

// ReadReserved returns a venue's reserved quantity, or nil if never observed.
func (s *Store) ReadReserved(venue models.Venue) *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyInt64(s.venues[venue].reserved)
}

// -----------------------------------------------------------------------------

// Bundle is a consistent deep copy of the full venue state, taken under the
// lock in a single acquisition. All later computation runs lock-free on it.
type Bundle struct {
	NSEBook        models.MVenueBook
	BSEBook        models.MVenueBook
	NSEReserved    *int64
	BSEReserved    *int64
	NSELastUpdated *time.Time
	BSELastUpdated *time.Time
}

// Snapshot copies both venues' books, reserved quantities and timestamps.
func (s *Store) Snapshot() Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	nse := s.venues[models.VenueNSE]
	bse := s.venues[models.VenueBSE]

	return Bundle{
		NSEBook:        nse.book.Copy(),
		BSEBook:        bse.book.Copy(),
		NSEReserved:    copyInt64(nse.reserved),
		BSEReserved:    copyInt64(bse.reserved),
		NSELastUpdated: copyTime(nse.lastUpdated),
		BSELastUpdated: copyTime(bse.lastUpdated),
	}
}

// -----------------------------------------------------------------------------
// Freshness
// -----------------------------------------------------------------------------

// IsLive reports whether a venue's data is fresh enough to be considered live.
// Stale venues are still merged by default; this only feeds the health surface.
func (s *Store) IsLive(venue models.Venue, now time.Time, maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.venues[venue].lastUpdated
	if last == nil {
		return false
	}
	return now.Sub(*last) <= maxAge
}

// -----------------------------------------------------------------------------

// Size returns the number of price levels currently held for a venue.
func (s *Store) Size(venue models.Venue) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.venues[venue].book)
}

// -----------------------------------------------------------------------------

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
