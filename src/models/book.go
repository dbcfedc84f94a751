package models

// -----------------------------------------------------------------------------
// Venue identifiers
// -----------------------------------------------------------------------------

type Venue string

const (
	VenueNSE Venue = "nse"
	VenueBSE Venue = "bse"
)

// -----------------------------------------------------------------------------
// Order book data
// -----------------------------------------------------------------------------

// MVenueBook maps bid price to aggregate quantity demanded at that price.
// A collector replaces the whole map each cycle; it is never patched in place.
type MVenueBook map[float64]int64

// Copy returns an independent copy of the book.
func (b MVenueBook) Copy() MVenueBook {
	out := make(MVenueBook, len(b))
	for price, qty := range b {
		out[price] = qty
	}
	return out
}

// TotalQty sums all quantities in the book.
func (b MVenueBook) TotalQty() int64 {
	var total int64
	for _, qty := range b {
		total += qty
	}
	return total
}

// -----------------------------------------------------------------------------

// MCumulativeRow is one price level of the consolidated book with its running
// cumulative quantity, accumulated from the highest price downward.
type MCumulativeRow struct {
	Price         float64 `json:"price"`
	Qty           int64   `json:"qty"`
	CumulativeQty int64   `json:"cumulative_qty"`
}

// -----------------------------------------------------------------------------

// MSubscriptionMetrics holds the demand statistics derived from the ranked book.
type MSubscriptionMetrics struct {
	TotalDemand     int64
	SubscriptionPct float64
	RemainingQty    int64
	Oversubscribed  bool
	TopPrice        *float64
}
