package engine

import (
	"ofs-monitor/src/models"
)

// -----------------------------------------------------------------------------
// Merge Engine
// -----------------------------------------------------------------------------

// Merge combines the two venue books into one consolidated price->quantity
// mapping. Quantities at the same price are summed across venues; the combined
// reserved (cutoff-bucket) quantity, when positive, is added on top of whatever
// already sits at the floor price.
//
// Merge is a pure function: empty inputs yield an empty (or floor-price-only)
// result, which callers must treat as "no data yet" rather than an error.
func Merge(nse, bse models.MVenueBook, nseReserved, bseReserved int64, floorPrice float64) models.MVenueBook {
	consolidated := make(models.MVenueBook, len(nse)+len(bse))

	for price, qty := range nse {
		consolidated[price] += qty
	}
	for price, qty := range bse {
		consolidated[price] += qty
	}

	if reservedSum := nseReserved + bseReserved; reservedSum > 0 {
		consolidated[floorPrice] += reservedSum
	}

	return consolidated
}
