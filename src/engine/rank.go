package engine

import (
	"sort"

	"ofs-monitor/src/models"
)

// -----------------------------------------------------------------------------
// Cumulative Ranking Engine
// -----------------------------------------------------------------------------

// Rank sorts the consolidated book by price descending and computes the running
// cumulative quantity per row. The returned cutoff price is the first price (in
// descending order) whose cumulative quantity reaches issueSize, i.e. the level
// at which allocation would settle if bids are honored highest-first. It is nil
// when total demand never reaches the issue size.
func Rank(book models.MVenueBook, issueSize int64) ([]models.MCumulativeRow, *float64) {
	if len(book) == 0 {
		return nil, nil
	}

	prices := make([]float64, 0, len(book))
	for price := range book {
		prices = append(prices, price)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(prices)))

	rows := make([]models.MCumulativeRow, 0, len(prices))
	var cumulative int64
	var cutoffPrice *float64

	for _, price := range prices {
		cumulative += book[price]
		rows = append(rows, models.MCumulativeRow{
			Price:         price,
			Qty:           book[price],
			CumulativeQty: cumulative,
		})

		// First crossing only; never updated later in the same pass.
		if cutoffPrice == nil && cumulative >= issueSize {
			p := price
			cutoffPrice = &p
		}
	}

	return rows, cutoffPrice
}
