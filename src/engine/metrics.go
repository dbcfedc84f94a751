package engine

import (
	"math"

	"ofs-monitor/src/models"
)

// -----------------------------------------------------------------------------
// Subscription Metrics Engine
// -----------------------------------------------------------------------------

// Metrics derives the aggregate demand statistics from a ranked cumulative
// sequence. The sequence is price-descending with a running total, so the last
// row carries total demand and the first row the top bid price.
//
// SubscriptionPct is rounded half away from zero to 2 decimal places.
func Metrics(rows []models.MCumulativeRow, issueSize int64) models.MSubscriptionMetrics {
	if len(rows) == 0 {
		return models.MSubscriptionMetrics{
			TotalDemand:     0,
			SubscriptionPct: 0,
			RemainingQty:    issueSize,
			Oversubscribed:  false,
			TopPrice:        nil,
		}
	}

	totalDemand := rows[len(rows)-1].CumulativeQty
	topPrice := rows[0].Price

	remaining := issueSize - totalDemand
	if remaining < 0 {
		remaining = 0
	}

	pct := math.Round(float64(totalDemand)/float64(issueSize)*100*100) / 100

	return models.MSubscriptionMetrics{
		TotalDemand:     totalDemand,
		SubscriptionPct: pct,
		RemainingQty:    remaining,
		Oversubscribed:  totalDemand >= issueSize,
		TopPrice:        &topPrice,
	}
}
