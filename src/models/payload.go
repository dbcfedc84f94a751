package models

// -----------------------------------------------------------------------------
// Wire payload (matches the frontend contract exactly)
// -----------------------------------------------------------------------------

// MBookMeta carries the per-broadcast metadata next to the ranked rows.
// Pointer fields serialize as null when the value is absent.
type MBookMeta struct {
	CutoffPrice       *float64 `json:"cutoff_price"`
	TotalDemand       int64    `json:"total_demand"`
	SubscriptionPct   float64  `json:"subscription_pct"`
	RemainingQty      int64    `json:"remaining_qty"`
	Oversubscribed    bool     `json:"oversubscribed"`
	TopPrice          *float64 `json:"top_price"`
	IssueSize         int64    `json:"issue_size"`
	VenueALastUpdated *int64   `json:"venue_a_last_updated_ts"`
	VenueBLastUpdated *int64   `json:"venue_b_last_updated_ts"`
}

// -----------------------------------------------------------------------------

// MBookPayload is the full snapshot sent to every WebSocket subscriber:
// the consolidated book ranked price-descending, plus metadata.
type MBookPayload struct {
	Data []MCumulativeRow `json:"data"`
	Meta MBookMeta        `json:"meta"`
}
