package collector

import (
	"fmt"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Row parsing
// -----------------------------------------------------------------------------
// Both venues publish their bid books as text tables: a price cell and a
// quantity cell with Indian-style thousands separators ("1,23,456"). One row
// per price level, plus a "CO" row holding the demand bucketed at the cutoff
// marker rather than at a concrete price.
//
// A row that fails to parse costs exactly that row: the caller skips it,
// counts it, and keeps building the rest of the snapshot.
// -----------------------------------------------------------------------------

// IsCutoffMarker reports whether a price cell is the cutoff-bucket marker.
func IsCutoffMarker(priceCell string) bool {
	cell := strings.ToUpper(strings.TrimSpace(priceCell))
	return cell == "CO" || cell == "CUTOFF" || cell == "CUT-OFF" || cell == "CUT OFF"
}

// -----------------------------------------------------------------------------

// ParsePrice parses a price cell into a positive float.
func ParsePrice(cell string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price cell")
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("bad price %q: %w", cell, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %q", cell)
	}
	return price, nil
}

// -----------------------------------------------------------------------------

// ParseQty parses a quantity cell (commas and stray quotes stripped) into a
// non-negative integer.
func ParseQty(cell string) (int64, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "\"", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty quantity cell")
	}

	qty, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad quantity %q: %w", cell, err)
	}
	if qty < 0 {
		return 0, fmt.Errorf("negative quantity %q", cell)
	}
	return qty, nil
}

// -----------------------------------------------------------------------------

// ParseRow parses one (price, quantity) pair. The cutoff row reports
// isCutoff=true with the quantity in qty and price 0.
func ParseRow(priceCell, qtyCell string) (price float64, qty int64, isCutoff bool, err error) {
	qty, err = ParseQty(qtyCell)
	if err != nil {
		return 0, 0, false, err
	}

	if IsCutoffMarker(priceCell) {
		return 0, qty, true, nil
	}

	price, err = ParsePrice(priceCell)
	if err != nil {
		return 0, 0, false, err
	}
	return price, qty, false, nil
}
