package engine

import (
	"ofs-monitor/src/models"
)

// -----------------------------------------------------------------------------

// SequenceEqual reports whether two cumulative sequences are structurally
// identical. The sequence is rebuilt from scratch every broadcast cycle, so
// change detection must compare contents, not references.
func SequenceEqual(a, b []models.MCumulativeRow) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
