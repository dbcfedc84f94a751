package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ofs-monitor/src/models"
)

func TestSequenceEqual(t *testing.T) {
	a := []models.MCumulativeRow{{Price: 200, Qty: 5, CumulativeQty: 5}, {Price: 100, Qty: 3, CumulativeQty: 8}}
	b := []models.MCumulativeRow{{Price: 200, Qty: 5, CumulativeQty: 5}, {Price: 100, Qty: 3, CumulativeQty: 8}}

	assert.True(t, SequenceEqual(a, b), "identical contents in freshly built slices must compare equal")
	assert.True(t, SequenceEqual(nil, nil))
	assert.True(t, SequenceEqual(a, a))
}

func TestSequenceEqual_Differences(t *testing.T) {
	base := []models.MCumulativeRow{{Price: 200, Qty: 5, CumulativeQty: 5}}

	assert.False(t, SequenceEqual(base, nil))
	assert.False(t, SequenceEqual(base, []models.MCumulativeRow{{Price: 200, Qty: 6, CumulativeQty: 6}}))
	assert.False(t, SequenceEqual(base, append(base, models.MCumulativeRow{Price: 100, Qty: 1, CumulativeQty: 6})))
}
