package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
)

func testConfig() *models.MConfig {
	return &models.MConfig{
		Name: "test",
		Issue: models.MIssueConfig{
			Symbol:     "HINDUNILVR",
			Scripcode:  "500188",
			IssueSize:  1000,
			FloorPrice: 150,
		},
		Collectors: models.MCollectorsConfig{
			NSE: models.MCollectorConfig{Enabled: true, URL: "http://example.test/nse", IntervalSeconds: 30},
			BSE: models.MCollectorConfig{Enabled: true, URL: "http://example.test/bse", IntervalSeconds: 60},
		},
	}
}

func TestNSECollector_ParseResponse(t *testing.T) {
	c := NewNSECollector(testConfig(), nil, state.NewStore(), nil)

	feed := []byte(`{
		"data": [
			{
				"symbol": "OTHERCO",
				"bidDetails": [{"priceInterval": "10.00", "noOfBids": "1", "qtyConfirmed": "999"}]
			},
			{
				"symbol": "HINDUNILVR",
				"bidDetails": [
					{"priceInterval": "2,450.00", "noOfBids": "12", "qtyConfirmed": "1,200"},
					{"priceInterval": "2,400.00", "noOfBids": "5", "qtyConfirmed": "800"},
					{"priceInterval": "CO", "noOfBids": "3", "qtyConfirmed": "500"},
					{"priceInterval": "garbage", "noOfBids": "1", "qtyConfirmed": "10"}
				]
			}
		]
	}`)

	book, reserved, err := c.parseResponse(feed)
	require.NoError(t, err)

	assert.Equal(t, models.MVenueBook{2450: 1200, 2400: 800}, book, "cutoff and malformed rows stay out of the priced book")
	require.NotNil(t, reserved)
	assert.Equal(t, int64(500), *reserved)
}

func TestNSECollector_ParseResponseSymbolMissing(t *testing.T) {
	c := NewNSECollector(testConfig(), nil, state.NewStore(), nil)

	_, _, err := c.parseResponse([]byte(`{"data": [{"symbol": "OTHERCO", "bidDetails": []}]}`))
	assert.Error(t, err)
}

func TestNSECollector_ParseResponseBadDocument(t *testing.T) {
	c := NewNSECollector(testConfig(), nil, state.NewStore(), nil)

	_, _, err := c.parseResponse([]byte(`<html>blocked</html>`))
	assert.Error(t, err)

	_, _, err = c.parseResponse([]byte(`{"data": []}`))
	assert.Error(t, err)
}

func TestNSECollector_ParseResponseFirstIssueWhenNoSymbolConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Issue.Symbol = ""
	c := NewNSECollector(cfg, nil, state.NewStore(), nil)

	book, _, err := c.parseResponse([]byte(`{
		"data": [{"symbol": "FIRSTCO", "bidDetails": [{"priceInterval": "100", "qtyConfirmed": "7"}]}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, models.MVenueBook{100: 7}, book)
}
