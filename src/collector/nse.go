package collector

import (
	"encoding/json"
	"fmt"
	"time"

	"ofs-monitor/src/helpers"
	"ofs-monitor/src/interfaces"
	"ofs-monitor/src/logger"
	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
	"ofs-monitor/src/utils"
)

// -----------------------------------------------------------------------------
// NSE collector
// -----------------------------------------------------------------------------
// Reads the JSON feed behind NSE's OFS information page. The endpoint only
// answers requests carrying the session cookies the homepage sets, so every
// fetch goes through the network manager's warmup first.
// -----------------------------------------------------------------------------

type NSECollector struct {
	*poller
	Config  *models.MConfig
	Network interfaces.INetworkManager
}

// -----------------------------------------------------------------------------

func NewNSECollector(cfg *models.MConfig, netMgr interfaces.INetworkManager, store *state.Store, cal *utils.TradingCalendar) *NSECollector {
	c := &NSECollector{
		Config:  cfg,
		Network: netMgr,
	}
	c.poller = &poller{
		store:    store,
		venue:    models.VenueNSE,
		name:     "nse",
		interval: time.Duration(cfg.Collectors.NSE.IntervalSeconds) * time.Second,
		calendar: cal,
		Logger:   logger.NewLogger(nil, "NSECollector"),
		fetch:    c.FetchBook,
	}
	return c
}

// -----------------------------------------------------------------------------
// Feed structure
// -----------------------------------------------------------------------------

type nseOFSResponse struct {
	Data []struct {
		Symbol     string `json:"symbol"`
		BidDetails []struct {
			PriceInterval string `json:"priceInterval"`
			NoOfBids      string `json:"noOfBids"`
			QtyConfirmed  string `json:"qtyConfirmed"`
		} `json:"bidDetails"`
	} `json:"data"`
}

// -----------------------------------------------------------------------------

// FetchBook performs one fetch+parse cycle against the NSE OFS feed.
func (c *NSECollector) FetchBook() (models.MVenueBook, *int64, error) {
	if err := c.Network.Warmup(c.Config.Collectors.NSE.WarmupURL); err != nil {
		return nil, nil, helpers.NewCollectorError("nse warmup", err)
	}

	params := map[string]string{}
	if c.Config.Issue.Symbol != "" {
		params["symbol"] = c.Config.Issue.Symbol
	}

	respBytes, err := c.Network.Get(c.Config.Collectors.NSE.URL, params)
	if err != nil {
		return nil, nil, helpers.NewCollectorError("nse fetch", err)
	}

	return c.parseResponse(respBytes)
}

// -----------------------------------------------------------------------------

// parseResponse turns the raw feed into a price->quantity book. Malformed rows
// are skipped individually and counted; an unparseable document is an error.
func (c *NSECollector) parseResponse(data []byte) (models.MVenueBook, *int64, error) {
	var resp nseOFSResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil, helpers.NewParseError("nse json unmarshal failed", err)
	}

	if len(resp.Data) == 0 {
		return nil, nil, helpers.NewParseError("nse feed carried no issues", nil)
	}

	// Pick the configured issue, or the first listed one when unset.
	issue := resp.Data[0]
	if c.Config.Issue.Symbol != "" {
		found := false
		for _, entry := range resp.Data {
			if entry.Symbol == c.Config.Issue.Symbol {
				issue = entry
				found = true
				break
			}
		}
		if !found {
			return nil, nil, helpers.NewParseError(fmt.Sprintf("symbol %s not present in nse feed", c.Config.Issue.Symbol), nil)
		}
	}

	book := make(models.MVenueBook, len(issue.BidDetails))
	var reserved *int64
	badRows := 0

	for _, row := range issue.BidDetails {
		price, qty, isCutoff, err := ParseRow(row.PriceInterval, row.QtyConfirmed)
		if err != nil {
			badRows++
			continue
		}

		if isCutoff {
			if reserved == nil {
				reserved = &qty
			}
			continue
		}
		book[price] += qty
	}

	if badRows > 0 {
		c.Logger.Warning("NSE parse: skipped %d malformed rows of %d", badRows, len(issue.BidDetails))
	}

	return book, reserved, nil
}
