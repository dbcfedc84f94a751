package collector

import (
	"bytes"
	"strings"
	"time"

	"golang.org/x/net/html"

	"ofs-monitor/src/helpers"
	"ofs-monitor/src/interfaces"
	"ofs-monitor/src/logger"
	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
	"ofs-monitor/src/utils"
)

// -----------------------------------------------------------------------------
// BSE collector
// -----------------------------------------------------------------------------
// Scrapes the BSE OFS bid-details page: a plain HTML document whose bid table
// is the one carrying cellpadding="4" cellspacing="1". Column 0 is the price
// (or the "CO" cutoff marker), column 2 the confirmed quantity.
// -----------------------------------------------------------------------------

type BSECollector struct {
	*poller
	Config  *models.MConfig
	Network interfaces.INetworkManager
}

// -----------------------------------------------------------------------------

func NewBSECollector(cfg *models.MConfig, netMgr interfaces.INetworkManager, store *state.Store, cal *utils.TradingCalendar) *BSECollector {
	c := &BSECollector{
		Config:  cfg,
		Network: netMgr,
	}
	c.poller = &poller{
		store:    store,
		venue:    models.VenueBSE,
		name:     "bse",
		interval: time.Duration(cfg.Collectors.BSE.IntervalSeconds) * time.Second,
		calendar: cal,
		Logger:   logger.NewLogger(nil, "BSECollector"),
		fetch:    c.FetchBook,
	}
	return c
}

// -----------------------------------------------------------------------------

// FetchBook performs one fetch+parse cycle against the BSE bid-details page.
func (c *BSECollector) FetchBook() (models.MVenueBook, *int64, error) {
	params := map[string]string{
		"flag":      "NR",
		"Scripcode": c.Config.Issue.Scripcode,
	}

	respBytes, err := c.Network.Get(c.Config.Collectors.BSE.URL, params)
	if err != nil {
		return nil, nil, helpers.NewCollectorError("bse fetch", err)
	}

	return c.parsePage(respBytes)
}

// -----------------------------------------------------------------------------

// parsePage extracts the bid table rows from the page. Malformed rows (headers
// included, which never parse) are skipped individually and counted.
func (c *BSECollector) parsePage(page []byte) (models.MVenueBook, *int64, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil, helpers.NewParseError("bse html parse failed", err)
	}

	table := findBidTable(doc)
	if table == nil {
		return nil, nil, helpers.NewParseError("bse bid table not found in page", nil)
	}

	rows := tableRows(table)
	book := make(models.MVenueBook, len(rows))
	var reserved *int64
	badRows := 0

	for _, cells := range rows {
		if len(cells) < 3 {
			badRows++
			continue
		}

		price, qty, isCutoff, err := ParseRow(cells[0], cells[2])
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
		c.Logger.Debug("BSE parse: skipped %d non-data rows of %d", badRows, len(rows))
	}

	return book, reserved, nil
}

// -----------------------------------------------------------------------------
// HTML walking
// -----------------------------------------------------------------------------

// findBidTable locates the table node with cellpadding="4" cellspacing="1".
func findBidTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		var padding, spacing string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "cellpadding":
				padding = attr.Val
			case "cellspacing":
				spacing = attr.Val
			}
		}
		if padding == "4" && spacing == "1" {
			return n
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findBidTable(child); found != nil {
			return found
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// tableRows collects the trimmed cell texts of every tr in the table.
func tableRows(table *html.Node) [][]string {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for cell := n.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type == html.ElementNode && cell.Data == "td" {
					cells = append(cells, strings.TrimSpace(nodeText(cell)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(table)

	return rows
}

// -----------------------------------------------------------------------------

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(nodeText(child))
	}
	return sb.String()
}
