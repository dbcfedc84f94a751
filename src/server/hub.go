package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ofs-monitor/src/engine"
	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
)

// How long the loop pauses after an unexpected cycle fault before resuming.
const loopFaultBackoff = 2 * time.Second

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runBroadcastLoop is the main Hub loop. It owns the subscriber set and the
// needsSnapshot flags outright: connection handlers only push new clients
// through the register channel, so no lock is needed around the set.
func (s *FastAPIServer) runBroadcastLoop(ctx context.Context) {
	period := time.Duration(s.Config.Broadcast.PeriodMs) * time.Millisecond
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.setClientCount(len(s.clients))

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.setClientCount(len(s.clients))
			}

		case <-ticker.C:
			s.runCycle()

		case <-ctx.Done():
			s.Logger.Info("Broadcast loop stopping")
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Broadcast cycle
// -----------------------------------------------------------------------------

// runCycle snapshots the venue state, rebuilds the consolidated book and
// decides, per subscriber, whether anything needs to be sent. An unexpected
// fault inside a cycle is logged and backed off; the loop itself never dies.
func (s *FastAPIServer) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("Broadcast cycle fault (recovered): %v", r)
			time.Sleep(loopFaultBackoff)
		}
	}()

	bundle := s.store.Snapshot()

	book := engine.Merge(
		bundle.NSEBook,
		bundle.BSEBook,
		reservedOrZero(bundle.NSEReserved),
		reservedOrZero(bundle.BSEReserved),
		s.Config.Issue.FloorPrice,
	)

	// No data yet: send nothing and keep every pending snapshot flag set, so
	// late joiners still get the full state on the first non-empty merge.
	if len(book) == 0 {
		return
	}

	rows, cutoffPrice := engine.Rank(book, s.Config.Issue.IssueSize)
	metrics := engine.Metrics(rows, s.Config.Issue.IssueSize)
	payload := s.assemblePayload(rows, cutoffPrice, metrics, bundle)

	changed := !engine.SequenceEqual(rows, s.lastSent)

	// Send pass over a stable view; removal is deferred until after it.
	var failed []*Client
	for client := range s.clients {
		if !changed && !client.needsSnapshot {
			continue
		}

		select {
		case client.send <- payload:
			client.needsSnapshot = false
		default:
			// Send buffer full: the client cannot keep up, treat as failed.
			failed = append(failed, client)
		}
	}

	for _, client := range failed {
		s.Logger.Warning("Dropping slow subscriber")
		delete(s.clients, client)
		close(client.send)
	}
	if len(failed) > 0 {
		s.setClientCount(len(s.clients))
	}

	s.lastSent = rows
	s.setLatestPayload(payload)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) assemblePayload(
	rows []models.MCumulativeRow,
	cutoffPrice *float64,
	metrics models.MSubscriptionMetrics,
	bundle state.Bundle,
) *models.MBookPayload {
	return &models.MBookPayload{
		Data: rows,
		Meta: models.MBookMeta{
			CutoffPrice:       cutoffPrice,
			TotalDemand:       metrics.TotalDemand,
			SubscriptionPct:   metrics.SubscriptionPct,
			RemainingQty:      metrics.RemainingQty,
			Oversubscribed:    metrics.Oversubscribed,
			TopPrice:          metrics.TopPrice,
			IssueSize:         s.Config.Issue.IssueSize,
			VenueALastUpdated: unixOrNil(bundle.NSELastUpdated),
			VenueBLastUpdated: unixOrNil(bundle.BSELastUpdated),
		},
	}
}

// -----------------------------------------------------------------------------

func reservedOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func unixOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ts := t.Unix()
	return &ts
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send:          make(chan *models.MBookPayload, 64),
		needsSnapshot: true,
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
