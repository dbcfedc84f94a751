package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofs-monitor/src/logger"
	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
)

// newTestServer builds a server wired for direct runCycle calls, without the
// gin engine or the broadcast goroutine running.
func newTestServer(store *state.Store) *FastAPIServer {
	cfg := &models.MConfig{
		Name: "test",
		Issue: models.MIssueConfig{
			Symbol:     "HINDUNILVR",
			IssueSize:  100,
			FloorPrice: 150,
		},
		Broadcast: models.MBroadcastConfig{
			PeriodMs:          500,
			StaleAfterSeconds: 120,
		},
	}
	return &FastAPIServer{
		Config:     cfg,
		Logger:     logger.NewLogger(cfg, "TestServer"),
		store:      store,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 4),
		unregister: make(chan *Client, 4),
	}
}

func newTestClient() *Client {
	return &Client{
		send:          make(chan *models.MBookPayload, 64),
		needsSnapshot: true,
	}
}

// -----------------------------------------------------------------------------

func TestRunCycle_EmptyStoreSendsNothing(t *testing.T) {
	s := newTestServer(state.NewStore())
	client := newTestClient()
	s.clients[client] = struct{}{}

	s.runCycle()

	assert.Empty(t, client.send, "no payload should go out before any data exists")
	assert.True(t, client.needsSnapshot, "pending snapshot must survive empty cycles")
	assert.Nil(t, s.latestPayload)
}

func TestRunCycle_NewSubscriberGetsSnapshot(t *testing.T) {
	store := state.NewStore()
	store.ReplaceBook(models.VenueNSE, models.MVenueBook{200: 60, 300: 50})
	store.TouchUpdated(models.VenueNSE, time.Now())

	s := newTestServer(store)
	client := newTestClient()
	s.clients[client] = struct{}{}

	s.runCycle()

	require.Len(t, client.send, 1)
	payload := <-client.send

	assert.False(t, client.needsSnapshot)
	assert.Equal(t, []models.MCumulativeRow{
		{Price: 300, Qty: 50, CumulativeQty: 50},
		{Price: 200, Qty: 60, CumulativeQty: 110},
	}, payload.Data)
	require.NotNil(t, payload.Meta.CutoffPrice)
	assert.Equal(t, 200.0, *payload.Meta.CutoffPrice)
	assert.Equal(t, int64(110), payload.Meta.TotalDemand)
	assert.Equal(t, 110.0, payload.Meta.SubscriptionPct)
	assert.True(t, payload.Meta.Oversubscribed)
	require.NotNil(t, payload.Meta.VenueALastUpdated)
	assert.Nil(t, payload.Meta.VenueBLastUpdated)

	assert.Same(t, payload, s.latestPayload, "REST read side sees the broadcast payload")
}

func TestRunCycle_UnchangedBookSkipsCaughtUpClients(t *testing.T) {
	store := state.NewStore()
	store.ReplaceBook(models.VenueBSE, models.MVenueBook{200: 150})

	s := newTestServer(store)
	caughtUp := newTestClient()
	s.clients[caughtUp] = struct{}{}

	s.runCycle()
	require.Len(t, caughtUp.send, 1)
	<-caughtUp.send

	// Same book, plus a late joiner: only the joiner needs a send.
	late := newTestClient()
	s.clients[late] = struct{}{}

	s.runCycle()

	assert.Empty(t, caughtUp.send, "unchanged sequence must not be resent")
	require.Len(t, late.send, 1)
	assert.False(t, late.needsSnapshot)
}

func TestRunCycle_ChangedBookReachesEveryone(t *testing.T) {
	store := state.NewStore()
	store.ReplaceBook(models.VenueNSE, models.MVenueBook{200: 150})

	s := newTestServer(store)
	client := newTestClient()
	s.clients[client] = struct{}{}

	s.runCycle()
	<-client.send

	store.ReplaceBook(models.VenueNSE, models.MVenueBook{200: 175})
	s.runCycle()

	require.Len(t, client.send, 1)
	payload := <-client.send
	assert.Equal(t, int64(175), payload.Meta.TotalDemand)
}

func TestRunCycle_SlowClientDropped(t *testing.T) {
	store := state.NewStore()
	store.ReplaceBook(models.VenueNSE, models.MVenueBook{200: 150})

	s := newTestServer(store)
	slow := &Client{
		send:          make(chan *models.MBookPayload), // no buffer, no reader
		needsSnapshot: true,
	}
	healthy := newTestClient()
	s.clients[slow] = struct{}{}
	s.clients[healthy] = struct{}{}

	s.runCycle()

	assert.NotContains(t, s.clients, slow)
	assert.Contains(t, s.clients, healthy)
	assert.Equal(t, 1, s.ClientCount())

	_, open := <-slow.send
	assert.False(t, open, "dropped client's channel must be closed")

	require.Len(t, healthy.send, 1)
}

func TestRunCycle_ReservedQtyFoldedAtFloor(t *testing.T) {
	store := state.NewStore()
	store.ReplaceBook(models.VenueNSE, models.MVenueBook{200: 40})
	store.SetReservedOnce(models.VenueNSE, 10)

	s := newTestServer(store)
	client := newTestClient()
	s.clients[client] = struct{}{}

	s.runCycle()

	require.Len(t, client.send, 1)
	payload := <-client.send
	assert.Equal(t, []models.MCumulativeRow{
		{Price: 200, Qty: 40, CumulativeQty: 40},
		{Price: 150, Qty: 10, CumulativeQty: 50},
	}, payload.Data)
	assert.Equal(t, int64(50), payload.Meta.TotalDemand)
}
