package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"ofs-monitor/src/logger"
	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
)

// -----------------------------------------------------------------------------
// FastAPIServer
// -----------------------------------------------------------------------------

type FastAPIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine
	store  *state.Store

	// WebSocket clients (owned by the broadcast loop goroutine)
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client

	// Previously sent cumulative sequence, for change detection.
	// Only the broadcast loop touches it.
	lastSent []models.MCumulativeRow

	// Read side for the REST handlers
	latestPayload *models.MBookPayload
	clientCount   int
	stateMutex    sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewFastAPIServer(cfg *models.MConfig, log *logger.Logger, store *state.Store) *FastAPIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &FastAPIServer{
		Config:     cfg,
		Logger:     log,
		engine:     gin.Default(),
		store:      store,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/book", s.getBook)
	s.engine.GET("/api/config", s.getConfig)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *FastAPIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runBroadcastLoop(s.ctx)

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) Stop() error {
	s.cancel()
	return nil
}

// -----------------------------------------------------------------------------
// Shared state helpers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setClientCount(n int) {
	s.stateMutex.Lock()
	s.clientCount = n
	s.stateMutex.Unlock()
}

func (s *FastAPIServer) ClientCount() int {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.clientCount
}

func (s *FastAPIServer) setLatestPayload(p *models.MBookPayload) {
	s.stateMutex.Lock()
	s.latestPayload = p
	s.stateMutex.Unlock()
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	now := time.Now()
	maxAge := time.Duration(s.Config.Broadcast.StaleAfterSeconds) * time.Second

	_, nseUpdated := s.store.ReadBook(models.VenueNSE)
	_, bseUpdated := s.store.ReadBook(models.VenueBSE)

	c.JSON(200, gin.H{
		"status":      "ok",
		"connections": s.ClientCount(),
		"venues": gin.H{
			"nse": gin.H{
				"levels":       s.store.Size(models.VenueNSE),
				"last_updated": unixOrNil(nseUpdated),
				"live":         s.store.IsLive(models.VenueNSE, now, maxAge),
			},
			"bse": gin.H{
				"levels":       s.store.Size(models.VenueBSE),
				"last_updated": unixOrNil(bseUpdated),
				"live":         s.store.IsLive(models.VenueBSE, now, maxAge),
			},
		},
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getBook(c *gin.Context) {
	s.stateMutex.RLock()
	payload := s.latestPayload
	s.stateMutex.RUnlock()

	if payload == nil {
		c.JSON(404, gin.H{"error": "no data yet"})
		return
	}

	c.JSON(200, payload)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getConfig(c *gin.Context) {
	c.JSON(200, gin.H{
		"symbol":              s.Config.Issue.Symbol,
		"issue_size":          s.Config.Issue.IssueSize,
		"floor_price":         s.Config.Issue.FloorPrice,
		"broadcast_period_ms": s.Config.Broadcast.PeriodMs,
		"stale_after_seconds": s.Config.Broadcast.StaleAfterSeconds,
	})
}
