package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"ofs-monitor/src/collector"
	"ofs-monitor/src/config"
	"ofs-monitor/src/interfaces"
	"ofs-monitor/src/logger"
	"ofs-monitor/src/network"
	"ofs-monitor/src/server"
	"ofs-monitor/src/state"
	"ofs-monitor/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Optional .env (absent in production deployments)
	godotenv.Load()

	defaultConfig := "config/default.yaml"
	if envPath := os.Getenv("OFS_CONFIG"); envPath != "" {
		defaultConfig = envPath
	}

	// Parse command line flags
	configPath := flag.String("config", defaultConfig, "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config, config.Name)

	// 2. Shared venue state
	store := state.NewStore()

	// 3. Network manager (shared cookie jar across both collectors)
	netMgr := network.NewAsyncNetworkManager(config.MConfig, appLogger)

	// 4. Optional market-hours gate
	var cal *utils.TradingCalendar
	if config.Collectors.MarketHoursOnly {
		cal = utils.NewIndiaCalendar(appLogger)
	}

	// 5. Collectors
	var collectors []interfaces.ICollector
	if config.Collectors.NSE.Enabled {
		collectors = append(collectors, collector.NewNSECollector(config.MConfig, netMgr, store, cal))
	}
	if config.Collectors.BSE.Enabled {
		collectors = append(collectors, collector.NewBSECollector(config.MConfig, netMgr, store, cal))
	}

	// 6. Server (REST + WebSocket hub + broadcast loop)
	var srv interfaces.IDataExchanger = server.NewFastAPIServer(config.MConfig, appLogger, store)

	// 7. Start collectors
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	for _, col := range collectors {
		if err := col.Start(ctx, wg); err != nil {
			appLogger.Critical("Failed to start collector %s: %v", col.Name(), err)
		}
	}

	// 8. Start server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	appLogger.Info("Tracking %s (issue size %d, floor %.2f)",
		config.Issue.Symbol, config.Issue.IssueSize, config.Issue.FloorPrice)

	// 9. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()     // Signal collectors to stop
	srv.Stop()   // Stop the broadcast loop
	wg.Wait()    // Wait for collectors to close
}
