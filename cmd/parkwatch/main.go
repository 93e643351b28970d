package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"parkwatch/internal/auth"
	"parkwatch/internal/config"
	"parkwatch/internal/database"
	"parkwatch/internal/metrics"
	"parkwatch/internal/stream"
	"parkwatch/internal/ws"
)

func main() {
	var (
		configF   = flag.String("config", "", "Path to the JSON configuration file")
		httpPortF = flag.Int("http-port", 0, "HTTP port (overrides the configured port)")
		dbgF      = flag.Bool("debug", false, "Log request details")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[parkwatch] ", log.Ltime)

	cfg, err := config.Load(*configF)
	if err != nil {
		logger.Fatalf("loading configuration: %s", err)
	}
	if *httpPortF > 0 {
		cfg.HTTPPort = *httpPortF
	}
	if len(cfg.Streams) == 0 {
		logger.Println("warning: no streams configured, serving API only")
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatalf("opening database: %s", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatalf("migrating database: %s", err)
	}

	authenticator := auth.NewAuthenticator()
	hub := ws.NewOccupancyHub()
	m := metrics.New(hub)
	broadcaster := stream.NewBroadcaster()

	manager := stream.NewManager(cfg, stream.WorkerDeps{
		Hub:         hub,
		DB:          db,
		Metrics:     m,
		Broadcaster: broadcaster,
	})
	manager.StartAll()

	// Channel used by both the signal handler and the server goroutine to
	// notify the main goroutine when to stop.
	errc := make(chan error)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	srv := &server{
		cfg:           cfg,
		db:            db,
		authenticator: authenticator,
		hub:           hub,
		metrics:       m,
		broadcaster:   broadcaster,
		manager:       manager,
		logger:        logger,
		debug:         *dbgF,
	}
	handleHTTPServer(ctx, srv, &wg, errc)

	logger.Printf("exiting (%v)", <-errc)

	cancel()
	manager.StopAll()
	wg.Wait()
	logger.Println("exited")
}
