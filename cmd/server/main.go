package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/huntboard/pkg/api"
	"github.com/cbodonnell/huntboard/pkg/catalog"
	"github.com/cbodonnell/huntboard/pkg/hunt"
	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/network"
	"github.com/cbodonnell/huntboard/pkg/queue"
	"github.com/cbodonnell/huntboard/pkg/repositories"
	"github.com/cbodonnell/huntboard/pkg/rooms"
	"github.com/cbodonnell/huntboard/pkg/version"
	"github.com/cbodonnell/huntboard/pkg/workers"
)

const (
	clientMessageQueueSize = 10000
	broadcastEventChanSize = 1024
	shutdownTimeout        = 5 * time.Second
)

func main() {
	apiPort := flag.Int("api-port", 8080, "HTTP API port to listen on")
	wsPort := flag.Int("ws-port", 8081, "WebSocket port to listen on")
	dbPath := flag.String("db", "huntboard.db", "Path to the SQLite database file")
	sqliteMigrations := flag.String("sqlite-migrations", "migrations/sqlite", "Path to the SQLite migrations directory")
	postgresMigrations := flag.String("postgres-migrations", "migrations/postgres", "Path to the Postgres migrations directory")
	catalogPath := flag.String("catalog", "hunt_items.csv", "Path to the hunt item catalog CSV")
	apiTLSCert := flag.String("api-tls-cert", "", "Path to the API server TLS certificate")
	apiTLSKey := flag.String("api-tls-key", "", "Path to the API server TLS key")
	wsTLSCert := flag.String("ws-tls-cert", "", "Path to the WebSocket server TLS certificate")
	wsTLSKey := flag.String("ws-tls-key", "", "Path to the WebSocket server TLS key")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repository repositories.Repository
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err = repositories.NewPostgresRepository(ctx, connStr, *postgresMigrations)
		if err != nil {
			panic(fmt.Sprintf("Failed to create postgres repository: %v", err))
		}
		log.Info("Using postgres repository")
	} else {
		repository, err = repositories.NewSQLiteRepository(ctx, *dbPath, *sqliteMigrations)
		if err != nil {
			panic(fmt.Sprintf("Failed to create sqlite repository: %v", err))
		}
		log.Info("Using sqlite repository at %s", *dbPath)
	}
	defer repository.Close(ctx)

	if _, err := os.Stat(*catalogPath); err == nil {
		records, err := catalog.LoadFile(*catalogPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load catalog: %v", err))
		}
		if err := repository.ReloadCatalog(ctx, records); err != nil {
			panic(fmt.Sprintf("Failed to reload catalog: %v", err))
		}
		log.Info("Loaded %d hunt items from %s", len(records), *catalogPath)
	} else {
		log.Warn("Catalog file %s not found, keeping existing hunt items", *catalogPath)
	}

	registry := rooms.NewRegistry()

	broadcastEventChan := make(chan *hunt.ToggleResult, broadcastEventChanSize)
	coordinator := hunt.NewCoordinator(hunt.NewCoordinatorOptions{
		Repository: repository,
		Publisher: func(result *hunt.ToggleResult) {
			select {
			case broadcastEventChan <- result:
			default:
				log.Error("Broadcast event channel is full, dropping event for game %s", result.GameID)
			}
		},
	})
	service := hunt.NewService(hunt.NewServiceOptions{
		Repository:  repository,
		Coordinator: coordinator,
	})

	broadcastEventWorker := workers.NewBroadcastEventWorker(workers.NewBroadcastEventWorkerOptions{
		Registry:           registry,
		BroadcastEventChan: broadcastEventChan,
	})
	go broadcastEventWorker.Start(ctx)

	connectionManager := network.NewConnectionManager()
	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ConnectionEventChan: connectionManager.GetConnectionEventChan(),
		Registry:            registry,
	})
	go connectionEventWorker.Start(ctx)

	clientMessageQueue := queue.NewInMemoryQueue(clientMessageQueueSize)
	clientMessageWorker := workers.NewClientMessageWorker(workers.NewClientMessageWorkerOptions{
		MessageQueue: clientMessageQueue,
		Registry:     registry,
		Service:      service,
	})
	go clientMessageWorker.Start(ctx)

	var wsTLS *network.TLSConfig
	if *wsTLSCert != "" && *wsTLSKey != "" {
		wsTLS = &network.TLSConfig{
			CertFile: *wsTLSCert,
			KeyFile:  *wsTLSKey,
		}
	}
	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port:              *wsPort,
		TLS:               wsTLS,
		ConnectionManager: connectionManager,
		MessageQueue:      clientMessageQueue,
	})
	go wsServer.Start(ctx)

	var apiTLS *api.TLSConfig
	if *apiTLSCert != "" && *apiTLSKey != "" {
		apiTLS = &api.TLSConfig{
			CertFile: *apiTLSCert,
			KeyFile:  *apiTLSKey,
		}
	}
	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:    *apiPort,
		TLS:     apiTLS,
		Service: service,
	})
	go apiServer.Start()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	clientMessageQueue.Close()
}
