package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeline-lab/catalog"
	"timeline-lab/moderation"
	"timeline-lab/repositories"
	"timeline-lab/runtime"
	"timeline-lab/runtime/workers"
	"timeline-lab/services"
	"timeline-lab/storage"
	"timeline-lab/transport"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal or a server failure.
// Returning instead of exiting lets the deferred flush and DB close happen.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	censoredChar, err := config.CharacterRune()
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Rooms: restore, then persist every change
	repository := repositories.NewRoomRepository(db, log)
	saver := storage.NewDebouncedSaver(log, repository, config.SaveDebounce)
	registry, err := runtime.NewRegistry(log,
		runtime.WithMaxAge(config.RoomMaxAge),
		runtime.WithPersister(saver),
	)
	if err != nil {
		return err
	}
	registry.Restore(repository.Load())
	saver.Attach(registry)
	// Runs before the DB is closed.
	defer saver.Close()
	registry.CleanupOldRooms()

	// 4. Catalog & moderation
	catalogOptions := []catalog.Option{catalog.WithTTL(config.CatalogTTL)}
	if config.CatalogFetchImages {
		catalogOptions = append(catalogOptions,
			catalog.WithImageResolver(catalog.NewGeekdoClient(log, catalog.DefaultGeekdoURL, config.CatalogTimeout)))
	}
	provider := catalog.NewProvider(log, catalogOptions...)

	censored, err := moderation.NewCensoredLoader(nil).LoadAll(moderation.CensoredDir)
	if err != nil {
		return fmt.Errorf("censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, censoredChar, log)
	if err != nil {
		return fmt.Errorf("moderator: %w", err)
	}
	log.Info("Moderation ready", "languages", censored.Languages)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewCleanupWorker(log, registry, config.CleanupInterval),
		workers.NewMonitoringWorker(log, registry, config.MonitoringInterval),
		workers.NewCatalogRefreshWorker(log, provider, config.CatalogTTL*9/10),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()
	go provider.Warmup(ctx)

	// 7. HTTP + websocket server
	gin.SetMode(gin.ReleaseMode)
	hub := transport.NewHub(log)
	service := services.NewGameService(log, registry, provider, hub, &moderator)
	router := transport.NewRouter(ctx, log, transport.RouterConfig{
		AllowedOrigins:     config.Origins(),
		RateLimitPerSecond: config.RateLimitPerSecond,
		RateLimitBurst:     config.RateLimitBurst,
	}, hub, service)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	// 8. gRPC health
	healthServer, err := transport.NewHealthServer(log, fmt.Sprintf("%s:%d", config.Host, config.GRPCPort))
	if err != nil {
		return err
	}

	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !goerrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		if err := healthServer.Serve(ctx); err != nil {
			errChan <- err
		}
	}()

	// 9. Wait for Stop or Error
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-errChan:
		log.Error("Server failed, shutting down", "error", runErr)
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return runErr
}
