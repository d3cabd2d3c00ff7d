package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fantasycard/battle-server-go/internal/config"
	"github.com/fantasycard/battle-server-go/internal/game"
	"github.com/fantasycard/battle-server-go/internal/game/card"
	"github.com/fantasycard/battle-server-go/internal/repository"
	"github.com/fantasycard/battle-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting battle server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	catalog, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	logger.Info("card catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("cards", catalog.Len()),
	)

	engine, err := game.NewBattleEngine(catalog, logger)
	if err != nil {
		logger.Fatal("failed to create battle engine", zap.Error(err))
	}

	hub, err := server.NewHub(engine, cfg.Server.WebSocket, cfg.Match, logger)
	if err != nil {
		logger.Fatal("failed to create websocket hub", zap.Error(err))
	}
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.WebSocket.Path, hub)
	httpServer := &http.Server{
		Addr:    cfg.Server.WebSocket.Address,
		Handler: mux,
	}

	grpcServer, healthServer := server.NewGRPCServer(cfg.Server.GRPC, logger)
	lis, err := net.Listen("tcp", cfg.Server.GRPC.Address)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}

	// Start gRPC health server
	go func() {
		logger.Info("starting gRPC server", zap.String("address", cfg.Server.GRPC.Address))
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
		}
	}()

	// Start WebSocket server
	go func() {
		logger.Info("starting WebSocket server",
			zap.String("address", cfg.Server.WebSocket.Address),
			zap.String("path", cfg.Server.WebSocket.Path),
		)
		if wsErr := httpServer.ListenAndServe(); wsErr != nil && !errors.Is(wsErr, http.ErrServerClosed) {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("battle server initialized",
		zap.String("version", version),
		zap.String("grpc_address", cfg.Server.GRPC.Address),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.String("difficulty", cfg.Match.Difficulty),
		zap.Duration("turn_time_limit", cfg.Match.TurnTimeLimit),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("WebSocket server shutdown", zap.Error(err))
	}
	cancel()

	for _, id := range engine.MatchIDs() {
		_ = engine.EndMatch(id)
	}

	grpcServer.GracefulStop()

	logger.Info("battle server stopped")
}

// loadCatalog reads the card catalog from the configured source.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*card.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		return card.LoadFile(cfg.Catalog.Path)

	case config.CatalogPostgres:
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		return repository.NewCardRepository(db).LoadCatalog(ctx)

	default:
		return card.Default(), nil
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
