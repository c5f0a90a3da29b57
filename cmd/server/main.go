package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chudopoly/server-go/internal/bot"
	"github.com/chudopoly/server-go/internal/config"
	"github.com/chudopoly/server-go/internal/room"
	"github.com/chudopoly/server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Chudopoly GO server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	delays := bot.DefaultDelays()
	if cfg.Bot.SpeedFactor != 1.0 {
		delays = delays.Scale(cfg.Bot.SpeedFactor)
	}
	sched := bot.NewScheduler(logger, delays)
	logger.Info("bot scheduler initialized", zap.Float64("speed_factor", cfg.Bot.SpeedFactor))

	store := room.NewStore(logger, cfg.Room.IdleTimeout, cfg.Room.SweepInterval, sched.Cancel)
	defer store.Close()
	logger.Info("room store initialized",
		zap.Duration("idle_timeout", cfg.Room.IdleTimeout),
		zap.Duration("sweep_interval", cfg.Room.SweepInterval),
	)

	gateway := server.New(logger, store, sched)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: gateway.Handler(),
	}

	go func() {
		logger.Info("listening", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(serveErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	sched.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	logger.Info("Chudopoly GO server stopped")
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
