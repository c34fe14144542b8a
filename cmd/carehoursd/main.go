package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/config"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/genesis"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/explorer"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/integrations/webhooks"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/observability"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/observability/logging"
	telemetry "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/observability/otel"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/rpc"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

const serviceName = "carehoursd"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to the genesis YAML (overrides GenesisFile)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if path := strings.TrimSpace(*genesisFlag); path != "" {
		cfg.GenesisFile = path
	}

	opts := []logging.Option{logging.WithLevel(logging.ParseLevel(cfg.LogLevel))}
	if cfg.LogFile != "" {
		opts = append(opts, logging.WithFile(cfg.LogFile))
	}
	logger := logging.Setup(serviceName, cfg.Environment, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("carehoursd exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		Headers:     telemetry.ParseHeaders(cfg.OTLPHeaders),
		Metrics:     true,
		Traces:      true,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("telemetry shutdown", slog.Any("error", err))
		}
	}()

	// An existing chain does not need the genesis file.
	spec, err := genesis.LoadSpec(cfg.GenesisFile)
	if errors.Is(err, fs.ErrNotExist) {
		spec = nil
	} else if err != nil {
		return fmt.Errorf("load genesis: %w", err)
	}

	db, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	node, err := core.NewNode(db, spec, core.WithLogger(logger), core.WithObserver(observability.Node()))
	if err != nil {
		return fmt.Errorf("start node: %w", err)
	}

	rpcCfg := rpc.Config{
		JWTSecret:          cfg.JWTSecret,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
		Metrics:            observability.RPC(),
	}

	if dsn := strings.TrimSpace(cfg.EventArchiveDSN); dsn != "" {
		archive, err := explorer.Open(dsn)
		if err != nil {
			return fmt.Errorf("open event archive: %w", err)
		}
		defer archive.Close()
		node.AddEventHook(archive.Hook(logger))
		rpcCfg.Archive = archive
		logger.Info("event archive enabled")
	}

	if endpoint := strings.TrimSpace(cfg.WebhookURL); endpoint != "" {
		dispatcher, err := webhooks.NewDispatcher(endpoint, []byte(cfg.WebhookSecret), webhooks.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("configure webhooks: %w", err)
		}
		defer dispatcher.Close()
		node.AddEventHook(dispatcher.Hook())
		logger.Info("dispute webhooks enabled", slog.String("endpoint", endpoint))
	}

	go produceBlocks(ctx, node, cfg.BlockDuration(), logger)

	logger.Info("serving RPC",
		slog.String("address", cfg.RPCAddress),
		slog.Uint64("height", node.Height()))
	return rpc.NewServer(node, rpcCfg).Serve(ctx, cfg.RPCAddress)
}

// produceBlocks seals a block on every tick so booking timeouts advance with
// wall-clock time.
func produceBlocks(ctx context.Context, node *core.Node, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			header, err := node.ProduceBlock()
			if err != nil {
				logger.Error("produce block", slog.Any("error", err))
				continue
			}
			logger.Debug("block produced", slog.Uint64("height", header.Height))
		}
	}
}
