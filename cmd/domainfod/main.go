package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tvaz/domainfo/internal/domainfo/common/clock"
	"github.com/tvaz/domainfo/internal/domainfo/common/log"
	"github.com/tvaz/domainfo/internal/domainfo/config"
	"github.com/tvaz/domainfo/internal/domainfo/gateways/dnsclient"
	"github.com/tvaz/domainfo/internal/domainfo/gateways/httpapi"
	"github.com/tvaz/domainfo/internal/domainfo/gateways/whoisclient"
	"github.com/tvaz/domainfo/internal/domainfo/repos/domainstore"
	"github.com/tvaz/domainfo/internal/domainfo/repos/viewcache"
	"github.com/tvaz/domainfo/internal/domainfo/services/lookup"
)

const (
	version = "0.1.0-dev"
	appName = "domainfod"

	shutdownTimeout = 10 * time.Second
)

// Application holds the wired components of the resolution service.
type Application struct {
	config *config.AppConfig
	server *httpapi.Server
	store  *domainstore.BoltStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":         appName,
		"version":     version,
		"env":         cfg.Env,
		"log_level":   cfg.LogLevel,
		"port":        cfg.Port,
		"db_path":     cfg.DBPath,
		"dns_servers": cfg.DNSServers,
		"min_ttl":     cfg.MinTTLSeconds,
	}, "Starting domain resolution service")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}
	defer app.store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "Domain resolution service stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := clock.RealClock{}
	logger := log.GetLogger()

	store, err := domainstore.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open domain store: %w", err)
	}

	cache, err := buildViewCache(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	dnsClient, err := dnsclient.New(dnsclient.Options{
		Servers: cfg.DNSServers,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create DNS client: %w", err)
	}

	whoisClient := whoisclient.New(whoisclient.Options{
		Timeout: time.Duration(cfg.WhoisTimeoutSeconds) * time.Second,
	})

	service := lookup.NewService(lookup.Options{
		DNS:           dnsClient,
		Whois:         whoisClient,
		Store:         store,
		Cache:         cache,
		Clock:         clk,
		Logger:        logger,
		MinTTLSeconds: cfg.MinTTLSeconds,
		NSTimeout:     time.Duration(cfg.NSTimeoutSeconds) * time.Second,
	})

	server := httpapi.New(service, logger, cfg.Env)

	return &Application{config: cfg, server: server, store: store}, nil
}

// buildViewCache picks the in-memory LRU tier, or Redis when configured.
func buildViewCache(cfg *config.AppConfig, logger log.Logger) (lookup.ViewCache, error) {
	ttl := time.Duration(cfg.CacheMinutes) * time.Minute

	if cfg.RedisAddr != "" {
		cache, err := viewcache.NewRedis(cfg.RedisAddr, os.Getenv("DOMAINFO_REDIS_PASSWORD"), ttl, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis view cache: %w", err)
		}
		log.Info(map[string]any{"addr": cfg.RedisAddr, "ttl": ttl.String()}, "Redis view cache configured")
		return cache, nil
	}

	log.Info(map[string]any{
		"type": "LRU",
		"size": cfg.CacheSize,
		"ttl":  ttl.String(),
	}, "In-memory view cache configured")
	return viewcache.NewMemory(cfg.CacheSize, ttl), nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (app *Application) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- app.server.Start(fmt.Sprintf(":%d", app.config.Port))
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.server.Stop(shutdownCtx)
}
