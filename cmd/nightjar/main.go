// Package main provides the nightjar CLI: it opens an observed browser
// page, watches it for passwordless sign-in submissions matching the
// configured identity, and issues a local verification session when a
// provider confirmation is detected.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/nightjar-dev/nightjar/pkg/browser"
	"github.com/nightjar-dev/nightjar/pkg/config"
	"github.com/nightjar-dev/nightjar/pkg/logging"
	"github.com/nightjar-dev/nightjar/pkg/session"
	"github.com/nightjar-dev/nightjar/pkg/watch"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	URL         string
	Headless    bool
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("nightjar v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Graceful shutdown on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		log.Printf("nightjar failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (default ~/.nightjar/config.yaml)")
	flag.StringVar(&cli.URL, "url", "", "Page to open and watch (required)")
	flag.BoolVar(&cli.Headless, "headless", true, "Run the browser without a visible window")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nightjar - passwordless sign-in watcher\n\n")
		fmt.Fprintf(os.Stderr, "Usage: nightjar -url <page> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return cli
}

func run(ctx context.Context, cli *CLIConfig) error {
	if cli.URL == "" {
		flag.Usage()
		return fmt.Errorf("-url is required")
	}

	cfgFile, err := config.Load(cli.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := cfgFile.Config()

	logger, err := logging.NewLogger("nightjar")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Infof("nightjar v%s starting, config %s", version, cfgFile.Path())

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	issuer := session.NewIssuer(store, &session.LogMailer{Log: logger},
		session.WithSubject(cfg.Mail.Subject),
		session.WithLinkBaseURL(cfg.Mail.LinkBaseURL),
		session.WithIssuerLogger(logger),
	)

	surface, err := browser.Launch(browser.Options{Headless: cli.Headless})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer surface.Close()

	if err := surface.Navigate(cli.URL); err != nil {
		return err
	}
	logger.Infof("watching %s", surface.URL())

	engine := watch.NewEngine(surface, cfgFile, watch.WithEngineLogger(logger))
	engine.RegisterCallback(func(d watch.Detection) {
		fmt.Printf("detected %s confirmation for %s\n", d.Intent, d.Identity)
		sess, err := issuer.Request(ctx, d.Identity)
		if err != nil {
			logger.Errorf("session issue after detection failed: %v", err)
			return
		}
		fmt.Printf("issued %s verification session for %s\n", sess.Kind, sess.Identity)
	})

	if err := engine.StartMonitoring(ctx); err != nil {
		return err
	}
	fmt.Printf("monitoring %s, press Ctrl+C to stop\n", cli.URL)

	<-ctx.Done()
	return nil
}

// buildStore selects the session store backend. A configured Redis
// address selects Redis; otherwise the in-memory store runs with its
// background expiry sweeper.
func buildStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.Session.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.Session.RedisAddr, err)
		}
		return session.NewRedisStore(client, session.WithRedisRetention(cfg.Retention())), nil
	}

	mem := session.NewMemoryStore(
		session.WithRetention(cfg.Retention()),
		session.WithSweepInterval(cfg.SweepInterval()),
	)
	mem.StartSweeper(ctx)
	return mem, nil
}
