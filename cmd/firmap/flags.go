package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/config"
	"github.com/rendis/firmap/internal/engine/loader"
	"github.com/rendis/firmap/internal/logging"
)

var log = logrus.WithField("module", "main")

// commonFlags are shared by every subcommand. Zero values leave the config
// file setting untouched.
type commonFlags struct {
	*flag.FlagSet
	configPath  string
	source      string
	projection  string
	flightLevel int
	logLevel    string
}

func newFlagSet(name, usage string) *commonFlags {
	fs := &commonFlags{FlagSet: flag.NewFlagSet(name, flag.ExitOnError), flightLevel: -1}
	fs.StringVar(&fs.configPath, "config", "", "TOML config file (default: "+config.DefaultPath()+")")
	fs.StringVar(&fs.source, "source", "", "Base URL or directory holding world.json and worldfirs.json")
	fs.StringVar(&fs.projection, "projection", "", "Projection name (see 'firmap projections')")
	fs.IntVar(&fs.flightLevel, "fl", -1, "Flight level in hundreds of feet (0-990)")
	fs.StringVar(&fs.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	if usage != "" {
		fs.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: firmap %s [flags]\n\nFlags:\n", name)
			fs.PrintDefaults()
			fmt.Fprintf(os.Stderr, "\nExamples:\n%s", usage)
		}
	}
	return fs
}

// setup loads the config, applies the flag overrides and starts logging.
func (fs *commonFlags) setup() (config.Config, func(), error) {
	cfg, err := config.Load(fs.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if fs.source != "" {
		cfg.Source = fs.source
	}
	if fs.projection != "" {
		cfg.Projection = fs.projection
	}
	if fs.flightLevel >= 0 {
		cfg.FlightLevel = fs.flightLevel
	}
	if fs.logLevel != "" {
		cfg.LogLevel = fs.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	closer, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return cfg, nil, err
	}
	log.WithFields(logrus.Fields{
		"command":    fs.Name(),
		"source":     cfg.Source,
		"projection": cfg.Projection,
		"fl":         cfg.FlightLevel,
	}).Info("=== Session start ===")
	return cfg, func() { closeQuietly(closer) }, nil
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "closing log: %v\n", err)
	}
}

func newLoader(cfg config.Config) *loader.Loader {
	return loader.New(cfg.Source, loader.NewClient(loader.ClientOptions{
		Timeout:  cfg.TimeoutDuration(),
		ProxyURL: cfg.Proxy,
	}))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
