// Package main is the entry point for the avaweb demo server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vyrodovalexey/avaweb/internal/config"
	"github.com/vyrodovalexey/avaweb/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	hotReload   bool
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, flags)

	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", observability.Error(err))
	}

	logger.Info("starting avaweb",
		observability.String("version", version),
		observability.String("config", flags.configPath),
		observability.String("name", cfg.Metadata.Name),
		observability.Int("routes", len(cfg.Spec.Routes)),
		observability.Bool("hot_reload", cfg.Spec.Development.HotReload),
	)

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", observability.Error(err))
	}

	run(app, flags.configPath)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("AVAWEB_CONFIG_PATH", "configs/avaweb.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("AVAWEB_LOG_LEVEL", ""),
		"Log level (debug, info, warn, error), overrides the configuration")
	logFormat := flag.String("log-format", getEnvOrDefault("AVAWEB_LOG_FORMAT", ""),
		"Log format (json, console), overrides the configuration")
	hotReload := flag.Bool("hot-reload", getEnvBool("AVAWEB_HOT_RELOAD", false),
		"Enable development mode controller reloading")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		hotReload:   *hotReload,
		showVersion: *showVersion,
	}
}

// applyFlags lets command line flags override the loaded configuration.
func applyFlags(cfg *config.AppConfig, flags cliFlags) {
	if flags.logLevel != "" {
		cfg.Spec.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Spec.Logging.Format = flags.logFormat
	}
	if flags.hotReload {
		cfg.Spec.Development.HotReload = true
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("avaweb version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(cfg *config.AppConfig) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Spec.Logging.Level,
		Format: cfg.Spec.Logging.Format,
		Output: cfg.Spec.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}
