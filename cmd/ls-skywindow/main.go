// Command ls-skywindow computes when astronomical targets are observable
// from the registered telescopes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-skywindow/internal/config"
	"github.com/litescript/ls-skywindow/internal/ephem"
	"github.com/litescript/ls-skywindow/internal/logging"
	"github.com/litescript/ls-skywindow/internal/metrics"
	"github.com/litescript/ls-skywindow/internal/telemetry"
	"github.com/litescript/ls-skywindow/internal/telescope"
	"github.com/litescript/ls-skywindow/internal/validate"
	"github.com/litescript/ls-skywindow/internal/version"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

// Persistent flags.
var (
	configPath      string
	registryPath    string
	logLevel        string
	logFormat       string
	mode            string
	concurrency     int
	traceEnabled    bool
	metricsTextfile string
)

var rootCmd = &cobra.Command{
	Use:           "ls-skywindow",
	Short:         "Target visibility for telescope networks",
	Long:          "ls-skywindow computes observable intervals, airmass and dark time for a target across a network of telescopes.",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.StringVar(&registryPath, "registry", "", "Telescope registry YAML (default: built-in LCO network)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (auto, console, json)")
	pf.StringVar(&mode, "mode", "", "Solver mode (default, fast)")
	pf.IntVar(&concurrency, "concurrency", 0, "Telescopes computed in parallel")
	pf.BoolVar(&traceEnabled, "trace", false, "Print OpenTelemetry spans to stderr")
	pf.StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a subcommand needs, built from config and flags.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *telescope.Registry
	metrics  *metrics.Collector
	tracer   *telemetry.TracerProvider
	orch     *visibility.Orchestrator
}

// setup loads configuration, applies explicitly set flags over it and
// wires the engine.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("registry") {
		cfg.RegistryPath = registryPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if flags.Changed("trace") {
		cfg.TracingEnabled = traceEnabled
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile = metricsTextfile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := commandLogger(cmd, cfg)

	reg, err := loadRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	tp, err := telemetry.InitTracer(cmd.Context(), telemetry.TracerConfig{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "ls-skywindow",
		ServiceVersion: version.Version,
		SampleRate:     cfg.TracingSampleRate,
		Writer:         os.Stderr,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}

	m, err := metrics.New(nil)
	if err != nil {
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}

	provider := ephem.NewLocalProvider(ephem.ParseMode(cfg.Mode))
	engine := visibility.NewEngine(provider, logger, m)

	logger.Debug().
		Str("provider", provider.Name()).
		Int("telescopes", len(reg.Telescopes())).
		Int("concurrency", cfg.Concurrency).
		Msg("engine ready")

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  m,
		tracer:   tp,
		orch:     visibility.NewOrchestrator(engine, cfg.Concurrency, logger, m),
	}, nil
}

// annotationTUI marks commands that take over the terminal.
const annotationTUI = "tui"

// commandLogger builds the logger for cmd. Full-screen commands get a
// discarding logger since stderr lines would tear the display.
func commandLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	if cmd.Annotations[annotationTUI] != "" {
		return logging.Discard()
	}
	return logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

func loadRegistry(path string) (*telescope.Registry, error) {
	if path == "" {
		return telescope.Default()
	}
	reg, err := telescope.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}

// close flushes spans and writes the metrics textfile.
func (a *app) close() {
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Error().Err(err).Msg("failed to shutdown tracer provider")
	}
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.logger.Error().Err(err).Str("path", a.cfg.MetricsTextfile).Msg("failed to write metrics textfile")
		}
	}
}

// mergeParseErrors combines flag parse errors with validation errors. A
// field that failed to parse is reported only with its parse message.
func mergeParseErrors(perrs, verrs validate.Errors) validate.Errors {
	out := validate.Errors{}
	for field, msgs := range verrs {
		if !perrs.Has(field) {
			out[field] = msgs
		}
	}
	out.Merge(perrs)
	return out
}

// invalid prints field errors as JSON on stdout and exits with status 2.
func invalid(cmd *cobra.Command, errs validate.Errors) error {
	if err := writeJSON(cmd.OutOrStdout(), errs); err != nil {
		return err
	}
	return &exitError{code: 2, err: errs}
}
