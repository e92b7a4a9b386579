package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/hoodscan/internal/cache"
	"github.com/dshills/hoodscan/internal/checkpoint"
	"github.com/dshills/hoodscan/internal/config"
	"github.com/dshills/hoodscan/internal/history"
	"github.com/dshills/hoodscan/internal/output"
	"github.com/dshills/hoodscan/internal/pipeline"
	"github.com/dshills/hoodscan/internal/providers"
	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/summarize"
)

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitConfigError
		return nil
	}
	if len(args) == 1 {
		cfg.ThreadURL = args[0]
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration:\n%v\n", err)
		exitCode = ExitConfigError
		return nil
	}

	log, err := newLogger(flagVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := buildPipeline(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitConfigError
		return nil
	}
	defer cleanup()

	r, err := p.Run(ctx, cfg.ThreadURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitCodeFor(err)
		return nil
	}

	if err := output.WriteReport(r, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
	}
	return nil
}

// buildPipeline assembles a pipeline from cfg. The returned cleanup closes
// anything opened along the way.
func buildPipeline(cfg config.Config, log *zap.Logger) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	gen, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, cleanup, fmt.Errorf("creating provider: %w", err)
	}

	table, err := cfg.Table()
	if err != nil {
		return nil, cleanup, err
	}
	for _, p := range table.NearDuplicates(1) {
		log.Debug("Aliases of different neighborhoods are nearly identical",
			zap.String("alias", p.First), zap.String("neighborhood", p.FirstOf),
			zap.String("other", p.Second), zap.String("otherNeighborhood", p.SecondOf))
	}

	opts := []summarize.Option{
		summarize.WithRetryPolicy(cfg.SummarizePolicy()),
		summarize.WithAudience(cfg.Audience),
		summarize.WithRedaction(cfg.Privacy.RedactPII),
		summarize.WithMaxTokens(cfg.Summarize.MaxTokens),
		summarize.WithTemperature(cfg.Summarize.Temperature),
		summarize.WithLogger(log),
	}
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		log.Warn("Summary cache unavailable", zap.Error(err))
	} else {
		opts = append(opts, summarize.WithCache(c))
	}

	deps := pipeline.Deps{
		Fetcher: reddit.NewClient(
			reddit.WithTimeout(cfg.Fetch.Timeout),
			reddit.WithUserAgent(cfg.Fetch.UserAgent),
			reddit.WithLogger(log),
		),
		FetchPolicy: cfg.FetchPolicy(),
		Summarizer:  summarize.New(gen, opts...),
		Table:       table,
		Checkpoints: checkpoint.New(cfg.DataDir, log),
		Logger:      log,
		Provider:    gen.Name(),
		Model:       gen.Model(),
	}

	if cfg.History.Enabled {
		if store, err := openHistory(cfg); err != nil {
			log.Warn("Run history unavailable", zap.Error(err))
		} else {
			deps.History = store
			cleanup = func() { store.Close() }
		}
	}

	p, err := pipeline.New(deps)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return p, cleanup, nil
}

func openHistory(cfg config.Config) (*history.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

// exitCodeFor maps a pipeline error to a process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case providers.IsFatal(err):
		return ExitConfigError
	default:
		return ExitRuntimeError
	}
}

// newLogger builds the console logger used for progress output. Logs go to
// stderr so a report on stdout stays machine-readable.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
