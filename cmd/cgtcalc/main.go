package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/s104tools/cgtcalc/internal/config"
	"github.com/s104tools/cgtcalc/internal/engine"
	"github.com/s104tools/cgtcalc/internal/inputformat"
	"github.com/s104tools/cgtcalc/internal/money"
	"github.com/s104tools/cgtcalc/internal/report"
)

func main() {
	asJSON := flag.Bool("json", false, "emit results as JSON instead of the console report")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-json] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	money.SetDivisionPrecision(cfg.DivisionPrecision)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialise logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(flag.Arg(0), cfg, logger, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, cfg *config.Config, logger *zap.Logger, asJSON bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	format, err := inputformat.Detect(string(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	groups, err := format.ExtractAssetTrades(string(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// Pool state is scoped to one asset, so each group gets a fresh engine
	// and the groups can run independently.
	results := make([]*engine.Result, len(groups))
	var g errgroup.Group
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			eng := engine.New(group.Asset, group.Currency,
				engine.WithLocation(cfg.Timezone),
				engine.WithTrace(logger))
			result, err := eng.Process(group.Trades)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, group := range groups {
		if i > 0 {
			fmt.Println()
		}
		if len(groups) > 1 {
			fmt.Printf("===== POOL: %s =====\n", group.Asset.Header())
		}
		renderer := report.Renderer{Asset: group.Asset, Currency: group.Currency}
		renderer.Render(os.Stdout, results[i])
	}
	return nil
}

// newLogger builds the CLI's logger. The engine's matching trace logs at
// debug level, so CGT_LOG_LEVEL=debug turns the full computation narrative on.
func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
