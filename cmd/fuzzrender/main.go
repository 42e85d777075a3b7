// Command fuzzrender renders fuzz engine configurations offline.
//
// Usage:
//
//	fuzzrender [flags] config.yaml [config.yaml ...]
//
// Each config describes the engine, its controls, a generated input signal
// and optional automation. Renders run in parallel; a summary table is
// printed when all are done.
//
// Examples:
//
//	fuzzrender drive-sweep.yaml
//	fuzzrender -o out.f32 --log-level debug redux.yaml
//	fuzzrender -j 4 presets/*.yaml
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fuzz/internal/render"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version  bool     `short:"v" help:"Show version information"`
	Output   string   `short:"o" type:"path" help:"Override output.path (single config only)"`
	LogLevel string   `name:"log-level" help:"Override logging.level (error, warn, info, debug)"`
	Jobs     int      `short:"j" default:"0" help:"Parallel renders (0 renders all at once)"`
	Plain    bool     `help:"Disable styled output"`
	Configs  []string `arg:"" name:"config" help:"Render config YAML files" type:"existingfile" optional:""`
}

type result struct {
	path   string
	report render.Report
	output string
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("fuzzrender"),
		kong.Description("Offline renderer for the fuzz distortion engine"),
		kong.UsageOnError(),
	)

	styled := !cli.Plain && isTerminal(os.Stdout)

	if cli.Version {
		printVersion(os.Stdout, version, styled)
		os.Exit(0)
	}

	if len(cli.Configs) == 0 {
		printError(os.Stderr, "no config files specified", styled)
		kctx.PrintUsage(false)
		os.Exit(1)
	}

	if cli.Output != "" && len(cli.Configs) > 1 {
		printError(os.Stderr, "--output needs exactly one config", styled)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := renderAll(ctx, cli)
	if err != nil {
		printError(os.Stderr, err.Error(), styled)
		os.Exit(1)
	}

	printReports(os.Stdout, results, styled)
}

func renderAll(ctx context.Context, cli *CLI) ([]result, error) {
	results := make([]result, len(cli.Configs))

	g, ctx := errgroup.WithContext(ctx)
	if cli.Jobs > 0 {
		g.SetLimit(cli.Jobs)
	}

	for i, path := range cli.Configs {
		g.Go(func() error {
			res, err := renderOne(ctx, path, cli)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func renderOne(ctx context.Context, path string, cli *CLI) (res result, err error) {
	cfg, err := render.Load(path)
	if err != nil {
		return result{}, err
	}

	if cli.Output != "" {
		cfg.Output.Path = cli.Output
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}

	level, err := render.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return result{}, err
	}

	logger := render.NewLogger(os.Stderr, level).With("config", path)

	res = result{path: path, output: cfg.Output.Path}

	if cfg.Output.Path == "" {
		res.report, err = render.Run(ctx, cfg, nil, logger)
		return res, err
	}

	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return result{}, fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := bufio.NewWriter(f)

	res.report, err = render.Run(ctx, cfg, w, logger)
	if err != nil {
		return result{}, err
	}

	if err := w.Flush(); err != nil {
		return result{}, fmt.Errorf("flush output: %w", err)
	}

	logger.Info("rendered",
		slog.String("output", cfg.Output.Path),
		slog.Int("frames", res.report.Frames),
		slog.Duration("elapsed", res.report.Elapsed),
	)

	return res, nil
}
