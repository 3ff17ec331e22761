package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/clrd/internal/output"
	"github.com/panbanda/clrd/internal/progress"
	"github.com/panbanda/clrd/internal/service/analysis"
	"github.com/panbanda/clrd/pkg/config"
	"github.com/urfave/cli/v2"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Aliases:   []string{"s"},
		Usage:     "Scan a project for unused exports, unused imports and zombie files",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, compact, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.Float64Flag{
				Name:  "confidence",
				Usage: "Minimum confidence of reported items (0.0-1.0)",
			},
			&cli.StringFlag{
				Name:  "extensions",
				Usage: "Comma separated file extensions to scan",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Extra glob pattern to ignore (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "include-tests",
				Usage: "Also analyze test, spec and mock files",
			},
			&cli.BoolFlag{
				Name:  "no-gitignore",
				Usage: "Do not honor .gitignore files",
			},
		},
		Action: runScanCmd,
	}
}

// loadConfig reads --config when given, otherwise searches root.
func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(root)
}

// applyScanFlags overrides the file configuration with any flags the user set.
func applyScanFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("confidence") {
		cfg.Scan.Confidence = c.Float64("confidence")
	}
	if c.IsSet("extensions") {
		cfg.Scan.Extensions = config.NormalizeExtensions(config.SplitList(c.String("extensions")))
	}
	cfg.Scan.Ignore = append(cfg.Scan.Ignore, c.StringSlice("ignore")...)
	if c.Bool("include-tests") {
		cfg.Scan.IncludeTests = true
	}
	if c.Bool("no-gitignore") {
		cfg.Scan.Gitignore = false
	}

	if cfg.Scan.Confidence < 0 || cfg.Scan.Confidence > 1 {
		return fmt.Errorf("--confidence must be between 0 and 1 (got %g)", cfg.Scan.Confidence)
	}
	if len(cfg.Scan.Extensions) == 0 {
		return fmt.Errorf("no file extensions to scan")
	}
	return nil
}

func runScanCmd(c *cli.Context) error {
	root := getPath(c)

	cfg, err := loadConfig(c, root)
	if err != nil {
		return err
	}
	if err := applyScanFlags(c, cfg); err != nil {
		return err
	}
	format := output.ParseFormat(cfg.Output.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := analysis.ScanOptions{Root: root, Scan: &cfg.Scan}
	var tracker *progress.Tracker
	if !format.MachineReadable() {
		spinner := progress.Spinner(c.App.ErrWriter, "Discovering files...")
		opts.OnDiscovered = func(n int) {
			spinner.Done()
			tracker = progress.Bar(c.App.ErrWriter, "Analyzing...", n)
		}
		opts.OnProgress = func() {
			tracker.Tick()
		}
		defer func() {
			if tracker == nil {
				spinner.Done()
			}
		}()
	}

	result, err := analysis.New(analysis.WithConfig(cfg)).Scan(ctx, opts)
	if tracker != nil {
		tracker.Done()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	filtered := result.Filter(cfg.Scan.Confidence)

	colored := cfg.Output.Color && !color.NoColor && c.String("output") == ""
	var formatter *output.Formatter
	if path := c.String("output"); path != "" {
		formatter, err = output.NewFormatter(format, path, false)
		if err != nil {
			return err
		}
	} else {
		formatter = output.NewWriterFormatter(format, c.App.Writer, colored)
	}
	defer formatter.Close()

	report := output.NewDeadCodeReport(filtered)
	if format.MachineReadable() {
		var buf bytes.Buffer
		if err := output.Encode(&buf, format, report.RenderData()); err != nil {
			return err
		}
		if _, err := formatter.Writer().Write(buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "%d issues in %d files (~%s tokens)\n",
			filtered.Summary.TotalIssues, filtered.TotalFilesScanned, output.EstimateTokens(buf.String()))
		return nil
	}

	if err := formatter.Output(report); err != nil {
		return err
	}

	if filtered.Summary.HighConfidenceIssues > 0 && (format == output.FormatText || format == output.FormatCompact) {
		return cli.Exit("", 1)
	}
	return nil
}
