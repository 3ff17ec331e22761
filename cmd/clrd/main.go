package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/clrd/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPath returns the positional path argument, defaulting to ".".
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

// setupLogging installs the process-wide slog handler on stderr.
func setupLogging(c *cli.Context) {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newApp() *cli.App {
	analysis.Version = version

	return &cli.App{
		Name:    "clrd",
		Usage:   "Dead code detection for JavaScript and TypeScript",
		Version: version,
		Description: `clrd builds an import graph of a JavaScript or TypeScript project and reports
unused exports, unused imports, and files nothing imports (zombie files).

Every finding carries a confidence score. Dynamic-looking names, test files
and entry points lower the score instead of hiding the finding.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CLRD_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
		},
		Before: func(c *cli.Context) error {
			setupLogging(c)
			return nil
		},
		Commands: []*cli.Command{
			scanCmd(),
			initCmd(),
			schemaCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
