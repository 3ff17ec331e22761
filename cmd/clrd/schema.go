package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/clrd/pkg/models"
	"github.com/urfave/cli/v2"
)

func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of scan output, or validate a saved report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "validate",
				Usage: "Validate a JSON report written by `clrd scan -f json`",
			},
		},
		Action: runSchemaCmd,
	}
}

func runSchemaCmd(c *cli.Context) error {
	path := c.String("validate")
	if path == "" {
		_, err := c.App.Writer.Write(models.ScanOutputSchema())
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := models.ValidateScanOutput(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintln(c.App.Writer, color.GreenString("%s is a valid scan report", path))
	return nil
}
