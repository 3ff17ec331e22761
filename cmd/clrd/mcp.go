package main

import (
	"context"

	"github.com/panbanda/clrd/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes clrd's dead code
scan as a tool that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "clrd": {
        "command": "clrd",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - scan_dead_code    Unused exports, unused imports and zombie files`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the server.json manifest for the MCP registry",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	var opts []mcpserver.Option
	if path := c.String("config"); path != "" {
		opts = append(opts, mcpserver.WithConfigPath(path))
	}
	return mcpserver.NewServer(version, opts...).Run(context.Background())
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(append(data, '\n'))
	return err
}
