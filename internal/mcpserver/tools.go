package mcpserver

import (
	"bytes"
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/clrd/internal/output"
	"github.com/panbanda/clrd/internal/service/analysis"
	"github.com/panbanda/clrd/pkg/config"
)

// ScanInput is the input for the scan_dead_code tool.
type ScanInput struct {
	Path         string   `json:"path,omitempty" jsonschema:"Project root to scan. Defaults to the current directory."`
	Confidence   float64  `json:"confidence,omitempty" jsonschema:"Minimum confidence (0.0-1.0) of reported items. Default 0.5."`
	IncludeTests bool     `json:"include_tests,omitempty" jsonschema:"Also analyze test, spec and mock files."`
	Extensions   []string `json:"extensions,omitempty" jsonschema:"File extensions to scan. Default ts, tsx, js, jsx, mjs, cjs."`
	Format       string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getPath(input ScanInput) string {
	if input.Path == "" {
		return "."
	}
	return input.Path
}

func getFormat(format string) output.Format {
	switch strings.ToLower(format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

// formatOutput renders data as text for a tool result. Reports keep their
// own markdown form; everything else is encoded.
func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if r, ok := data.(output.Renderable); ok {
		if format == output.FormatMarkdown {
			err := r.RenderMarkdown(&buf)
			return buf.String(), err
		}
		data = r.RenderData()
	}
	if err := output.Encode(&buf, format, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleScanDeadCode(ctx context.Context, req *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, any, error) {
	root := getPath(input)

	cfg, err := s.loadConfig(root)
	if err != nil {
		return toolError(err.Error())
	}
	scanCfg := cfg.Scan
	if input.Confidence > 0 {
		scanCfg.Confidence = input.Confidence
	}
	if input.IncludeTests {
		scanCfg.IncludeTests = true
	}
	if len(input.Extensions) > 0 {
		scanCfg.Extensions = config.NormalizeExtensions(input.Extensions)
	}
	if scanCfg.Confidence < 0 || scanCfg.Confidence > 1 {
		return toolError("confidence must be between 0 and 1")
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	result, err := svc.Scan(ctx, analysis.ScanOptions{Root: root, Scan: &scanCfg})
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(output.NewDeadCodeReport(result.Filter(scanCfg.Confidence)), getFormat(input.Format))
}
