package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

var frontmatterFence = []byte("---\n")

// prompt is one embedded markdown file. The file name without .md is the
// prompt name.
type prompt struct {
	Name        string
	Description string
	Body        string
}

// loadPrompts reads every embedded prompt, sorted by name.
func loadPrompts() ([]prompt, error) {
	matches, err := fs.Glob(promptFiles, "prompts/*.md")
	if err != nil {
		return nil, err
	}
	prompts := make([]prompt, 0, len(matches))
	for _, file := range matches {
		content, err := promptFiles.ReadFile(file)
		if err != nil {
			return nil, err
		}
		description, body := parseFrontmatter(content)
		prompts = append(prompts, prompt{
			Name:        strings.TrimSuffix(path.Base(file), ".md"),
			Description: description,
			Body:        body,
		})
	}
	return prompts, nil
}

func (s *Server) registerPrompts() {
	prompts, err := loadPrompts()
	if err != nil {
		slog.Warn("embedded prompts unavailable", "error", err)
		return
	}
	for _, p := range prompts {
		s.server.AddPrompt(&mcp.Prompt{Name: p.Name, Description: p.Description}, p.handler())
	}
}

// parseFrontmatter splits a leading "---" YAML block from the body. Content
// without a well-formed block is returned whole as the body.
func parseFrontmatter(content []byte) (description, body string) {
	rest, ok := bytes.CutPrefix(content, frontmatterFence)
	if !ok {
		return "", string(content)
	}
	header, after, ok := bytes.Cut(rest, append([]byte("\n"), frontmatterFence...))
	if !ok {
		return "", string(content)
	}

	var meta struct {
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return "", string(content)
	}
	return meta.Description, strings.TrimPrefix(string(after), "\n")
}

func (p prompt) handler() mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: p.Description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: p.Body}},
			},
		}, nil
	}
}
