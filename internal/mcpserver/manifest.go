package mcpserver

import (
	"encoding/json"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.panbanda/clrd"
	repositoryURL  = "https://github.com/panbanda/clrd"
	imageName      = "ghcr.io/panbanda/clrd"
)

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository locates the server's source.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package tells a client how to launch the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []Environment `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

// Argument is a positional command-line argument.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Environment documents an environment variable the server reads.
type Environment struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"isRequired"`
}

// Transport names the wire transport.
type Transport struct {
	Type string `json:"type"`
}

// NewManifest describes this server at version, published as an OCI image
// that runs `clrd mcp` over stdio.
func NewManifest(version string) Manifest {
	if version == "" || version == "dev" {
		version = "0.0.0"
	}
	return Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Title:       "clrd",
		Description: "Dead code detection for JavaScript and TypeScript: unused exports, unused imports and zombie files",
		Version:     version,
		Repository:  &Repository{URL: repositoryURL, Source: "github"},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       imageName + ":" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: []Environment{{
				Name:        "CLRD_CONFIG",
				Description: "Path to a clrd config file used for every scan",
			}},
			Transport: Transport{Type: "stdio"},
		}},
	}
}

// GenerateManifest returns the indented server.json for version.
func GenerateManifest(version string) ([]byte, error) {
	return json.MarshalIndent(NewManifest(version), "", "  ")
}
