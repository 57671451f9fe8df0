// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template wraps converted Markdown in a YAML PRD scaffold for
// manual authoring. The scaffold is built as a structured document and
// encoded with go.yaml.in/yaml/v3; the Markdown is appended verbatim after a
// document-boundary marker.
package template

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Header opens every rendered template.
const Header = "# YAML PRD - Generated from PDF\n# Review and edit this template to match your needs\n"

// MarkdownMarker introduces the embedded Markdown section.
const MarkdownMarker = "# === Original Markdown Content ==="

// optionalSections lists commented-out sections authors can enable.
const optionalSections = `# Optional sections (uncomment as needed):
# technical_specs:
#   api:
#     - endpoint: /api/v1/resource
#       method: POST
#   database:
#     table_name:
#       column: type
#
# dependencies:
#   - name: service_name
#     version: ">=1.0"
#
# testing:
#   coverage: 80
#   scenarios:
#     - name: scenario_name
`

// Document is the top level of the scaffold.
type Document struct {
	PRD PRD `yaml:"prd"`
}

// PRD holds the placeholder requirements an author fills in.
type PRD struct {
	Title       string    `yaml:"title"`
	Purpose     string    `yaml:"purpose"`
	Features    []Feature `yaml:"features"`
	Metrics     []Metric  `yaml:"metrics"`
	Constraints []string  `yaml:"constraints"`
}

// Feature is one user story.
type Feature struct {
	ID        string `yaml:"id"`
	UserStory string `yaml:"user_story"`
}

// Metric is a success metric with its target.
type Metric struct {
	Metric string `yaml:"metric"`
	Target string `yaml:"target"`
}

// Scaffold returns the placeholder document.
func Scaffold() Document {
	return Document{PRD: PRD{
		Title:   "TODO: Extract title from document",
		Purpose: "TODO: Extract purpose/objective from document",
		Features: []Feature{
			{ID: "F1", UserStory: "As a [user], I can [action] so that [benefit]"},
			{ID: "F2", UserStory: "..."},
		},
		Metrics: []Metric{
			{Metric: "Metric_Name", Target: "Target value"},
		},
		Constraints: []string{"Constraint 1", "Constraint 2"},
	}}
}

// keyComments are attached above the named keys of the prd mapping.
var keyComments = map[string]string{
	"features":    "TODO: Extract user stories/features from the markdown content",
	"metrics":     "TODO: Extract success metrics/KPIs",
	"constraints": "TODO: Extract constraints, limitations, and requirements",
}

// quotedKeys have their scalar values double-quoted.
var quotedKeys = map[string]bool{
	"title":       true,
	"purpose":     true,
	"user_story":  true,
	"target":      true,
	"constraints": true,
}

// Render returns the scaffold followed by markdown. The output ends with
// markdown byte-for-byte; it is not escaped.
func Render(markdown string) (string, error) {
	scaffold, err := encodeScaffold(Scaffold())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(scaffold) + len(markdown) + 512)
	b.WriteString(Header)
	b.WriteString("\n")
	b.WriteString(scaffold)
	b.WriteString("\n")
	b.WriteString(optionalSections)
	b.WriteString("\n")
	b.WriteString(MarkdownMarker)
	b.WriteString("\n# Use this content to fill in the YAML structure above\n---\n")
	b.WriteString(markdown)
	return b.String(), nil
}

// encodeScaffold encodes doc with the TODO comments and quoting applied.
func encodeScaffold(doc Document) (string, error) {
	var root yaml.Node
	if err := root.Encode(doc); err != nil {
		return "", fmt.Errorf("building scaffold: %w", err)
	}
	decorate(&root, "")

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return "", fmt.Errorf("encoding scaffold: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding scaffold: %w", err)
	}
	return buf.String(), nil
}

// decorate walks n, attaching key comments and quoting placeholder values.
// key is the mapping key n is the value of.
func decorate(n *yaml.Node, key string) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if c, ok := keyComments[k.Value]; ok {
				k.HeadComment = c
			}
			decorate(v, k.Value)
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			decorate(item, key)
		}
	case yaml.ScalarNode:
		if quotedKeys[key] {
			n.Style = yaml.DoubleQuotedStyle
		}
	}
}
