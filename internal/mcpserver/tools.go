package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/service/extraction"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/stats"
	toon "github.com/toon-format/toon-go"
)

// ScanInput is the base input for all scan tools.
type ScanInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to scan. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// ScanTestsInput adds scan-specific options.
type ScanTestsInput struct {
	ScanInput
	Framework    string `json:"framework,omitempty" jsonschema:"Keep only cases from this framework (junit5, testng, behave, cypress, ...)."`
	IncludeStats bool   `json:"include_stats,omitempty" jsonschema:"Include summary statistics (counts, ratios, distribution)."`
}

// ExpandOutlinesInput adds outline-specific options.
type ExpandOutlinesInput struct {
	ScanInput
	Expand bool `json:"expand,omitempty" jsonschema:"Expand each Examples row into a concrete case."`
}

// ClassifyProvidersInput adds provider-specific options.
type ClassifyProvidersInput struct {
	ScanInput
	Source string `json:"source,omitempty" jsonschema:"Keep only providers with this data source (inline, excel, csv, json, database, method_delegate)."`
}

// PageObjectTreeInput adds page-object options.
type PageObjectTreeInput struct {
	ScanInput
}

// DetectFrameworksInput adds detection options.
type DetectFrameworksInput struct {
	ScanInput
}

// Helper functions

func getPaths(input ScanInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input ScanInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	if output.ExceedsBudget(text, 0) {
		text = "NOTE: large payload (~" + output.FormatTokenCount(output.EstimateTokens(text)) +
			" tokens); consider narrowing paths or filtering by framework.\n\n" + text
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
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

// Tool handlers

func handleScanTests(ctx context.Context, req *mcp.CallToolRequest, input ScanTestsInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.ScanInput)
	format := getFormat(input.ScanInput)

	svc := extraction.New()
	merged := &models.Inventory{}
	for _, root := range paths {
		inv, _, err := svc.Scan(ctx, root, extraction.ScanOptions{Framework: input.Framework})
		if err != nil {
			return toolError(err.Error())
		}
		if merged.RootPath == "" {
			merged.RootPath = inv.RootPath
			merged.Primary = inv.Primary
		}
		merged.Cases = append(merged.Cases, inv.Cases...)
		merged.PageObjects = append(merged.PageObjects, inv.PageObjects...)
		merged.DataProviders = append(merged.DataProviders, inv.DataProviders...)
		merged.Outlines = append(merged.Outlines, inv.Outlines...)
	}

	if len(merged.Cases) == 0 && len(merged.Outlines) == 0 {
		return toolError("no test definitions found")
	}

	if input.IncludeStats {
		out := struct {
			Inventory *models.Inventory `json:"inventory" toon:"inventory"`
			Stats     stats.Summary     `json:"stats" toon:"stats"`
		}{merged, stats.Summarize(*merged)}
		return toolResult(out, format)
	}

	return toolResult(merged, format)
}

func handleExpandOutlines(ctx context.Context, req *mcp.CallToolRequest, input ExpandOutlinesInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.ScanInput)
	format := getFormat(input.ScanInput)

	svc := extraction.New()
	var reports []extraction.OutlineReport
	for _, root := range paths {
		r, _, err := svc.Outlines(ctx, root, extraction.OutlineOptions{Expand: input.Expand})
		if err != nil {
			return toolError(err.Error())
		}
		reports = append(reports, r...)
	}

	if len(reports) == 0 {
		return toolError("no scenario outlines found")
	}

	return toolResult(reports, format)
}

func handleClassifyProviders(ctx context.Context, req *mcp.CallToolRequest, input ClassifyProvidersInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.ScanInput)
	format := getFormat(input.ScanInput)

	svc := extraction.New()
	var records []models.DataProviderRecord
	for _, root := range paths {
		r, _, err := svc.Providers(ctx, root, extraction.ProviderOptions{Source: input.Source})
		if err != nil {
			return toolError(err.Error())
		}
		records = append(records, r...)
	}

	if len(records) == 0 {
		return toolError("no data providers found")
	}

	out := struct {
		Providers []models.DataProviderRecord `json:"providers" toon:"providers"`
	}{records}
	return toolResult(out, format)
}

func handlePageObjectTree(ctx context.Context, req *mcp.CallToolRequest, input PageObjectTreeInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.ScanInput)
	format := getFormat(input.ScanInput)

	svc := extraction.New()
	merged := &extraction.PageObjectReport{Tree: make(map[string][]string)}
	for _, root := range paths {
		r, _, err := svc.PageObjects(ctx, root, extraction.PageObjectOptions{})
		if err != nil {
			return toolError(err.Error())
		}
		merged.Classes = append(merged.Classes, r.Classes...)
		for parent, children := range r.Tree {
			merged.Tree[parent] = append(merged.Tree[parent], children...)
		}
	}

	if len(merged.Classes) == 0 {
		return toolError("no page objects found")
	}

	return toolResult(merged, format)
}

func handleDetectFrameworks(ctx context.Context, req *mcp.CallToolRequest, input DetectFrameworksInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.ScanInput)
	format := getFormat(input.ScanInput)

	svc := extraction.New()
	type pathReport struct {
		Path   string                      `json:"path" toon:"path"`
		Report *extraction.FrameworkReport `json:"report" toon:"report"`
	}
	var reports []pathReport
	for _, root := range paths {
		r, _, err := svc.Frameworks(ctx, root)
		if err != nil {
			return toolError(err.Error())
		}
		reports = append(reports, pathReport{Path: root, Report: r})
	}

	return toolResult(reports, format)
}
