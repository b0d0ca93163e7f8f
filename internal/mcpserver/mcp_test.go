package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/siftlabs/sift/internal/output"
)

// TestServerCreation verifies the MCP server can be created without panicking.
func TestServerCreation(t *testing.T) {
	server := NewServer("1.0.0-test")
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.server == nil {
		t.Fatal("NewServer().server is nil")
	}
}

// TestServerCreationEmptyVersion verifies empty version defaults to "dev".
func TestServerCreationEmptyVersion(t *testing.T) {
	server := NewServer("")
	if server == nil {
		t.Fatal("NewServer(\"\") returned nil")
	}
}

// TestToolDescriptions verifies all description functions return non-empty strings.
func TestToolDescriptions(t *testing.T) {
	descriptions := map[string]func() string{
		"scanTests":         describeScanTests,
		"expandOutlines":    describeExpandOutlines,
		"classifyProviders": describeClassifyProviders,
		"pageObjectTree":    describePageObjectTree,
		"detectFrameworks":  describeDetectFrameworks,
	}

	for name, fn := range descriptions {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			if desc == "" {
				t.Errorf("%s description is empty", name)
			}
			if !strings.Contains(desc, "USE WHEN:") {
				t.Errorf("%s description missing USE WHEN section", name)
			}
			if !strings.Contains(desc, "INTERPRETING RESULTS:") {
				t.Errorf("%s description missing INTERPRETING RESULTS section", name)
			}
			if !strings.Contains(desc, "FIELDS RETURNED:") {
				t.Errorf("%s description missing FIELDS RETURNED section", name)
			}
		})
	}
}

// TestGetPaths verifies path handling logic.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		input    ScanInput
		expected []string
	}{
		{
			name:     "empty paths defaults to current dir",
			input:    ScanInput{Paths: nil},
			expected: []string{"."},
		},
		{
			name:     "empty slice defaults to current dir",
			input:    ScanInput{Paths: []string{}},
			expected: []string{"."},
		},
		{
			name:     "single path returned as-is",
			input:    ScanInput{Paths: []string{"/foo/bar"}},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths returned as-is",
			input:    ScanInput{Paths: []string{"/foo", "/bar"}},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getPaths(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("getPaths() = %v, want %v", result, tt.expected)
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

// TestGetFormat verifies format parsing logic.
func TestGetFormat(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected output.Format
	}{
		{"empty defaults to toon", "", output.FormatTOON},
		{"json format", "json", output.FormatJSON},
		{"markdown format", "markdown", output.FormatMarkdown},
		{"md alias", "md", output.FormatMarkdown},
		{"toon explicit", "toon", output.FormatTOON},
		{"unknown defaults to toon", "xml", output.FormatTOON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getFormat(ScanInput{Format: tt.format})
			if result != tt.expected {
				t.Errorf("getFormat(%q) = %v, want %v", tt.format, result, tt.expected)
			}
		})
	}
}

// TestFormatOutput verifies output formatting works for all formats.
func TestFormatOutput(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 123,
	}

	formats := []string{"", "toon", "json", "markdown"}
	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			out, err := formatOutput(data, getFormat(ScanInput{Format: format}))
			if err != nil {
				t.Errorf("formatOutput failed for format %q: %v", format, err)
			}
			if out == "" {
				t.Errorf("formatOutput returned empty string for format %q", format)
			}
		})
	}
}

// TestToolError verifies error result formatting.
func TestToolError(t *testing.T) {
	result, _, err := toolError("test error message")
	if err != nil {
		t.Fatalf("toolError returned unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("toolError returned nil result")
	}
	if !result.IsError {
		t.Error("toolError result.IsError should be true")
	}
	if len(result.Content) == 0 {
		t.Fatal("toolError result has no content")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("toolError content is not TextContent: %T", result.Content[0])
	}
	if textContent.Text != "Error: test error message" {
		t.Errorf("toolError text = %q, want %q", textContent.Text, "Error: test error message")
	}
}

// TestToolResult verifies successful result formatting.
func TestToolResult(t *testing.T) {
	data := map[string]interface{}{
		"key": "value",
		"num": 42,
	}
	result, _, err := toolResult(data, getFormat(ScanInput{}))
	if err != nil {
		t.Fatalf("toolResult returned error: %v", err)
	}
	if result == nil {
		t.Fatal("toolResult returned nil")
	}
	if result.IsError {
		t.Error("toolResult.IsError should be false")
	}
	if len(result.Content) == 0 {
		t.Fatal("toolResult has no content")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("toolResult content is not TextContent: %T", result.Content[0])
	}
	if textContent.Text == "" {
		t.Error("toolResult text is empty")
	}
}

// TestGenerateManifest verifies the server manifest serializes correctly.
func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("1.2.3")
	if err != nil {
		t.Fatalf("GenerateManifest returned error: %v", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest.Name != "io.github.siftlabs/sift" {
		t.Errorf("manifest name = %q", manifest.Name)
	}
	if manifest.Version != "1.2.3" {
		t.Errorf("manifest version = %q", manifest.Version)
	}
	if len(manifest.Packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(manifest.Packages))
	}
	if manifest.Packages[0].Identifier != "ghcr.io/siftlabs/sift:1.2.3" {
		t.Errorf("package identifier = %q", manifest.Packages[0].Identifier)
	}
	if manifest.Packages[0].Transport.Type != "stdio" {
		t.Errorf("transport type = %q", manifest.Packages[0].Transport.Type)
	}
}

// TestGenerateManifestEmptyVersion verifies the version fallback.
func TestGenerateManifestEmptyVersion(t *testing.T) {
	data, err := GenerateManifest("")
	if err != nil {
		t.Fatalf("GenerateManifest returned error: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest.Version != "0.0.0" {
		t.Errorf("manifest version = %q, want 0.0.0", manifest.Version)
	}
}

// TestParseFrontmatter verifies YAML frontmatter parsing for prompt files.
func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantDesc string
		wantBody string
	}{
		{
			name:     "frontmatter and body",
			content:  "---\ndescription: review the suite\n---\n\nDo the review.\n",
			wantDesc: "review the suite",
			wantBody: "Do the review.\n",
		},
		{
			name:     "no frontmatter",
			content:  "Just a body.\n",
			wantDesc: "",
			wantBody: "Just a body.\n",
		},
		{
			name:     "unterminated frontmatter",
			content:  "---\ndescription: broken\n",
			wantDesc: "",
			wantBody: "---\ndescription: broken\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, body := parseFrontmatter([]byte(tt.content))
			if desc != tt.wantDesc {
				t.Errorf("description = %q, want %q", desc, tt.wantDesc)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

// TestEmbeddedPrompts verifies the shipped prompt files parse into usable prompts.
func TestEmbeddedPrompts(t *testing.T) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		t.Fatalf("failed to read embedded prompts: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded prompt files")
	}

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			content, err := promptFiles.ReadFile(filepath.Join("prompts", entry.Name()))
			if err != nil {
				t.Fatalf("failed to read %s: %v", entry.Name(), err)
			}
			description, body := parseFrontmatter(content)
			if description == "" {
				t.Error("prompt has no description frontmatter")
			}
			if body == "" {
				t.Error("prompt has no body")
			}
		})
	}
}

// TestPromptHandler verifies the generated prompt handlers return the body text.
func TestPromptHandler(t *testing.T) {
	handler := makePromptHandler("a description", "a body")

	req := &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "test-prompt"},
	}
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.Description != "a description" {
		t.Errorf("result description = %q", result.Description)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	msg := result.Messages[0]
	if msg.Role != "user" {
		t.Errorf("expected role 'user', got %q", msg.Role)
	}
	textContent, ok := msg.Content.(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", msg.Content)
	}
	if textContent.Text != "a body" {
		t.Errorf("message text = %q", textContent.Text)
	}
}

func writeFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/test/java/LoginTest.java": `package com.example.tests;

import org.junit.jupiter.api.Test;
import org.junit.jupiter.api.Tag;

public class LoginTest {

    @Test
    @Tag("smoke")
    void successfulLogin() {
        assertTrue(true);
    }
}
`,
		"src/test/java/CartData.java": `package com.example.data;

import org.testng.annotations.DataProvider;

public class CartData {

    @DataProvider(name = "cartRows")
    public Object[][] cartRows() {
        return new Object[][] {
            { "apple", 2 },
        };
    }
}
`,
		"src/main/java/CartPage.java": `package com.example.pages;

import org.openqa.selenium.WebElement;
import org.openqa.selenium.support.FindBy;

public class CartPage {

    @FindBy(id = "total")
    private WebElement total;

    public String readTotal() {
        return total.getText();
    }
}
`,
		"features/login.feature": `Feature: Login

  Scenario Outline: rejected passwords
    When they sign in with "<password>"
    Then they see an error

    Examples:
      | password |
      | short    |
      | empty    |
`,
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent: %T", result.Content[0])
	}
	return textContent.Text
}

// TestHandleScanTests tests the scan_tests tool handler over a fixture tree.
func TestHandleScanTests(t *testing.T) {
	root := writeFixtureTree(t)

	input := ScanTestsInput{
		ScanInput: ScanInput{Paths: []string{root}, Format: "json"},
	}
	result, _, err := handleScanTests(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleScanTests returned error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("handleScanTests returned error: %s", text)
	}
	if !strings.Contains(text, "successfulLogin") {
		t.Errorf("output missing test case: %s", text)
	}
}

// TestHandleScanTestsWithStats verifies the include_stats wrapper.
func TestHandleScanTestsWithStats(t *testing.T) {
	root := writeFixtureTree(t)

	input := ScanTestsInput{
		ScanInput:    ScanInput{Paths: []string{root}, Format: "json"},
		IncludeStats: true,
	}
	result, _, err := handleScanTests(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleScanTests returned error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("handleScanTests returned error: %s", text)
	}
	if !strings.Contains(text, "\"stats\"") {
		t.Errorf("output missing stats section: %s", text)
	}
}

// TestHandleScanTestsEmptyTree verifies the no-tests error.
func TestHandleScanTestsEmptyTree(t *testing.T) {
	root := t.TempDir()

	input := ScanTestsInput{ScanInput: ScanInput{Paths: []string{root}}}
	result, _, err := handleScanTests(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleScanTests returned unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for a tree with no test definitions")
	}
}

// TestHandleExpandOutlines tests the expand_outlines tool handler.
func TestHandleExpandOutlines(t *testing.T) {
	root := writeFixtureTree(t)

	input := ExpandOutlinesInput{
		ScanInput: ScanInput{Paths: []string{root}, Format: "json"},
		Expand:    true,
	}
	result, _, err := handleExpandOutlines(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleExpandOutlines returned error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("handleExpandOutlines returned error: %s", text)
	}
	if !strings.Contains(text, "rejected passwords") {
		t.Errorf("output missing outline name: %s", text)
	}
}

// TestHandleClassifyProviders tests the classify_dataproviders tool handler.
func TestHandleClassifyProviders(t *testing.T) {
	root := writeFixtureTree(t)

	input := ClassifyProvidersInput{
		ScanInput: ScanInput{Paths: []string{root}, Format: "json"},
	}
	result, _, err := handleClassifyProviders(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleClassifyProviders returned error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("handleClassifyProviders returned error: %s", text)
	}
	if !strings.Contains(text, "cartRows") {
		t.Errorf("output missing provider name: %s", text)
	}
}

// TestHandleClassifyProvidersSourceFilter verifies the source filter error path.
func TestHandleClassifyProvidersSourceFilter(t *testing.T) {
	root := writeFixtureTree(t)

	input := ClassifyProvidersInput{
		ScanInput: ScanInput{Paths: []string{root}},
		Source:    "excel",
	}
	result, _, err := handleClassifyProviders(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleClassifyProviders returned unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError when no providers match the source filter")
	}
}

// TestHandlePageObjectTree tests the pageobject_tree tool handler.
func TestHandlePageObjectTree(t *testing.T) {
	root := writeFixtureTree(t)

	input := PageObjectTreeInput{
		ScanInput: ScanInput{Paths: []string{root}, Format: "json"},
	}
	result, _, err := handlePageObjectTree(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handlePageObjectTree returned error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("handlePageObjectTree returned error: %s", text)
	}
	if !strings.Contains(text, "CartPage") {
		t.Errorf("output missing page object: %s", text)
	}
}

// TestHandleDetectFrameworks tests the detect_frameworks tool handler.
func TestHandleDetectFrameworks(t *testing.T) {
	root := writeFixtureTree(t)

	input := DetectFrameworksInput{
		ScanInput: ScanInput{Paths: []string{root}, Format: "json"},
	}
	result, _, err := handleDetectFrameworks(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleDetectFrameworks returned error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("handleDetectFrameworks returned error: %s", text)
	}
	if !strings.Contains(text, "junit5") {
		t.Errorf("output missing detected framework: %s", text)
	}
}
