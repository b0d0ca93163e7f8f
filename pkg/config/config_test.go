package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check scan defaults
	if !cfg.Scan.Java {
		t.Error("Scan.Java should be true by default")
	}
	if !cfg.Scan.Gherkin {
		t.Error("Scan.Gherkin should be true by default")
	}
	if !cfg.Scan.Cypress {
		t.Error("Scan.Cypress should be true by default")
	}
	if cfg.Scan.MaxFileSize != 2<<20 {
		t.Errorf("Scan.MaxFileSize = %d, want %d", cfg.Scan.MaxFileSize, 2<<20)
	}

	// Check bridge defaults
	if cfg.Bridge.Command != "" {
		t.Errorf("Bridge.Command = %q, want empty", cfg.Bridge.Command)
	}
	if cfg.Bridge.Timeout != 30 {
		t.Errorf("Bridge.Timeout = %d, want 30", cfg.Bridge.Timeout)
	}

	// Check exclude defaults
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Exclude.Dirs should have default values")
	}

	// Check cache defaults
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sift.toml")

	content := `
[scan]
java = true
cypress = false
workers = 4

[bridge]
command = "ast-provider"
timeout = 10

[exclude]
dirs = ["vendor", "custom_exclude"]
patterns = ["*_generated.java"]

[cache]
enabled = false

[output]
format = "json"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scan.Cypress {
		t.Error("Scan.Cypress should be false")
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Scan.Workers = %d, want 4", cfg.Scan.Workers)
	}
	if cfg.Bridge.Command != "ast-provider" {
		t.Errorf("Bridge.Command = %q, want ast-provider", cfg.Bridge.Command)
	}
	if cfg.Bridge.Timeout != 10 {
		t.Errorf("Bridge.Timeout = %d, want 10", cfg.Bridge.Timeout)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sift.yaml")

	content := `
scan:
  java: true
  specflow: false
  workers: 8

bridge:
  timeout: 45

output:
  format: markdown
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scan.SpecFlow {
		t.Error("Scan.SpecFlow should be false")
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("Scan.Workers = %d, want 8", cfg.Scan.Workers)
	}
	if cfg.Bridge.Timeout != 45 {
		t.Errorf("Bridge.Timeout = %d, want 45", cfg.Bridge.Timeout)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sift.json")

	content := `{
  "scan": {
    "java": true,
    "gherkin": false,
    "workers": 2
  },
  "bridge": {
    "timeout": 60
  },
  "output": {
    "format": "json"
  }
}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scan.Gherkin {
		t.Error("Scan.Gherkin should be false")
	}
	if cfg.Scan.Workers != 2 {
		t.Errorf("Scan.Workers = %d, want 2", cfg.Scan.Workers)
	}
	if cfg.Bridge.Timeout != 60 {
		t.Errorf("Bridge.Timeout = %d, want 60", cfg.Bridge.Timeout)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/sift.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sift.toml")

	// Invalid TOML
	content := `[scan
invalid toml`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// In a directory without config files, should return defaults
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}

	if cfg.Bridge.Timeout != 30 {
		t.Errorf("LoadOrDefault() returned non-default Bridge.Timeout: %d", cfg.Bridge.Timeout)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	content := `
[bridge]
timeout = 999
`
	if err := os.WriteFile(filepath.Join(tmpDir, "sift.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg.Bridge.Timeout != 999 {
		t.Errorf("LoadOrDefault() should load from file, got Bridge.Timeout=%d", cfg.Bridge.Timeout)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		// Excluded directories
		{"vendor/pkg/file.go", true},
		{"node_modules/pkg/file.js", true},
		{".git/objects/file", true},
		{"target/classes/LoginTest.class", true},

		// Excluded patterns
		{"app.min.js", true},
		{"types.d.ts", true},

		// Excluded extensions
		{"go.sum", true},
		{"package.lock", true},

		// Not excluded
		{"LoginTest.java", false},
		{"features/login.feature", false},
		{"cypress/e2e/checkout.cy.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldExcludeCustomPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "*Generated.java", "*.pb.go")
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, "custom_exclude")

	tests := []struct {
		path string
		want bool
	}{
		{"ModelGenerated.java", true},
		{"service.pb.go", true},
		{"custom_exclude/file.java", true},
		{"LoginTest.java", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldExcludePathsWithSeparators(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("src", "vendor", "pkg", "file.java"), true},
		{filepath.Join("vendor", "file.java"), true},
		{filepath.Join("src", "LoginTest.java"), false},
		{filepath.Join("pkg", "vendor_utils.java"), false}, // "vendor" in name, not directory
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestExcludeConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()

	expectedDirs := []string{"vendor", "node_modules", ".git", "dist", "build", "target"}
	for _, dir := range expectedDirs {
		found := false
		for _, d := range cfg.Exclude.Dirs {
			if d == dir {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Default Exclude.Dirs should contain %q", dir)
		}
	}

	if len(cfg.Exclude.Patterns) == 0 {
		t.Error("Default Exclude.Patterns should not be empty")
	}

	if len(cfg.Exclude.Extensions) == 0 {
		t.Error("Default Exclude.Extensions should not be empty")
	}
}
