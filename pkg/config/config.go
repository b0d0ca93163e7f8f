package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for sift.
type Config struct {
	// Scan settings
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// External AST provider settings
	Bridge BridgeConfig `koanf:"bridge" toml:"bridge"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ScanConfig controls which extractors run and how files are selected.
type ScanConfig struct {
	Java        bool  `koanf:"java" toml:"java"`
	Gherkin     bool  `koanf:"gherkin" toml:"gherkin"`
	SpecFlow    bool  `koanf:"specflow" toml:"specflow"`
	Cypress     bool  `koanf:"cypress" toml:"cypress"`
	PageObjects bool  `koanf:"page_objects" toml:"page_objects"`
	Providers   bool  `koanf:"providers" toml:"providers"`
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size"` // bytes; 0 disables the limit
	Workers     int   `koanf:"workers" toml:"workers"`             // 0 uses 2x NumCPU
}

// BridgeConfig configures the optional external AST provider. When Command
// is empty the built-in text extraction runs alone.
type BridgeConfig struct {
	Command string `koanf:"command" toml:"command"`
	Timeout int    `koanf:"timeout" toml:"timeout"` // seconds per file
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns" toml:"patterns"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Dirs       []string `koanf:"dirs" toml:"dirs"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls extraction-result caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, yaml, toon, markdown
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Java:        true,
			Gherkin:     true,
			SpecFlow:    true,
			Cypress:     true,
			PageObjects: true,
			Providers:   true,
			MaxFileSize: 2 << 20,
			Workers:     0,
		},
		Bridge: BridgeConfig{
			Command: "",
			Timeout: 30,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
			},
			Extensions: []string{
				".lock",
				".sum",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".sift",
				"dist",
				"build",
				"target",
				"bin",
				"obj",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".sift/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"sift.toml",
		"sift.yaml",
		"sift.yml",
		"sift.json",
		".sift.toml",
		".sift.yaml",
		".sift.yml",
		".sift.json",
	}

	searchDirs := []string{".", ".sift"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from scanning.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
