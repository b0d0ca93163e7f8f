package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/siftlabs/sift/internal/cache"
	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/remote"
	"github.com/siftlabs/sift/internal/service/extraction"
	"github.com/siftlabs/sift/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newService builds the extraction service from the loaded configuration.
func newService(c *cli.Context) (*extraction.Service, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	opts := []extraction.Option{extraction.WithConfig(cfg)}
	if cfg.Cache.Enabled {
		if store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true); err == nil {
			opts = append(opts, extraction.WithCache(store))
		}
	}
	return extraction.New(opts...), cfg, nil
}

// resolvePath expands one scan argument. Remote references (URLs or
// owner/repo shorthand) are cloned into a temp directory; local paths
// are made absolute. The cleanup func removes any clone.
func resolvePath(ctx context.Context, path string) (string, func(), error) {
	src, err := remote.Parse(path)
	if err != nil {
		return "", nil, err
	}
	if src != nil {
		dir, err := src.Fetch(ctx)
		if err != nil {
			return "", nil, err
		}
		return dir, src.Cleanup, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("invalid path %s: %w", path, err)
	}
	return abs, func() {}, nil
}

// newFormatter builds the output formatter from global flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := cfg.Output.Format
	if c.IsSet("format") || format == "" {
		format = c.String("format")
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color)
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "sift",
		Usage:    "Test suite extraction and inventory CLI",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Sift extracts test metadata from polyglot test suites and normalizes it
into a single inventory: test cases, scenario outlines, data providers,
and page objects.

Supports: JUnit 4, JUnit 5, TestNG, Behave/Gherkin, xUnit/SpecFlow, Cypress`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SIFT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, yaml, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the extraction cache",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(cpuFile); err != nil {
					cpuFile.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				c.App.Metadata["pprofCPU"] = cpuFile
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				pprof.StopCPUProfile()
				if cpuFile, ok := c.App.Metadata["pprofCPU"].(*os.File); ok {
					cpuFile.Close()
					color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
				}

				memFile, err := os.Create(pprofPrefix + ".mem.pprof")
				if err != nil {
					return fmt.Errorf("failed to create memory profile: %w", err)
				}
				defer memFile.Close()

				runtime.GC()
				if err := pprof.WriteHeapProfile(memFile); err != nil {
					return fmt.Errorf("failed to write memory profile: %w", err)
				}
				color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
			}
			return nil
		},
		Commands: []*cli.Command{
			scanCmd(),
			outlinesCmd(),
			providersCmd(),
			pageobjectsCmd(),
			frameworksCmd(),
			initCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
