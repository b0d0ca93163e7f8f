package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/siftlabs/sift/internal/locator"
	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/progress"
	"github.com/siftlabs/sift/internal/service/extraction"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/stats"
	"github.com/urfave/cli/v2"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Extract and normalize test cases from a project tree",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "framework",
				Usage: "Keep only cases from this framework (junit4, junit5, testng, behave, xunit, cypress)",
			},
			&cli.StringFlag{
				Name:  "focus",
				Usage: "Narrow output to one file or test (path, glob, basename, or class/method name)",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Append summary statistics",
			},
		},
		Action: runScanCmd,
	}
}

func runScanCmd(c *cli.Context) error {
	paths := getPaths(c)

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}

	tracker := progress.NewSpinner("Scanning tests...")
	merged := &models.Inventory{}
	var procErrors []string
	for _, path := range paths {
		absPath, cleanup, err := resolvePath(c.Context, path)
		if err != nil {
			tracker.FinishError(err)
			return err
		}
		inv, errs, err := svc.Scan(c.Context, absPath, extraction.ScanOptions{
			Framework:  c.String("framework"),
			OnProgress: tracker.Tick,
		})
		cleanup()
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		if errs.HasErrors() {
			for _, e := range errs.Errors {
				procErrors = append(procErrors, fmt.Sprintf("%s: %v", e.Path, e.Err))
			}
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
	tracker.FinishSuccess()

	if focus := c.String("focus"); focus != "" {
		if err := applyFocus(merged, focus, paths[0]); err != nil {
			return err
		}
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, tc := range merged.Cases {
		status := "active"
		if tc.IsDisabled {
			status = "disabled"
		} else if hasTag(tc.Tags, "only") {
			status = "focused"
		}
		if formatter.Colored() {
			status = output.StatusLabel(status)
		}
		rows = append(rows, []string{
			tc.Framework,
			tc.QualifiedName(),
			fmt.Sprintf("%s:%d", tc.FilePath, tc.LineNumber),
			status,
			strings.Join(tc.Tags, ", "),
		})
	}

	byFw := merged.ByFramework()
	footer := []string{
		fmt.Sprintf("Cases: %d", merged.CountCases()),
		fmt.Sprintf("Disabled: %d", merged.CountDisabled()),
		fmt.Sprintf("Parameterized: %d", merged.CountParameterized()),
		fmt.Sprintf("Primary: %s", merged.Primary),
		fmt.Sprintf("Frameworks: %d", len(byFw)),
	}

	table := output.NewTable(
		"Test Inventory",
		[]string{"Framework", "Test", "Location", "Status", "Tags"},
		rows,
		footer,
		merged,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if c.Bool("stats") {
		summary := stats.Summarize(*merged)
		if err := renderStats(formatter, summary); err != nil {
			return err
		}
	}

	if len(procErrors) > 0 && formatter.Format() == output.FormatText {
		fmt.Println()
		color.Yellow("Skipped files (%d):", len(procErrors))
		if cfg.Output.Verbose {
			for _, e := range procErrors {
				fmt.Printf("  - %s\n", e)
			}
		}
	}

	return nil
}

// applyFocus narrows the inventory to the resolved focus target.
func applyFocus(inv *models.Inventory, focus, baseDir string) error {
	result, err := locator.Locate(focus, inv.Cases, locator.WithBaseDir(baseDir))
	if errors.Is(err, locator.ErrAmbiguousMatch) {
		var lines []string
		for _, cand := range result.Candidates {
			lines = append(lines, fmt.Sprintf("  %s (%s:%d)", cand.Qualified, cand.Path, cand.Line))
		}
		return fmt.Errorf("%q matches multiple tests:\n%s", focus, strings.Join(lines, "\n"))
	}
	if err != nil {
		return fmt.Errorf("focus %q: %w", focus, err)
	}

	switch result.Type {
	case locator.TargetTest:
		inv.Cases = []models.NeutralTestCase{*result.Case}
	case locator.TargetFile:
		kept := inv.Cases[:0]
		for _, tc := range inv.Cases {
			if tc.FilePath == result.Path || strings.HasSuffix(tc.FilePath, result.Path) {
				kept = append(kept, tc)
			}
		}
		inv.Cases = kept
	}
	return nil
}

func renderStats(formatter *output.Formatter, summary stats.Summary) error {
	names := make([]string, 0, len(summary.ByFramework))
	for name := range summary.ByFramework {
		names = append(names, name)
	}
	sort.Strings(names)
	var fw strings.Builder
	for _, name := range names {
		fmt.Fprintf(&fw, "%s: %d\n", name, summary.ByFramework[name])
	}

	section := &output.Section{
		Title: "Statistics",
		Content: fmt.Sprintf(
			"Total cases: %d\nDisabled: %d (%.1f%%)\nParameterized: %d (%.1f%%)\nCases per class: mean %.1f, p90 %.0f, max %.0f\nFiles with tests: %d (%d declaration lines)",
			summary.TotalCases,
			summary.Disabled, summary.DisabledRatio*100,
			summary.Parameterized, summary.ParameterizedRatio*100,
			summary.CasesPerClass.Mean, summary.CasesPerClass.P90, summary.CasesPerClass.Max,
			summary.FilesWithTests, summary.DeclarationLines),
		Sections: []output.Section{
			{Title: "By framework", Content: strings.TrimRight(fw.String(), "\n")},
		},
		Data: summary,
	}
	return formatter.Output(section)
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
