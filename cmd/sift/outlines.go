package main

import (
	"fmt"
	"strings"

	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/progress"
	"github.com/siftlabs/sift/internal/service/extraction"
	"github.com/urfave/cli/v2"
)

func outlinesCmd() *cli.Command {
	return &cli.Command{
		Name:      "outlines",
		Usage:     "Report Gherkin scenario outlines and their Examples tables",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "expand",
				Usage: "Expand each Examples row into a concrete case",
			},
		},
		Action: runOutlinesCmd,
	}
}

func runOutlinesCmd(c *cli.Context) error {
	paths := getPaths(c)
	expand := c.Bool("expand")

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}

	tracker := progress.NewSpinner("Parsing feature files...")
	var reports []extraction.OutlineReport
	for _, path := range paths {
		absPath, cleanup, err := resolvePath(c.Context, path)
		if err != nil {
			tracker.FinishError(err)
			return err
		}
		r, _, err := svc.Outlines(c.Context, absPath, extraction.OutlineOptions{
			Expand:     expand,
			OnProgress: tracker.Tick,
		})
		cleanup()
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		reports = append(reports, r...)
	}
	tracker.FinishSuccess()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	totalOutlines, totalCases, defective := 0, 0, 0
	for _, report := range reports {
		for _, o := range report.Outlines {
			totalOutlines++
			totalCases += o.TotalCases()
			defects := ""
			if o.HasDefects() {
				defective++
				defects = "row mismatch"
			}
			rows = append(rows, []string{
				report.Feature,
				o.Name,
				fmt.Sprintf("%d", len(o.Tables)),
				fmt.Sprintf("%d", o.TotalCases()),
				fmt.Sprintf("%s:%d", report.FilePath, o.LineStart),
				defects,
			})
		}
	}

	table := output.NewTable(
		"Scenario Outlines",
		[]string{"Feature", "Outline", "Tables", "Cases", "Location", "Defects"},
		rows,
		[]string{
			fmt.Sprintf("Outlines: %d", totalOutlines),
			fmt.Sprintf("Expandable cases: %d", totalCases),
			fmt.Sprintf("Defective: %d", defective),
		},
		reports,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if expand && formatter.Format() == output.FormatText {
		for _, report := range reports {
			if len(report.Expanded) == 0 {
				continue
			}
			var content strings.Builder
			for _, ec := range report.Expanded {
				fmt.Fprintf(&content, "%s\n", ec.Name)
			}
			section := &output.Section{
				Title:   fmt.Sprintf("Expanded: %s", report.Feature),
				Content: strings.TrimRight(content.String(), "\n"),
			}
			if err := formatter.Output(section); err != nil {
				return err
			}
		}
	}

	return nil
}
