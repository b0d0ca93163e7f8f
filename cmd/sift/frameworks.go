package main

import (
	"fmt"
	"sort"

	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/progress"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/urfave/cli/v2"
)

func frameworksCmd() *cli.Command {
	return &cli.Command{
		Name:      "frameworks",
		Usage:     "Detect test frameworks per file and resolve the project primary",
		ArgsUsage: "[path...]",
		Action:    runFrameworksCmd,
	}
}

func runFrameworksCmd(c *cli.Context) error {
	paths := getPaths(c)

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}

	tracker := progress.NewSpinner("Detecting frameworks...")
	type pathReport struct {
		Path     string                      `json:"path"`
		Primary  models.Framework            `json:"primary"`
		Detected []models.Framework          `json:"detected,omitempty"`
		PerFile  map[string]models.Framework `json:"per_file,omitempty"`
	}
	var reports []pathReport
	for _, path := range paths {
		absPath, cleanup, err := resolvePath(c.Context, path)
		if err != nil {
			tracker.FinishError(err)
			return err
		}
		r, _, err := svc.Frameworks(c.Context, absPath)
		cleanup()
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		reports = append(reports, pathReport{
			Path:     path,
			Primary:  r.Primary,
			Detected: r.Detected,
			PerFile:  r.PerFile,
		})
	}
	tracker.FinishSuccess()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, report := range reports {
		files := make([]string, 0, len(report.PerFile))
		for file := range report.PerFile {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			rows = append(rows, []string{file, string(report.PerFile[file])})
		}
	}

	footer := make([]string, 0, len(reports))
	for _, report := range reports {
		footer = append(footer, fmt.Sprintf("%s primary: %s (%d detected)",
			report.Path, report.Primary, len(report.Detected)))
	}

	table := output.NewTable(
		"Framework Detection",
		[]string{"File", "Framework"},
		rows,
		footer,
		reports,
	)
	return formatter.Output(table)
}
