package main

import (
	"fmt"
	"strings"

	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/progress"
	"github.com/siftlabs/sift/internal/service/extraction"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/urfave/cli/v2"
)

func providersCmd() *cli.Command {
	return &cli.Command{
		Name:      "providers",
		Usage:     "Inventory TestNG data providers with data-source classification",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Keep only providers with this data source (inline, excel, csv, json, database, method_delegate)",
			},
		},
		Action: runProvidersCmd,
	}
}

func runProvidersCmd(c *cli.Context) error {
	paths := getPaths(c)

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}

	tracker := progress.NewSpinner("Classifying data providers...")
	var records []models.DataProviderRecord
	for _, path := range paths {
		absPath, cleanup, err := resolvePath(c.Context, path)
		if err != nil {
			tracker.FinishError(err)
			return err
		}
		r, _, err := svc.Providers(c.Context, absPath, extraction.ProviderOptions{
			Source:     c.String("source"),
			OnProgress: tracker.Tick,
		})
		cleanup()
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		records = append(records, r...)
	}
	tracker.FinishSuccess()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	bySource := make(map[models.DataSource]int)
	var rows [][]string
	for _, rec := range records {
		bySource[rec.DataSource]++
		source := string(rec.DataSource)
		if rec.SourceFile != "" {
			source += " (" + rec.SourceFile + ")"
		}
		if rec.Delegate != "" {
			source += " -> " + rec.Delegate
		}
		parallel := ""
		if rec.IsParallel {
			parallel = "yes"
		}
		rows = append(rows, []string{
			rec.Name,
			rec.ClassName + "#" + rec.MethodName,
			source,
			strings.Join(rec.Parameters, ", "),
			parallel,
			fmt.Sprintf("%s:%d", rec.FilePath, rec.LineNumber),
		})
	}

	external := bySource[models.SourceExcel] + bySource[models.SourceCSV] +
		bySource[models.SourceJSON] + bySource[models.SourceDatabase]
	table := output.NewTable(
		"Data Providers",
		[]string{"Provider", "Method", "Source", "Parameters", "Parallel", "Location"},
		rows,
		[]string{
			fmt.Sprintf("Providers: %d", len(records)),
			fmt.Sprintf("Inline: %d", bySource[models.SourceInline]),
			fmt.Sprintf("External: %d", external),
			fmt.Sprintf("Delegated: %d", bySource[models.SourceMethodDelegate]),
		},
		records,
	)
	return formatter.Output(table)
}
