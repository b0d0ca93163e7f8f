package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/siftlabs/sift/internal/output"
	"github.com/siftlabs/sift/internal/progress"
	"github.com/siftlabs/sift/internal/service/extraction"
	"github.com/urfave/cli/v2"
)

func pageobjectsCmd() *cli.Command {
	return &cli.Command{
		Name:      "pageobjects",
		Usage:     "Inventory Selenium page objects and their inheritance hierarchy",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tree",
				Usage: "Print the parent to children hierarchy",
			},
		},
		Action: runPageobjectsCmd,
	}
}

func runPageobjectsCmd(c *cli.Context) error {
	paths := getPaths(c)

	svc, cfg, err := newService(c)
	if err != nil {
		return err
	}

	tracker := progress.NewSpinner("Resolving page objects...")
	merged := &extraction.PageObjectReport{Tree: make(map[string][]string)}
	for _, path := range paths {
		absPath, cleanup, err := resolvePath(c.Context, path)
		if err != nil {
			tracker.FinishError(err)
			return err
		}
		r, _, err := svc.PageObjects(c.Context, absPath, extraction.PageObjectOptions{
			OnProgress: tracker.Tick,
		})
		cleanup()
		if err != nil {
			tracker.FinishError(err)
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		merged.Classes = append(merged.Classes, r.Classes...)
		for parent, children := range r.Tree {
			merged.Tree[parent] = append(merged.Tree[parent], children...)
		}
	}
	tracker.FinishSuccess()

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	factories := 0
	var rows [][]string
	for _, po := range merged.Classes {
		if po.UsesFactoryPattern {
			factories++
		}
		marks := ""
		if po.UsesFactoryPattern {
			marks = "factory"
		}
		if po.IsLoadableComponent {
			if marks != "" {
				marks += ", "
			}
			marks += "loadable"
		}
		rows = append(rows, []string{
			po.ClassName,
			po.ParentClassName,
			fmt.Sprintf("%d", po.InheritanceLevel),
			fmt.Sprintf("%d", len(po.Elements)),
			fmt.Sprintf("%d", len(po.Methods)),
			marks,
		})
	}

	table := output.NewTable(
		"Page Objects",
		[]string{"Class", "Parent", "Level", "Elements", "Methods", "Patterns"},
		rows,
		[]string{
			fmt.Sprintf("Classes: %d", len(merged.Classes)),
			fmt.Sprintf("PageFactory: %d", factories),
			fmt.Sprintf("Hierarchies: %d", len(merged.Tree)),
		},
		merged,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if c.Bool("tree") && formatter.Format() == output.FormatText {
		parents := make([]string, 0, len(merged.Tree))
		for parent := range merged.Tree {
			parents = append(parents, parent)
		}
		sort.Strings(parents)

		var content strings.Builder
		for _, parent := range parents {
			children := merged.Tree[parent]
			sort.Strings(children)
			fmt.Fprintf(&content, "%s\n", parent)
			for i, child := range children {
				branch := "├── "
				if i == len(children)-1 {
					branch = "└── "
				}
				fmt.Fprintf(&content, "%s%s\n", branch, child)
			}
		}
		section := &output.Section{
			Title:   "Hierarchy",
			Content: strings.TrimRight(content.String(), "\n"),
		}
		if err := formatter.Output(section); err != nil {
			return err
		}
	}

	return nil
}
