package main

import (
	"fmt"

	"github.com/siftlabs/sift/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes sift's extractors
as tools that LLMs can invoke. This enables AI assistants to inventory
test suites, expand scenario outlines, and map page object hierarchies.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "sift": {
        "command": "sift",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - scan_tests              Full test inventory across frameworks
  - expand_outlines         Gherkin Scenario Outline expansion
  - classify_dataproviders  TestNG data provider classification
  - pageobject_tree         Page object inheritance hierarchy
  - detect_frameworks       Per-file framework detection`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the server.json manifest and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		manifest, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Println(string(manifest))
		return nil
	}

	server := mcpserver.NewServer(version)
	return server.Run(c.Context)
}
