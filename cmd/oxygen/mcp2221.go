package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/jiaziui/oxygensensor/adapter"
	"github.com/jiaziui/oxygensensor/cmd/oxygen/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB bridge diagnostics",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		status, err := adapter.NewMCP2221().Status(commandContext(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a hanging I2C transfer",
	Action: func(c *cli.Context) error {
		status, err := adapter.NewMCP2221().ReleaseBus(commandContext(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(status)
	},
}

func printYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
