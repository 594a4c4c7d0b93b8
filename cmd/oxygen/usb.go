package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/jiaziui/oxygensensor/adapter"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "list attached HID devices",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name: "ls",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
		for _, dev := range hid.Enumerate(0, 0) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
		}
		return w.Flush()
	},
}

// usbDetectCmd lists only the bridges this tool can drive.
var usbDetectCmd = cli.Command{
	Name: "detect",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "INDEX\tVENDOR\tPRODUCT\tDEVICE\tPATH\n")
		for i, dev := range hid.Enumerate(adapter.VendorID, adapter.ProductID) {
			_, _ = fmt.Fprintf(w, "%d\t%#x\t%#x\t%s\t%s\n", i, dev.VendorID, dev.ProductID, "MCP2221", dev.Path)
		}
		return w.Flush()
	},
}
