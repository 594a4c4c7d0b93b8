package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/jiaziui/oxygensensor/config"
	"github.com/jiaziui/oxygensensor/snsctx"
)

var version string
var commit string
var date string

// cfg is resolved once in Before: defaults, then the config file and
// OXYGEN_* variables, then explicit global flags.
var cfg = config.Default()

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewApp()
	app.Name = "oxygen"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "DFRobot electrochemical oxygen sensor cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging and raw frame dumps",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to the YAML configuration file",
			EnvVars: []string{"OXYGEN_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "adapter",
			Usage: "bus adapter: generic, nanopi or mcp2221",
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "i2c device for the generic adapter",
		},
		&cli.StringFlag{
			Name:    "address",
			Aliases: []string{"a"},
			Usage:   "sensor address (0x70-0x73)",
		},
	}
	app.Before = func(c *cli.Context) error {
		setupLogger(c.Bool("verbose"))
		return loadConfig(c)
	}
	app.Commands = cli.Commands{
		&readCmd,
		&currentCmd,
		&keyCmd,
		&calibrateCmd,
		&probeCmd,
		&infoCmd,
		&serveCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			log.Printf("unexpected error: %v", err)
			return exerr.ExitCode()
		}
		log.Printf("unexpected error: %v", err)
		return 1
	}
	return 0
}

func setupLogger(verbose bool) {
	charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	charm.SetColorProfile(termenv.TrueColor)
	charm.SetLevel(chlog.InfoLevel)
	if verbose {
		charm.SetLevel(chlog.DebugLevel)
	}
	slog.SetDefault(slog.New(charm))
}

func loadConfig(c *cli.Context) error {
	if err := config.LoadEnv(".env"); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	loaded, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("adapter") {
		loaded.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		loaded.Device = c.String("device")
	}
	if c.IsSet("address") {
		addr, err := strconv.ParseUint(c.String("address"), 0, 8)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid address %q: %v", c.String("address"), err), 1)
		}
		loaded.Address = byte(addr)
	}
	if err := loaded.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	cfg = loaded
	return nil
}

func commandContext(c *cli.Context) context.Context {
	return snsctx.SetVerbose(c.Context, c.Bool("verbose"))
}
