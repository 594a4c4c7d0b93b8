package main

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jiaziui/oxygensensor/cmd/oxygen/console"
	"github.com/jiaziui/oxygensensor/oxygen"
)

var readCmd = cli.Command{
	Name:  "read",
	Usage: "read the smoothed oxygen concentration",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "window",
			Aliases: []string{"w"},
			Usage:   "moving average window (1-100), defaults to the configured one",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Value:   1,
			Usage:   "number of readings, 0 reads until interrupted",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Value: time.Second,
			Usage: "delay between readings",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()
		window := cfg.Window
		if c.IsSet("window") {
			window = c.Int("window")
		}
		count := c.Int("count")
		for i := 0; count == 0 || i < count; i++ {
			if i > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(c.Duration("interval")):
				}
			}
			value, err := sensor.ReadConcentration(ctx, window)
			if err != nil {
				if errors.Is(err, oxygen.ErrInvalidWindow) {
					return console.Exit(1, "invalid window %d: %s", window, console.Red(err))
				}
				if ctx.Err() != nil {
					return nil
				}
				console.Errorf("read failed: %s", err)
				continue
			}
			console.PInfof(console.PictoOxygen, "%s %%vol", console.Bold(formatFloat(value)))
		}
		return nil
	},
}

var currentCmd = cli.Command{
	Name:  "current",
	Usage: "read the raw electrochemical current data",
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()
		value, err := sensor.ReadCurrentData(ctx)
		if err != nil {
			return console.Exit(1, "read failed: %s", console.Red(err))
		}
		console.PInfof(console.PictoOxygen, "current data: %s", console.Bold(formatFloat(value)))
		return nil
	},
}

var keyCmd = cli.Command{
	Name:  "key",
	Usage: "read the calibration key stored on the sensor",
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()
		key, err := sensor.CalibrationKey(ctx)
		if err != nil {
			return console.Exit(1, "read failed: %s", console.Red(err))
		}
		console.PInfof(console.PictoKey, "calibration key: %s", console.Bold(formatFloat(key)))
		return nil
	},
}

var calibrateCmd = cli.Command{
	Name:  "calibrate",
	Usage: "store a new calibration on the sensor",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "concentration",
			Value: 20.9,
			Usage: "reference oxygen concentration in %vol",
		},
		&cli.Float64Flag{
			Name:  "mv",
			Usage: "probe output in millivolts at the reference concentration",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "skip the confirmation prompt",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		concentration := float32(c.Float64("concentration"))
		var opts []oxygen.CalibrateOpt
		if c.IsSet("mv") {
			opts = append(opts, oxygen.WithMillivolts(float32(c.Float64("mv"))))
		}
		if !c.Bool("yes") {
			console.Warnf("this overwrites the calibration stored on the sensor at %#x", cfg.Address)
			ok, err := console.Confirm("continue?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				return nil
			}
		}
		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()
		if err := sensor.Calibrate(ctx, concentration, opts...); err != nil {
			return console.Exit(1, "calibration failed: %s", console.Red(err))
		}
		key, err := sensor.CalibrationKey(ctx)
		if err != nil {
			return console.Exit(1, "could not read back calibration key: %s", console.Red(err))
		}
		console.PInfof(console.PictoKey, "%s calibration key: %s", console.Green("calibrated"), console.Bold(formatFloat(key)))
		return nil
	},
}

var probeCmd = cli.Command{
	Name:  "probe",
	Usage: "check the probe life status",
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()
		life, err := sensor.CheckProbeLife(ctx)
		switch {
		case errors.Is(err, oxygen.ErrVersionUnsupported):
			console.PInfof(console.PictoProbe, "probe life: %s (firmware %s)", console.Yellow(life), sensor.Version())
			return nil
		case err != nil:
			return console.Exit(1, "read failed: %s", console.Red(err))
		}
		console.PInfof(console.PictoProbe, "probe life: %s", console.Status(life == oxygen.ProbeLifeNormal, life))
		return nil
	},
}

var infoCmd = cli.Command{
	Name:  "info",
	Usage: "print sensor address and firmware",
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()
		console.PInfof(console.PictoChip, "address:  %s", console.Bold(formatAddress(sensor.Address())))
		console.PInfof(console.PictoChip, "firmware: %s (%#02x)", console.Bold(sensor.Version()), sensor.FirmwareByte())
		console.PInfof(console.PictoChip, "adapter:  %s", cfg.Adapter)
		return nil
	},
}
