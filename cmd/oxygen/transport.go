package main

import (
	"context"
	"log/slog"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/jiaziui/oxygensensor"
	"github.com/jiaziui/oxygensensor/adapter"
	"github.com/jiaziui/oxygensensor/cmd/oxygen/console"
	"github.com/jiaziui/oxygensensor/config"
	"github.com/jiaziui/oxygensensor/i2c"
	"github.com/jiaziui/oxygensensor/oxygen"
)

// openBus opens the transport selected by cfg. The returned closer is never nil.
func openBus(ctx context.Context) (oxygensensor.I2CBus, func(), error) {
	switch cfg.Adapter {
	case config.AdapterMCP2221:
		a := adapter.NewMCP2221()
		if err := a.Init(ctx); err != nil {
			return nil, nil, console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		return a, func() {}, nil
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, nil, console.Exit(1, "nanopi connection error: %s", console.Red(err))
		}
		bus := i2c.NewGobotBus(npi, cfg.Bus)
		return bus, func() {
			if err := bus.Close(); err != nil {
				slog.Warn("could not close i2c connections", "error", err)
			}
			if err := npi.Finalize(); err != nil {
				slog.Warn("could not finalize nanopi adaptor", "error", err)
			}
		}, nil
	default:
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, console.Exit(1, "could not open %s: %s", cfg.Device, console.Red(err))
		}
		if err := bus.SetSpeed(cfg.SpeedKHz); err != nil {
			slog.Warn("could not set bus speed", "khz", cfg.SpeedKHz, "error", err)
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				slog.Warn("could not close i2c bus", "error", err)
			}
		}, nil
	}
}

// openSensor opens the bus and initializes the sensor at cfg.Address.
func openSensor(ctx context.Context) (*oxygen.Sensor, func(), error) {
	bus, closer, err := openBus(ctx)
	if err != nil {
		return nil, nil, err
	}
	sensor := oxygen.New(bus, oxygen.WithAddress(cfg.Address))
	if err := sensor.Init(ctx); err != nil {
		closer()
		return nil, nil, console.Exit(1, "sensor initialization error: %s", console.Red(err))
	}
	slog.Debug("sensor ready", "address", cfg.Address, "version", sensor.Version())
	return sensor, closer, nil
}
