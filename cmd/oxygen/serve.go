package main

import (
	"context"
	"errors"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/jiaziui/oxygensensor/cmd/oxygen/console"
	"github.com/jiaziui/oxygensensor/monitor"
	"github.com/jiaziui/oxygensensor/monitor/httpapi"
)

var serveCmd = cli.Command{
	Name:  "serve",
	Usage: "poll the sensor and expose readings over HTTP",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "HTTP listen address, defaults to the configured one",
		},
	},
	Action: func(c *cli.Context) error {
		ctx, cancel := context.WithCancel(commandContext(c))
		defer cancel()
		listen := cfg.Listen
		if c.IsSet("listen") {
			listen = c.String("listen")
		}

		sensor, closer, err := openSensor(ctx)
		if err != nil {
			return err
		}
		defer closer()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		promSink, err := monitor.NewPrometheusSink(reg, cfg.Address)
		if err != nil {
			return console.Exit(1, "metrics registration error: %s", console.Red(err))
		}
		store := monitor.NewStore()
		sinks := []monitor.Sink{store, promSink}
		if cfg.Influx.Enabled() {
			client := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
			defer client.Close()
			influxSink := monitor.NewInfluxSink(client, cfg.Influx.Org, cfg.Influx.Bucket, cfg.Address)
			defer influxSink.Close()
			sinks = append(sinks, influxSink)
			slog.Info("influx export enabled", "url", cfg.Influx.URL, "bucket", cfg.Influx.Bucket)
		}

		poller := monitor.NewPoller(sensor, sinks,
			monitor.WithWindow(cfg.Window),
			monitor.WithInterval(cfg.PollInterval),
			monitor.WithProbeInterval(cfg.ProbeInterval),
		)
		pollErr := make(chan error, 1)
		go func() {
			pollErr <- poller.Run(ctx)
		}()

		err = httpapi.New(store, reg).ListenAndServe(ctx, listen)
		cancel()
		if perr := <-pollErr; perr != nil && !errors.Is(perr, context.Canceled) {
			slog.Error("poller stopped", "error", perr)
		}
		if err != nil {
			return console.Exit(1, "http server error: %s", console.Red(err))
		}
		return nil
	},
}
