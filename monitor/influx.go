package monitor

import (
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const influxMeasurement = "oxygen"

type pointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// InfluxSink writes successful readings to InfluxDB through the non-blocking
// write API.
type InfluxSink struct {
	writer  pointWriter
	address string
}

func NewInfluxSink(client influxdb2.Client, org, bucket string, address byte) *InfluxSink {
	w := client.WriteAPI(org, bucket)
	go func() {
		for err := range w.Errors() {
			slog.Error("influx write failed", "error", err)
		}
	}()
	return newInfluxSink(w, address)
}

func newInfluxSink(w pointWriter, address byte) *InfluxSink {
	return &InfluxSink{writer: w, address: fmt.Sprintf("%#x", address)}
}

func (s *InfluxSink) Publish(ctx context.Context, r Reading) {
	if !r.OK() {
		return
	}
	s.writer.WritePoint(influxdb2.NewPoint(influxMeasurement,
		map[string]string{"address": s.address},
		map[string]interface{}{
			"concentration": float64(r.Concentration),
			"probe_life":    int64(r.ProbeLife),
		},
		r.Timestamp,
	))
}

func (s *InfluxSink) Close() {
	s.writer.Flush()
}
