package i2c

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/jiaziui/oxygensensor"
	"github.com/jiaziui/oxygensensor/snsctx"
)

var _ oxygensensor.I2CBus = &GenericBus{}

// GenericBus drives a host I2C controller (e.g. /dev/i2c-1) through periph.io.
// periph transactions are blocking and cannot be interrupted, so ctx is only
// checked before each transfer.
type GenericBus struct {
	bus i2c.BusCloser
}

// NewGenericBus initializes periph host drivers and opens dev. An empty dev
// picks the first bus periph finds.
func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %q: %w", dev, err)
	}
	return newGenericBus(bus), nil
}

func newGenericBus(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{bus: bus}
}

// SetSpeed changes the bus clock. The oxygen sensor is rated up to 100kHz.
func (b *GenericBus) SetSpeed(khz int) error {
	if khz <= 0 {
		return fmt.Errorf("invalid i2c bus speed %dkHz", khz)
	}
	err := b.bus.SetSpeed(physic.Frequency(khz) * physic.KiloHertz)
	if err != nil {
		return fmt.Errorf("could not set i2c bus speed to %dkHz: %w", khz, err)
	}
	return nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from %s at %#x: %w", b.bus, address, err)
	}
	if snsctx.IsVerbose(ctx) {
		slog.Debug("i2c read", "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(buffer))
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snsctx.IsVerbose(ctx) {
		slog.Debug("i2c write", "address", fmt.Sprintf("%#x", address), "data", hex.EncodeToString(buffer))
	}
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to %s at %#x: %w", b.bus, address, err)
	}
	return nil
}

// Release is a no-op; the kernel driver completes every transaction.
func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
