package i2c

import (
	"context"
	"fmt"
	"sync"

	"github.com/jiaziui/oxygensensor"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ oxygensensor.I2CBus = &GobotBus{}

// GobotBus adapts a gobot I2C connector (NanoPi, Raspberry Pi, ... adaptors)
// to the addressable bus interface. One connection per device address is
// opened lazily and kept until Close.
type GobotBus struct {
	mx        sync.Mutex
	connector gobot.Connector
	busNr     int
	conns     map[byte]gobot.Connection
}

func NewGobotBus(connector gobot.Connector, busNr int) *GobotBus {
	return &GobotBus{
		connector: connector,
		busNr:     busNr,
		conns:     make(map[byte]gobot.Connection),
	}
}

func (b *GobotBus) conn(address byte) (gobot.Connection, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c connection to %x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("%w: expected %d bytes from %x, got %d", oxygensensor.ErrShortRead, len(buffer), address, n)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	_, err = c.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close i2c connection to %x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return firstErr
}
