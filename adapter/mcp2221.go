package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/jiaziui/oxygensensor"
	"github.com/jiaziui/oxygensensor/snsctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// HID commands, see MCP2221A datasheet section 3.1
const (
	cmdStatusSetParams byte = 0x10
	cmdGetI2CData      byte = 0x40
	cmdI2CWrite        byte = 0x90
	cmdI2CRead         byte = 0x91

	subCmdCancelTransfer byte = 0x10

	respBusy        byte = 0x01
	respReadFailure byte = 0x41
	respBadLength   byte = 127
)

var ErrDeviceNotFound = errors.New("MCP2221 device not found")
var ErrAmbiguousDevice = errors.New("ambiguous device identification")

var _ oxygensensor.I2CBus = &MCP2221{}

type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// MCP2221 is a Microchip MCP2221(A) USB to I2C bridge. Each request opens the
// HID device, sends one 64 byte report and reads the 64 byte answer.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	open         func() (hidDevice, error)
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

type MCP2221Opt func(*MCP2221)

// WithDeviceIndex selects one of several attached bridges by enumeration order.
func WithDeviceIndex(index int) MCP2221Opt {
	return func(d *MCP2221) {
		d.open = func() (hidDevice, error) { return openHID(index) }
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
		open:         func() (hidDevice, error) { return openHID(-1) },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func openHID(index int) (hidDevice, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	if index < 0 {
		if len(devs) > 1 {
			return nil, ErrAmbiguousDevice
		}
		index = 0
	}
	if index >= len(devs) {
		return nil, fmt.Errorf("no device with id %d", index)
	}
	dev, err := devs[index].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

// Init checks the bridge is reachable and cancels any transfer left hanging
// by a previous session.
func (d *MCP2221) Init(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	if err != nil {
		return fmt.Errorf("could not initialize MCP2221: %w", err)
	}
	return nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWrite
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if d.response[1] == respBusy {
		snsctx.Logger(ctx).Debug("adapter busy", "address", fmt.Sprintf("%#x", address))
		return oxygensensor.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CRead
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	if d.response[1] == respBusy {
		return oxygensensor.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdGetI2CData
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == respReadFailure {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == respBadLength || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("%w: expected %d bytes from %x, got %d", oxygensensor.ErrShortRead, len(buffer), address, d.response[3])
	}
	copy(buffer, d.response[4:4+len(buffer)])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	return err
}

// ReleaseBus cancels the current I2C transfer and returns the status after it.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.releaseBus(ctx)
}

func (d *MCP2221) releaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = subCmdCancelTransfer
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("cancel transfer request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	return &MCP2221Status{
		I2CDataBufferCounter:   int(buffer[13]),
		I2CSpeedDivider:        int(buffer[14]),
		I2CTimeout:             int(buffer[15]),
		ReadPending:            int(buffer[25]),
		CurrentAddress:         hex.EncodeToString(buffer[16:18]),
		LastWriteRequestedSize: binary.LittleEndian.Uint16(buffer[9:11]),
		LastWriteSentSize:      binary.LittleEndian.Uint16(buffer[11:13]),
	}
}

func (d *MCP2221) send(ctx context.Context) error {
	dev, err := d.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = dev.Close()
	}()
	logger := snsctx.Logger(ctx)
	verbose := snsctx.IsVerbose(ctx)
	if verbose {
		logger.Debug("sending message to adapter", "frame", "\n"+hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	timer := time.NewTimer(d.responseWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		logger.Debug("read message from adapter", "frame", "\n"+hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	clear(d.request)
	clear(d.response)
}
