package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/jiaziui/oxygensensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHID replays queued 64 byte responses and records requests.
type fakeHID struct {
	requests  [][]byte
	responses [][]byte
	closed    int
}

func (f *fakeHID) Write(b []byte) (int, error) {
	f.requests = append(f.requests, append([]byte{}, b...))
	return len(b), nil
}

func (f *fakeHID) Read(b []byte) (int, error) {
	if len(f.responses) == 0 {
		return 0, errors.New("no response queued")
	}
	n := copy(b, f.responses[0])
	f.responses = f.responses[1:]
	return n, nil
}

func (f *fakeHID) Close() error {
	f.closed++
	return nil
}

func response(cmd byte, fill map[int]byte) []byte {
	b := make([]byte, reportSize)
	b[0] = cmd
	for i, v := range fill {
		b[i] = v
	}
	return b
}

func newTestAdapter(dev *fakeHID) *MCP2221 {
	d := NewMCP2221()
	d.responseWait = 0
	d.open = func() (hidDevice, error) { return dev, nil }
	return d
}

func TestMCP2221_WriteToAddr(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{response(cmdI2CWrite, nil)}}
	d := newTestAdapter(dev)

	err := d.WriteToAddr(context.Background(), 0x70, []byte{0x0C, 0xAA, 0x0B})
	require.NoError(t, err)
	require.Len(t, dev.requests, 1)
	req := dev.requests[0]
	assert.Equal(t, []byte{cmdI2CWrite, 0x03, 0x00, 0xE0, 0x0C, 0xAA, 0x0B}, req[:7])
	assert.Equal(t, 1, dev.closed)
}

func TestMCP2221_WriteToAddrBusy(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{response(cmdI2CWrite, map[int]byte{1: respBusy})}}
	d := newTestAdapter(dev)

	err := d.WriteToAddr(context.Background(), 0x70, []byte{})
	assert.ErrorIs(t, err, oxygensensor.ErrBusBusy)
}

func TestMCP2221_ReadFromAddr(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{
		response(cmdI2CRead, nil),
		response(cmdGetI2CData, map[int]byte{3: 3, 4: 20, 5: 9, 6: 50}),
	}}
	d := newTestAdapter(dev)

	buf := make([]byte, 3)
	require.NoError(t, d.ReadFromAddr(context.Background(), 0x73, buf))
	assert.Equal(t, []byte{20, 9, 50}, buf)
	require.Len(t, dev.requests, 2)
	assert.Equal(t, []byte{cmdI2CRead, 0x03, 0x00, 0xE7}, dev.requests[0][:4])
	assert.Equal(t, cmdGetI2CData, dev.requests[1][0])
}

func TestMCP2221_ReadFromAddrShort(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{
		response(cmdI2CRead, nil),
		response(cmdGetI2CData, map[int]byte{3: 2, 4: 20, 5: 9}),
	}}
	d := newTestAdapter(dev)

	err := d.ReadFromAddr(context.Background(), 0x70, make([]byte, 3))
	assert.ErrorIs(t, err, oxygensensor.ErrShortRead)
}

func TestMCP2221_ReadFromAddrEngineFailure(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{
		response(cmdI2CRead, nil),
		response(cmdGetI2CData, map[int]byte{1: respReadFailure}),
	}}
	d := newTestAdapter(dev)

	err := d.ReadFromAddr(context.Background(), 0x70, make([]byte, 1))
	assert.EqualError(t, err, "error reading the I2C slave data from the I2C engine")
}

func TestMCP2221_InitCancelsTransfer(t *testing.T) {
	dev := &fakeHID{responses: [][]byte{response(cmdStatusSetParams, nil)}}
	d := newTestAdapter(dev)

	require.NoError(t, d.Init(context.Background()))
	assert.Equal(t, subCmdCancelTransfer, dev.requests[0][2])
}

func TestMCP2221_OpenError(t *testing.T) {
	d := NewMCP2221()
	d.open = func() (hidDevice, error) { return nil, ErrDeviceNotFound }

	_, err := d.Status(context.Background())
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x03, 0x00
	buf[11], buf[12] = 0x02, 0x00
	buf[13] = 1
	buf[14] = 118
	buf[15] = 5
	buf[16], buf[17] = 0xE0, 0x00
	buf[25] = 1

	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   1,
		I2CSpeedDivider:        118,
		I2CTimeout:             5,
		CurrentAddress:         "e000",
		LastWriteRequestedSize: 3,
		LastWriteSentSize:      2,
		ReadPending:            1,
	}, bufferToStatus(buf))
}
