package oxygensensor

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrShortRead is returned by transports that received fewer bytes than the
// caller's buffer holds. Buffers are never zero-padded on behalf of the driver.
var ErrShortRead = fmt.Errorf("short read from I2C device")

type AddressableReader interface {
	// ReadFromAddr fills the whole buffer or returns an error.
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	// WriteToAddr sends buffer in a single transaction. An empty buffer is a
	// bare address probe.
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}
