package oxygen

// Selectable with the A0/A1 dip switch on the board.
const (
	Address0 byte = 0x70
	Address1 byte = 0x71
	Address2 byte = 0x72
	Address3 byte = 0x73

	DefaultAddress = Address0
)

// Register map
//
//	0x03: oxygen data, 3 bytes (whole, tenths, hundredths of a percent)
//	0x08: user set key, 1 byte (manual calibration)
//	0x09: auto set key, 1 byte (firmware 0xFF)
//	0x0A: get key, 2 bytes little endian, key x1000
//	0x0C: auto set key, 2 bytes little endian (firmware 0x01)
//	0x0E: probe life, 1 byte
//	0x0F: firmware version, 1 byte
const (
	regOxygenData    byte = 0x03
	regUserSetKey    byte = 0x08
	regAutoSetKey    byte = 0x09
	regGetKey        byte = 0x0A
	regAutoSetKeyExt byte = 0x0C
	regProbeLife     byte = 0x0E
	regVersion       byte = 0x0F
)

const (
	firmwareOld byte = 0xFF
	firmwareNew byte = 0x01
)

// HistoryCapacity is the largest smoothing window the driver keeps samples for.
const HistoryCapacity = 100

// defaultKey is used when the device reports an empty key: 20.9% of oxygen in
// air over the nominal 120 calibration units.
const defaultKey float32 = 20.9 / 120.0

// InvalidReading is returned together with ErrInvalidWindow.
const InvalidReading float32 = -1
