package oxygen

import (
	"context"
	"fmt"
)

// ProbeLife is the electrochemical probe depletion status.
type ProbeLife int8

const (
	ProbeLifeVersionError ProbeLife = -1
	ProbeLifeExhausted    ProbeLife = 0
	ProbeLifeNormal       ProbeLife = 1
)

func (p ProbeLife) String() string {
	switch p {
	case ProbeLifeVersionError:
		return "unsupported"
	case ProbeLifeExhausted:
		return "exhausted"
	case ProbeLifeNormal:
		return "normal"
	default:
		return fmt.Sprintf("unknown(%d)", int8(p))
	}
}

// CheckProbeLife reads the probe status register. Old firmware has no such
// register: ProbeLifeVersionError is returned with ErrVersionUnsupported and
// the bus is not used.
func (s *Sensor) CheckProbeLife(ctx context.Context) (ProbeLife, error) {
	if !s.ready {
		return ProbeLifeVersionError, ErrNotInitialized
	}
	if s.version == VersionOld {
		return ProbeLifeVersionError, ErrVersionUnsupported
	}
	resp, err := s.readRegister(ctx, regProbeLife, 1, 0)
	if err != nil {
		return ProbeLifeVersionError, fmt.Errorf("oxygen: could not read probe life: %w", err)
	}
	return ProbeLife(int8(resp[0])), nil
}
