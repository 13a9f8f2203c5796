// Battery fuel gauge (MAX17048/49): plain register reads over I2C.
package gauge

import (
	"github.com/juju/errors"
	"github.com/passpoint/kiosk/hardware/i2c"
)

const Address byte = 0x36

const (
	regVCell   byte = 0x02
	regSoc     byte = 0x04
	regVersion byte = 0x08
)

type Gauge struct {
	bus  i2c.I2CBus
	addr byte
}

func NewGauge(bus i2c.I2CBus) *Gauge {
	return &Gauge{bus: bus, addr: Address}
}

func (self *Gauge) read16(reg byte) (uint16, error) {
	var br [2]byte
	if err := self.bus.Tx(self.addr, []byte{reg}, br[:]); err != nil {
		return 0, errors.Annotatef(err, "gauge reg=%02x", reg)
	}
	return uint16(br[0])<<8 | uint16(br[1]), nil
}

// Voltage returns the cell voltage in volts. VCELL LSB is 78.125uV.
func (self *Gauge) Voltage() (float32, error) {
	raw, err := self.read16(regVCell)
	if err != nil {
		return 0, err
	}
	return float32(raw) * 78.125e-6, nil
}

// Percent returns the state of charge 0..100. SOC register is
// percent with 1/256% resolution.
func (self *Gauge) Percent() (float32, error) {
	raw, err := self.read16(regSoc)
	if err != nil {
		return 0, err
	}
	p := float32(raw) / 256
	if p > 100 {
		p = 100
	}
	return p, nil
}

func (self *Gauge) Version() (uint16, error) {
	return self.read16(regVersion)
}
