// Driver for the Waveshare/Grove LCD1602 RGB module: HD44780-compatible
// controller plus a PCA9633 backlight controller, both on one I2C bus.
package lcd

import (
	"time"

	"github.com/juju/errors"
	"github.com/passpoint/kiosk/hardware/i2c"
	"github.com/passpoint/kiosk/log2"
)

const (
	lcdAddress byte = 0x7c >> 1
	rgbAddress byte = 0xc0 >> 1
)

// backlight controller registers
const (
	regRed    byte = 0x04
	regGreen  byte = 0x03
	regBlue   byte = 0x02
	regMode1  byte = 0x00
	regMode2  byte = 0x01
	regOutput byte = 0x08
)

type Command byte

const (
	CommandClear     Command = 0x01
	CommandReturn    Command = 0x02
	CommandEntryMode Command = 0x04
	CommandControl   Command = 0x08
	CommandFunction  Command = 0x20
	CommandAddress   Command = 0x80
)

type Control byte

const (
	ControlOn         Control = 0x04
	ControlUnderscore Control = 0x02
	ControlBlink      Control = 0x01
)

const ddramWidth = 0x40

type LCD struct {
	bus     i2c.I2CBus
	log     *log2.Log
	control Control
	cols    uint8
	rows    uint8
}

func NewLCD(bus i2c.I2CBus, log *log2.Log, cols, rows uint8) (*LCD, error) {
	self := &LCD{
		bus:  bus,
		log:  log,
		cols: cols,
		rows: rows,
	}
	if err := self.init(); err != nil {
		return nil, errors.Annotate(err, "lcd init")
	}
	return self, nil
}

func (self *LCD) init() error {
	time.Sleep(50 * time.Millisecond)

	// function set: 4 lines worth of retries per datasheet wake-up
	fn := CommandFunction | 0x08 // 2-line, 5x8 dots
	for i := 0; i < 3; i++ {
		if err := self.command(fn); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := self.setControl(ControlOn); err != nil {
		return err
	}
	if err := self.clear(); err != nil {
		return err
	}
	// left to right, no shift
	if err := self.command(CommandEntryMode | 0x02); err != nil {
		return err
	}

	// backlight controller wake-up
	for _, c := range [][2]byte{
		{regMode1, 0x00},
		{regOutput, 0xff},
		{regMode2, 0x20},
	} {
		if err := self.rgbReg(c[0], c[1]); err != nil {
			return err
		}
	}
	return self.setBacklight(255, 255, 255)
}

func (self *LCD) command(c Command) error {
	return self.bus.Tx(lcdAddress, []byte{0x80, byte(c)}, nil)
}

func (self *LCD) data(b byte) error {
	return self.bus.Tx(lcdAddress, []byte{0x40, b}, nil)
}

func (self *LCD) rgbReg(reg, value byte) error {
	return self.bus.Tx(rgbAddress, []byte{reg, value}, nil)
}

func (self *LCD) clear() error {
	if err := self.command(CommandClear); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (self *LCD) setControl(new Control) error {
	self.control = new
	return self.command(CommandControl | Command(new))
}

func (self *LCD) setBacklight(r, g, b byte) error {
	if err := self.rgbReg(regRed, r); err != nil {
		return err
	}
	if err := self.rgbReg(regGreen, g); err != nil {
		return err
	}
	return self.rgbReg(regBlue, b)
}

// Devicer interface. Display write failures must not crash the poll loop,
// they are logged and the current render is skipped.

func (self *LCD) Clear() {
	if err := self.clear(); err != nil {
		self.log.Errorf("lcd clear err=%v", err)
	}
}

func (self *LCD) CursorYX(row uint8, column uint8) bool {
	if !(row > 0 && row <= self.rows) {
		return false
	}
	if !(column > 0 && column <= self.cols) {
		return false
	}
	addr := (row-1)*ddramWidth + (column - 1)
	if err := self.command(CommandAddress | Command(addr)); err != nil {
		self.log.Errorf("lcd cursor err=%v", err)
		return false
	}
	return true
}

func (self *LCD) Write(bs []byte) {
	for _, b := range bs {
		if err := self.data(b); err != nil {
			self.log.Errorf("lcd write err=%v", err)
			return
		}
	}
}

func (self *LCD) SetBacklight(r, g, b byte) {
	if err := self.setBacklight(r, g, b); err != nil {
		self.log.Errorf("lcd backlight err=%v", err)
	}
}
