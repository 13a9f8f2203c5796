package ui

import (
	"fmt"
)

func (self *UI) buildMenu() *Node {
	dayType := MustNode("Day Type?",
		Entry{Label: "Regular Day", Do: self.setDayType(DayNormal)},
		Entry{Label: "Assembly", Do: self.setDayType(DayAssembly)},
		Entry{Label: "Wednesday", Do: self.setDayType(DayWednesday)},
	)
	day := MustNode("A or B Day?",
		Entry{Label: "A Day", Do: self.setDay('A', dayType)},
		Entry{Label: "B Day", Do: self.setDay('B', dayType)},
	)
	return MustNode("Settings",
		Entry{Label: "Set day", Sub: day},
		Entry{Label: "Set block", Do: self.setBlock},
		Entry{Label: "Upload Allowlist", Do: self.uploadAllowlist},
		Entry{Label: "Battery", Do: self.showBattery},
		Entry{Label: "Power off", Do: self.powerOff},
	)
}

// setDay chains straight into the day-type prompt, then closes the day
// menu: picking A/B without a type makes no sense to the proctor.
func (self *UI) setDay(day byte, dayType *Node) Action {
	return func() bool {
		self.Settings.Day = day
		dayType.Activate(self.display, self)
		return true
	}
}

func (self *UI) setDayType(dt DayType) Action {
	return func() bool {
		self.Settings.Type = dt
		return true
	}
}

// setBlock is a separate single-digit prompt screen, not a menu: digit 1-4
// stages the value, Back clears it, Enter commits and closes.
func (self *UI) setBlock() bool {
	self.display.Clear()
	self.display.WriteText(0, "What block?", true)
	staged := byte(0)
	for {
		sym, ok := self.WaitSymbol()
		if !ok {
			return true
		}
		switch {
		case sym.IsDigit() && sym.Digit >= 1 && sym.Digit <= 4 && staged == 0:
			staged = sym.Digit
			self.display.WriteText(1, string([]byte{'0' + staged}), true)

		case sym.Kind == SymbolBack:
			staged = 0
			self.display.WriteText(1, "", true)

		case sym.Kind == SymbolEnter:
			if staged != 0 {
				self.Settings.Block = int(staged)
				return true
			}
		}
	}
}

func (self *UI) uploadAllowlist() bool {
	n, err := self.g.Allowlist.Load()
	if err != nil {
		self.g.Error(err)
		self.display.Message("Upload failed", "", self.waitDwell)
		return false
	}
	self.display.Message("Allowlist OK", fmt.Sprintf("%d rows", n), self.waitDwell)
	return true
}

func (self *UI) showBattery() bool {
	gg, err := self.g.Gauge()
	if err != nil {
		self.g.Error(err)
	}
	if gg == nil {
		self.display.Message("Battery", "no gauge", self.waitDwell)
		return false
	}
	percent, err1 := gg.Percent()
	volts, err2 := gg.Voltage()
	if err1 != nil || err2 != nil {
		self.g.Error(err1)
		self.g.Error(err2)
		self.display.Message("Battery", "read error", self.waitDwell)
		return false
	}
	self.display.Message(
		fmt.Sprintf("Battery %.0f%%", percent),
		fmt.Sprintf("%.2fV", volts),
		self.waitDwell)
	return false
}

// powerOff is terminal: stops the program, the hardware wrapper takes the
// device into a low-power halt.
func (self *UI) powerOff() bool {
	self.display.SetLines("Power off", "")
	self.g.Alive.Stop()
	return true
}
