package ui

import (
	"context"

	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/head/allowlist"
)

// backlight colors, one per outcome
var (
	colorIdle    = [3]byte{255, 255, 255}
	colorAllowed = [3]byte{0, 255, 0}
	colorDenied  = [3]byte{255, 0, 0}
	colorWarn    = [3]byte{255, 176, 0}
)

// Loop runs the ID-entry front screen until the program stops. The only
// planned exit is the power-off menu action.
func (self *UI) Loop(ctx context.Context) {
	self.renderIdle()
	for self.g.Alive.IsRunning() {
		sym, ok := self.WaitSymbol()
		if !ok {
			break
		}
		self.dispatch(sym)
	}
	self.g.Log.Debugf("ui loop stopped")
}

func (self *UI) dispatch(sym Symbol) {
	switch {
	case sym.Kind == SymbolDigit || sym.Kind == SymbolDot:
		if self.buf.Append(sym.Char()) {
			self.renderEntry()
		}

	case sym.Kind == SymbolBack:
		self.buf.Backspace()
		self.renderEntry()

	case sym.Kind == SymbolEnter:
		id, ok := self.buf.Submit()
		if !ok {
			return
		}
		self.showDecision(id)
		self.buf.Reset()
		self.renderIdle()

	case sym.Kind == SymbolMenu:
		self.menuRoot.Activate(self.display, self)
		if !self.g.Alive.IsRunning() {
			// power-off action, keep its screen
			return
		}
		// abandon any partial entry made before the menu
		self.buf.Reset()
		self.renderIdle()
	}
}

func (self *UI) renderIdle() {
	self.display.SetBacklight(colorIdle[0], colorIdle[1], colorIdle[2])
	self.display.SetLines(self.msgIntro, "")
}

func (self *UI) renderEntry() {
	self.display.SetLines(self.msgIntro+self.buf.String(), "")
}

func (self *UI) showDecision(id string) {
	res := self.g.Allowlist.Check(id, self.Settings.Day, self.Settings.Block)
	self.g.Tele.Decision(id, res.Decision.String(), res.Label)
	self.g.Log.Infof("check id=%s day=%c block=%d decision=%s",
		id, self.Settings.Day, self.Settings.Block, res.Decision)

	var l1, l2 string
	var color [3]byte
	switch res.Decision {
	case allowlist.Allowed:
		l1, l2, color = "Allowed", res.Label, colorAllowed
	case allowlist.Denied:
		l1, l2, color = "Denied", res.Label, colorDenied
	case allowlist.NotFound:
		l1, l2, color = "ID not found", id, colorDenied
	default:
		l1, l2, color = self.msgError, "", colorWarn
	}

	self.display.SetBacklight(color[0], color[1], color[2])
	self.display.Message(l1, l2, self.waitDwell)
	// final sweep for a press that landed between dwell end and restore
	input.Drain(self.inputch)
}
