package ui

import (
	"context"
	"time"

	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/hardware/lcd"
	"github.com/passpoint/kiosk/helpers"
	"github.com/passpoint/kiosk/state"
)

const defaultIDLength = 5

// UI owns the primary digit buffer, the settings and the root menu. It is
// the single actor touching all of them: one goroutine runs Loop, menu
// activations are blocking calls inside it.
type UI struct { //nolint:maligned
	Settings Settings

	g        *state.Global
	display  *lcd.TextDisplay
	inputch  chan input.Event
	buf      *DigitBuffer
	menuRoot *Node
	msgIntro string
	msgError string
	dwell    time.Duration
}

var _ SymbolWaiter = new(UI)

func (self *UI) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)

	frontConfig := &self.g.Config.UI.Front
	if frontConfig.MsgIntro == "" {
		frontConfig.MsgIntro = "Student ID:"
	}
	if frontConfig.MsgError == "" {
		frontConfig.MsgError = "Data error"
	}
	if frontConfig.IDLength == 0 {
		frontConfig.IDLength = defaultIDLength
	}
	self.msgIntro = frontConfig.MsgIntro
	self.msgError = frontConfig.MsgError
	self.dwell = helpers.IntSecondDefault(frontConfig.DwellSec, 2*time.Second)

	self.display = self.g.MustTextDisplay()
	self.inputch = self.g.Hardware.Input.SubscribeChan("ui", self.g.Alive.StopChan())
	self.buf = NewDigitBuffer(frontConfig.IDLength)
	self.Settings = DefaultSettings()
	self.menuRoot = self.buildMenu()
	return nil
}

// WaitSymbol blocks until the next mapped key press. Releases and unmapped
// identities are swallowed here so the rest of the UI only ever sees
// symbols. false means the program is stopping.
func (self *UI) WaitSymbol() (Symbol, bool) {
	stopch := self.g.Alive.StopChan()
	for {
		select {
		case e, ok := <-self.inputch:
			if !ok {
				return Symbol{}, false
			}
			self.g.Tele.Key(KeyLabel(e.Key), e.Up)
			if e.Up {
				continue
			}
			sym := ParseKey(e.Key)
			if sym.Kind == SymbolNone {
				continue
			}
			return sym, true

		case <-stopch:
			return Symbol{}, false
		}
	}
}

// waitDwell holds a transient message on screen. Keys pressed meanwhile
// are consumed and dropped right here: the pipeline behind inputch
// (scanner buffer, dispatch bus, blocked subscriber send) keeps moving
// only while somebody receives, and anything left in it would leak into
// the next entry.
func (self *UI) waitDwell() {
	tmr := time.NewTimer(self.dwell)
	defer tmr.Stop()
	stopch := self.g.Alive.StopChan()
	for {
		select {
		case e, ok := <-self.inputch:
			if !ok {
				return
			}
			self.g.Tele.Key(KeyLabel(e.Key), e.Up)
			self.g.Log.Debugf("dwell dropped key=%s up=%t", KeyLabel(e.Key), e.Up)
		case <-tmr.C:
			return
		case <-stopch:
			return
		}
	}
}
