package lcd

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

const MaxWidth = 40

var spaceBytes = bytes.Repeat([]byte{' '}, MaxWidth)

// TextDisplay renders a fixed two-line text screen plus RGB backlight on a
// Devicer. All writes go through an internal State so a transient Message
// can restore whatever was on screen before it.
type TextDisplay struct { //nolint:maligned
	mu    sync.Mutex
	dev   Devicer
	tr    atomic.Value
	width uint32
	state State
	upd   chan<- State
}

type TextDisplayConfig struct {
	Codepage string
	Width    uint32
}

type Devicer interface {
	Clear()
	CursorYX(y, x uint8) bool
	Write(b []byte)
	SetBacklight(r, g, b byte)
}

func NewTextDisplay(opt *TextDisplayConfig) (*TextDisplay, error) {
	if opt == nil || opt.Width == 0 {
		return nil, errors.Errorf("code error TextDisplayConfig width=0")
	}
	self := &TextDisplay{
		width: opt.Width,
	}

	if opt.Codepage != "" {
		if err := self.SetCodepage(opt.Codepage); err != nil {
			return nil, errors.Trace(err)
		}
	}

	return self, nil
}

func (self *TextDisplay) SetCodepage(cp string) error {
	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return err
	}
	self.tr.Store(tr)
	return nil
}

func (self *TextDisplay) SetDevice(dev Devicer) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.dev = dev
}

func (self *TextDisplay) Width() uint32 { return atomic.LoadUint32(&self.width) }

func (self *TextDisplay) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.state.Clear()
	self.flush()
}

// WriteText puts text at the start of a row (0 or 1). With clearLine the
// remainder of the row is blanked, otherwise previous content past the new
// text is kept.
func (self *TextDisplay) WriteText(row uint8, text string, clearLine bool) {
	b := self.Translate(text + "\x00")

	self.mu.Lock()
	defer self.mu.Unlock()

	line := self.line(row)
	if line == nil {
		return
	}
	if clearLine || len(b) >= len(*line) {
		*line = PadSpace(b, self.width)
	} else {
		merged := append([]byte(nil), b...)
		merged = append(merged, (*line)[len(b):]...)
		*line = merged
	}
	self.flush()
}

// Message shows a transient two-line screen, runs wait, then restores
// the previous screen. This is the dwell mechanism: no input is consumed
// while wait sleeps.
func (self *TextDisplay) Message(s1, s2 string, wait func()) {
	next := State{
		L1: self.Translate(s1),
		L2: self.Translate(s2),
	}

	self.mu.Lock()
	prev := self.state
	self.state = next
	self.flush()
	self.mu.Unlock()

	wait()

	self.mu.Lock()
	self.state = prev
	self.flush()
	self.mu.Unlock()
}

// nil: don't change
// len=0: set empty
func (self *TextDisplay) SetLinesBytes(b1, b2 []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if b1 != nil {
		self.state.L1 = b1
	}
	if b2 != nil {
		self.state.L2 = b2
	}
	self.flush()
}

func (self *TextDisplay) SetLines(line1, line2 string) {
	self.SetLinesBytes(
		self.Translate(line1),
		self.Translate(line2))
}

func (self *TextDisplay) SetBacklight(r, g, b byte) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.dev != nil {
		self.dev.SetBacklight(r, g, b)
	}
}

func (self *TextDisplay) Translate(s string) []byte {
	if len(s) == 0 {
		return spaceBytes[:0]
	}

	// pad by default, \x00 suppresses padding
	pad := true
	if s[len(s)-1] == '\x00' {
		pad = false
		s = s[:len(s)-1]
	}

	result := []byte(s)
	tr, ok := self.tr.Load().(charset.Translator)
	if ok && tr != nil {
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			panic(err)
		}
		// translator reuses single internal buffer, make a copy
		result = append([]byte(nil), tb...)
	}

	if pad {
		result = PadSpace(result, self.width)
	}
	return result
}

func (self *TextDisplay) SetUpdateChan(ch chan<- State) {
	self.upd = ch
}

func (self *TextDisplay) State() State {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.state.Copy()
}

func (self *TextDisplay) line(row uint8) *[]byte {
	switch row {
	case 0:
		return &self.state.L1
	case 1:
		return &self.state.L2
	}
	return nil
}

func (self *TextDisplay) flush() {
	if self.dev != nil {
		w := int(self.width)
		var buf [MaxWidth]byte
		n1 := copy(buf[:w], PadSpace(self.state.L1, self.width))
		self.dev.CursorYX(1, 1)
		self.dev.Write(buf[:n1])
		n2 := copy(buf[:w], PadSpace(self.state.L2, self.width))
		self.dev.CursorYX(2, 1)
		self.dev.Write(buf[:n2])
	}

	if self.upd != nil {
		self.upd <- self.state.Copy()
	}
}

type State struct {
	L1, L2 []byte
}

func (s *State) Clear() {
	s.L1 = nil
	s.L2 = nil
}

func (s State) Copy() State {
	return State{
		L1: append([]byte(nil), s.L1...),
		L2: append([]byte(nil), s.L2...),
	}
}

func (s State) Format(width uint32) string {
	return fmt.Sprintf("%s\n%s",
		PadSpace(s.L1, width),
		PadSpace(s.L2, width),
	)
}

func (s State) String() string {
	return fmt.Sprintf("%s\n%s", s.L1, s.L2)
}

func PadSpace(b []byte, width uint32) []byte {
	l := uint32(len(b))

	if l == 0 {
		return spaceBytes[:width]
	}
	if l >= width {
		return b[:width]
	}
	buf := make([]byte, 0, width)
	buf = append(append(buf, b...), spaceBytes[:width-l]...)
	return buf
}
