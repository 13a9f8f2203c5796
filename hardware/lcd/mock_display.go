package lcd

import (
	"fmt"
	"sync"
)

func NewMockTextDisplay(opt *TextDisplayConfig) (*TextDisplay, *MockDevicer) {
	dev := new(MockDevicer)
	display, err := NewTextDisplay(opt)
	if err != nil {
		panic(err)
	}
	display.SetDevice(dev)
	return display, dev
}

type MockDevicer struct {
	mu      sync.Mutex
	l1      []byte
	l2      []byte
	R, G, B byte
	y, x    uint8
}

func (self *MockDevicer) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.l1 = nil
	self.l2 = nil
}

func (self *MockDevicer) CursorYX(y, x uint8) bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.y, self.x = y, x
	return true
}

func (self *MockDevicer) Write(b []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()
	cp := append([]byte(nil), b...)
	switch self.y {
	case 1:
		self.l1 = cp
	case 2:
		self.l2 = cp
	}
}

func (self *MockDevicer) SetBacklight(r, g, b byte) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.R, self.G, self.B = r, g, b
}

func (self *MockDevicer) Backlight() (byte, byte, byte) {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.R, self.G, self.B
}

func (self *MockDevicer) String() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return fmt.Sprintf("%s\n%s", string(self.l1), string(self.l2))
}
