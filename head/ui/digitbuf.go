package ui

// DigitBuffer accumulates a bounded ID entry. All failures are no-ops:
// append past capacity, backspace on empty, submit before full.
type DigitBuffer struct {
	max int
	buf []byte
}

func NewDigitBuffer(capacity int) *DigitBuffer {
	if capacity <= 0 {
		panic("code error DigitBuffer capacity<=0")
	}
	return &DigitBuffer{
		max: capacity,
		buf: make([]byte, 0, capacity),
	}
}

// Append returns false without change when the buffer is full.
func (self *DigitBuffer) Append(c byte) bool {
	if len(self.buf) >= self.max {
		return false
	}
	self.buf = append(self.buf, c)
	return true
}

// Backspace reports whether a character was removed.
func (self *DigitBuffer) Backspace() bool {
	if len(self.buf) == 0 {
		return false
	}
	self.buf = self.buf[:len(self.buf)-1]
	return true
}

// Submit returns the contents only when the buffer is exactly full.
// The buffer is not changed either way; clearing is the caller's move.
func (self *DigitBuffer) Submit() (string, bool) {
	if len(self.buf) != self.max {
		return "", false
	}
	return string(self.buf), true
}

func (self *DigitBuffer) Reset() { self.buf = self.buf[:0] }

func (self *DigitBuffer) Len() int { return len(self.buf) }

func (self *DigitBuffer) String() string { return string(self.buf) }
