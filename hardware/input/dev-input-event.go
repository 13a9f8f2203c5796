package input

import (
	"io"
	"os"

	"github.com/temoto/inputevent-go"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const evKey = 1

// A USB numpad has the exact key legend of the kiosk matrix, so the dev rig
// maps Linux KEY_KP* scancodes onto matrix key identities.
var numpadKeymap = map[uint16]Key{
	69: 0,  // KEY_NUMLOCK
	55: 1,  // KEY_KPASTERISK
	74: 2,  // KEY_KPMINUS
	98: 3,  // KEY_KPSLASH
	71: 4,  // KEY_KP7
	72: 5,  // KEY_KP8
	73: 6,  // KEY_KP9
	78: 7,  // KEY_KPPLUS
	75: 8,  // KEY_KP4
	76: 9,  // KEY_KP5
	77: 10, // KEY_KP6
	79: 12, // KEY_KP1
	80: 13, // KEY_KP2
	81: 14, // KEY_KP3
	96: 15, // KEY_KPENTER
	82: 16, // KEY_KP0
	83: 18, // KEY_KPDOT
}

type DevInputEventSource struct {
	f io.ReadCloser
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &DevInputEventSource{f: f}, nil
}

func (self *DevInputEventSource) Read() (Event, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return Event{}, err
		}
		if ie.Type != evKey {
			continue
		}
		if ie.Value == int32(inputevent.KeyStateHold) {
			continue
		}
		key, ok := numpadKeymap[ie.Code]
		if !ok {
			continue
		}
		ev := Event{
			Source: DevInputEventTag,
			Key:    key,
			Up:     ie.Value == int32(inputevent.KeyStateUp),
		}
		return ev, nil
	}
}
