package ui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/hardware/lcd"
	"github.com/passpoint/kiosk/state"
)

const testDisplayWidth = 16

// matrix key identities used in scenarios
const (
	keyBack  input.Key = 0  // Num Lock
	keyMenu  input.Key = 1  // *
	keyUp    input.Key = 5  // 8
	keyDown  input.Key = 13 // 2
	keyEnter input.Key = 15
)

var digitKeys = map[byte]input.Key{
	'0': 16, '1': 12, '2': 13, '3': 14, '4': 8,
	'5': 9, '6': 10, '7': 4, '8': 5, '9': 6,
}

type tenv struct {
	ctx  context.Context
	g    *state.Global
	ui   *UI
	mock *lcd.MockDevicer
	upd  chan lcd.State
}

// step: wait for one display update, compare, run fun, emit key press.
// Empty expect skips the wait (for inputs that must not redraw).
type step struct {
	expect string
	key    input.Key
	emit   bool
	fun    func()
}

func press(k input.Key) step { return step{key: k, emit: true} }

func (s step) then(k input.Key) step {
	s.key = k
	s.emit = true
	return s
}

func uiTestSetup(t testing.TB, confString string) *tenv {
	ctx, g := state.NewTestContext(t, confString)
	env := &tenv{ctx: ctx, g: g, mock: g.XXX_MockDevicer}
	env.ui = &UI{}
	require.NoError(t, env.ui.Init(ctx))
	env.ui.dwell = time.Millisecond
	env.upd = make(chan lcd.State)
	g.MustTextDisplay().SetUpdateChan(env.upd)
	return env
}

func uiTestWait(t testing.TB, env *tenv, steps []step) {
	t.Helper()
	waitch := env.g.Alive.WaitChan()

	for i, s := range steps {
		if s.expect != "" {
			select {
			case current := <-env.upd:
				require.Equal(t, s.expect, current.Format(testDisplayWidth),
					"step=%d", i)
			case <-waitch:
				t.Fatalf("step=%d ui stopped early", i)
			case <-time.After(5 * time.Second):
				t.Fatalf("step=%d timeout expect=%q", i, s.expect)
			}
		}
		if s.fun != nil {
			s.fun()
		}
		if s.emit {
			env.g.Hardware.Input.Emit(input.Event{Source: "test", Key: s.key})
		}
	}
}

func _T(l1, l2 string) string {
	return fmt.Sprintf("%s\n%s",
		lcd.PadSpace([]byte(l1), testDisplayWidth),
		lcd.PadSpace([]byte(l2), testDisplayWidth))
}

// menu renders clear + two row writes, three updates per frame
func menuFrame(l1, l2 string) []step {
	return []step{
		{expect: _T("", "")},
		{expect: _T(l1, "")},
		{expect: _T(l1, l2)},
	}
}

func seq(parts ...interface{}) []step {
	out := make([]step, 0, 16)
	for _, p := range parts {
		switch v := p.(type) {
		case step:
			out = append(out, v)
		case []step:
			out = append(out, v...)
		default:
			panic(fmt.Sprintf("test code error seq part %#v", p))
		}
	}
	return out
}
