package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passpoint/kiosk/hardware/input"
)

func writeAllowlist(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Allowlist.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func allowlistConf(t testing.TB, content string) string {
	return fmt.Sprintf(`allowlist { path = "%s" }`, writeAllowlist(t, content))
}

func TestFrontAllowed(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n"))
	go env.ui.Loop(env.ctx)

	backlight := func(r, g, b byte) func() {
		return func() {
			gotR, gotG, gotB := env.mock.Backlight()
			assert.Equal(t, [3]byte{r, g, b}, [3]byte{gotR, gotG, gotB})
		}
	}

	steps := seq(
		step{expect: _T("Student ID:", ""), fun: backlight(255, 255, 255)}.then(digitKeys['1']),
		step{expect: _T("Student ID:1", "")}.then(digitKeys['2']),
		step{expect: _T("Student ID:12", "")}.then(digitKeys['3']),
		step{expect: _T("Student ID:123", "")}.then(digitKeys['4']),
		step{expect: _T("Student ID:1234", "")}.then(digitKeys['5']),
		step{expect: _T("Student ID:12345", "")}.then(keyEnter),
		// default settings: day A block 1, table says A=1 -> permitted
		step{expect: _T("Allowed", "alice"), fun: backlight(0, 255, 0)},
		step{expect: _T("Student ID:12345", "")}, // message restore
		step{expect: _T("Student ID:", ""), fun: backlight(255, 255, 255)},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}

func TestFrontDwellDropsKeys(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n"))
	// long enough for a press to travel the whole pipeline while the
	// decision is still on screen
	env.ui.dwell = 200 * time.Millisecond
	go env.ui.Loop(env.ctx)

	pressNow := func(keys ...input.Key) func() {
		return func() {
			for _, k := range keys {
				env.g.Hardware.Input.Emit(input.Event{Source: "test", Key: k})
				env.g.Hardware.Input.Emit(input.Event{Source: "test", Key: k, Up: true})
			}
		}
	}

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(digitKeys['1']),
		step{expect: _T("Student ID:1", "")}.then(digitKeys['2']),
		step{expect: _T("Student ID:12", "")}.then(digitKeys['3']),
		step{expect: _T("Student ID:123", "")}.then(digitKeys['4']),
		step{expect: _T("Student ID:1234", "")}.then(digitKeys['5']),
		step{expect: _T("Student ID:12345", "")}.then(keyEnter),
		// keys pressed while the decision dwells must vanish, not queue
		step{expect: _T("Allowed", "alice"), fun: pressNow(digitKeys['9'], digitKeys['8'])},
		step{expect: _T("Student ID:12345", "")},
		// the next entry starts clean: first visible digit is the 7
		step{expect: _T("Student ID:", "")}.then(digitKeys['7']),
		step{expect: _T("Student ID:7", "")},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}

func TestFrontEntryEditing(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n"))
	go env.ui.Loop(env.ctx)

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(digitKeys['9']),
		step{expect: _T("Student ID:9", "")}.then(keyBack),
		// backspace redraws, then backspace on empty is a no-op redraw
		step{expect: _T("Student ID:", "")}.then(keyBack),
		// Enter on a partial buffer must not redraw or decide
		step{expect: _T("Student ID:", "")}.then(keyEnter),
		press(digitKeys['9']),
		step{expect: _T("Student ID:9", "")}.then(digitKeys['9']),
		step{expect: _T("Student ID:99", "")}.then(digitKeys['9']),
		step{expect: _T("Student ID:999", "")}.then(digitKeys['9']),
		step{expect: _T("Student ID:9999", "")}.then(digitKeys['9']),
		// 6th digit is an overflow no-op, then submit
		step{expect: _T("Student ID:99999", "")}.then(digitKeys['9']),
		press(keyEnter),
		step{expect: _T("ID not found", "99999")},
		step{expect: _T("Student ID:99999", "")},
		step{expect: _T("Student ID:", "")},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}

func TestFrontDataError(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, `allowlist { path = "/nonexistent/Allowlist.csv" }`)
	go env.ui.Loop(env.ctx)

	amber := func() {
		r, g, b := env.mock.Backlight()
		assert.Equal(t, [3]byte{255, 176, 0}, [3]byte{r, g, b})
	}

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(digitKeys['1']),
		step{expect: _T("Student ID:1", "")}.then(digitKeys['1']),
		step{expect: _T("Student ID:11", "")}.then(digitKeys['1']),
		step{expect: _T("Student ID:111", "")}.then(digitKeys['1']),
		step{expect: _T("Student ID:1111", "")}.then(digitKeys['1']),
		step{expect: _T("Student ID:11111", "")}.then(keyEnter),
		step{expect: _T("Data error", ""), fun: amber},
		step{expect: _T("Student ID:11111", "")},
		step{expect: _T("Student ID:", "")},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}

func TestMenuSettings(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n99998,2,2,bob\n"))
	go env.ui.Loop(env.ctx)

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(digitKeys['1']),
		// partial entry is abandoned by opening the menu
		step{expect: _T("Student ID:1", "")}.then(keyMenu),
		menuFrame("Set day        <", "Set block       "),
		press(keyEnter),
		menuFrame("A Day          <", "B Day           "),
		press(keyDown),
		menuFrame("A Day           ", "B Day          <"),
		press(keyEnter),
		// selecting a day chains into the day-type prompt
		menuFrame("Regular Day    <", "Assembly        "),
		press(keyDown),
		menuFrame("Regular Day     ", "Assembly       <"),
		press(keyEnter),
		// day menu closed, root redraws
		menuFrame("Set day        <", "Set block       "),
		step{fun: func() {
			assert.Equal(t, byte('B'), env.ui.Settings.Day)
			assert.Equal(t, DayAssembly, env.ui.Settings.Type)
		}},
		press(keyDown),
		menuFrame("Set day         ", "Set block      <"),
		press(keyEnter),
		// block prompt: clear, question, staged digit edits
		step{expect: _T("", "")},
		step{expect: _T("What block?", "")}.then(digitKeys['3']),
		step{expect: _T("What block?", "3")}.then(keyBack),
		step{expect: _T("What block?", "")}.then(digitKeys['2']),
		step{expect: _T("What block?", "2")}.then(keyEnter),
		// commit closes the whole menu
		step{expect: _T("Student ID:", "")},
		step{fun: func() {
			assert.Equal(t, 2, env.ui.Settings.Block)
		}},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}

func TestMenuUploadAllowlist(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n99998,2,2,bob\n"))
	go env.ui.Loop(env.ctx)

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(keyMenu),
		menuFrame("Set day        <", "Set block       "),
		press(keyDown),
		menuFrame("Set day         ", "Set block      <"),
		press(keyDown),
		menuFrame("Set block       ", "Upload Allowlis<"),
		press(keyEnter),
		step{expect: _T("Allowlist OK", "2 rows")},
		// message restores the menu screen, then success closes the menu
		step{expect: _T("Set block       ", "Upload Allowlis<")},
		step{expect: _T("Student ID:", "")},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}

func TestMenuPowerOff(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n"))
	go env.ui.Loop(env.ctx)

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(keyMenu),
		menuFrame("Set day        <", "Set block       "),
		press(keyDown),
		menuFrame("Set day         ", "Set block      <"),
		press(keyDown),
		menuFrame("Set block       ", "Upload Allowlis<"),
		press(keyDown),
		menuFrame("Upload Allowlis ", "Battery        <"),
		press(keyDown),
		menuFrame("Battery         ", "Power off      <"),
		press(keyEnter),
		step{expect: _T("Power off", "")},
	)
	uiTestWait(t, env, steps)

	select {
	case <-env.g.Alive.WaitChan():
	case <-time.After(5 * time.Second):
		t.Fatal("power off did not stop the program")
	}
}

func TestMenuBackAbandonsEntry(t *testing.T) {
	t.Parallel()

	env := uiTestSetup(t, allowlistConf(t, "STUDENT_PIN,A,B,log\n12345,1,3,alice\n"))
	go env.ui.Loop(env.ctx)

	steps := seq(
		step{expect: _T("Student ID:", "")}.then(digitKeys['7']),
		step{expect: _T("Student ID:7", "")}.then(keyMenu),
		menuFrame("Set day        <", "Set block       "),
		press(keyBack),
		// back out of the menu: partial "7" is gone
		step{expect: _T("Student ID:", "")}.then(digitKeys['5']),
		step{expect: _T("Student ID:5", "")},
	)
	uiTestWait(t, env, steps)
	env.g.Alive.Stop()
}
