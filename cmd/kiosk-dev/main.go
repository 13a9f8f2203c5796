// Host-side rig for developing the kiosk UI without hardware: a mock
// display printed to the terminal and keycaps typed as commands.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"

	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/hardware/lcd"
	"github.com/passpoint/kiosk/head/ui"
	"github.com/passpoint/kiosk/helpers/cli"
	"github.com/passpoint/kiosk/log2"
	"github.com/passpoint/kiosk/state"
)

var log = log2.NewStderr(log2.LDebug)

// keycap name -> matrix key identity
var keycaps = map[string]input.Key{
	"0": 16, "1": 12, "2": 13, "3": 14,
	"4": 8, "5": 9, "6": 10,
	"7": 4, "8": 5, "9": 6,
	".": 18, "+": 7, "-": 2, "/": 3,
	"enter": 15, "back": 0, "menu": 1,
	"up": 5, "down": 13,
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "kiosk.hcl", "")
	_ = cmdline.Parse(os.Args[1:])
	log.SetFlags(log2.LInteractiveFlags)

	ctx, g := state.NewContext(log)
	display, mock := lcd.NewMockTextDisplay(&lcd.TextDisplayConfig{Width: 16})
	g.SetTextDisplay(display)
	g.MustInit(ctx, state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))

	uiFront := new(ui.UI)
	if err := uiFront.Init(ctx); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	go uiFront.Loop(ctx)

	show := func() {
		r, gc, b := mock.Backlight()
		fmt.Printf("+----------------+ rgb=%d,%d,%d\n", r, gc, b)
		for _, line := range strings.SplitN(mock.String(), "\n", 2) {
			fmt.Printf("|%-16s|\n", line)
		}
		fmt.Printf("+----------------+\n")
	}

	press := func(k input.Key) {
		g.Hardware.Input.Emit(input.Event{Source: "kiosk-dev", Key: k})
		g.Hardware.Input.Emit(input.Event{Source: "kiosk-dev", Key: k, Up: true})
		// let the ui goroutine redraw before printing
		time.Sleep(50 * time.Millisecond)
		show()
	}

	exec := func(line string) {
		for _, word := range strings.Fields(line) {
			switch word {
			case "show":
				show()
			case "settings":
				fmt.Printf("settings day=%c type=%s block=%d\n",
					uiFront.Settings.Day, uiFront.Settings.Type, uiFront.Settings.Block)
			case "quit", "exit":
				g.Alive.Stop()
				os.Exit(0)
			default:
				if k, ok := keycaps[word]; ok {
					press(k)
				} else if len(word) > 1 && allDigits(word) {
					for _, c := range word {
						press(keycaps[string(c)])
					}
				} else {
					fmt.Printf("unknown command %q, try: 0-9 . enter back menu up down show settings quit\n", word)
				}
			}
		}
	}

	show()
	cli.MainLoop("kiosk-dev", exec, complete)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var suggestions = []prompt.Suggest{
	{Text: "enter", Description: "submit ID / select menu entry"},
	{Text: "back", Description: "backspace / leave menu (Num Lock)"},
	{Text: "menu", Description: "open settings menu (*)"},
	{Text: "up", Description: "menu cursor up (8)"},
	{Text: "down", Description: "menu cursor down (2)"},
	{Text: "show", Description: "print the mock display"},
	{Text: "settings", Description: "print current day/type/block"},
	{Text: "quit", Description: "stop"},
}

func complete(d prompt.Document) []prompt.Suggest {
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}
