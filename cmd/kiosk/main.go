// Hallway-pass kiosk firmware entry point.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"

	"github.com/passpoint/kiosk/hardware/lcd"
	"github.com/passpoint/kiosk/head/ui"
	"github.com/passpoint/kiosk/log2"
	"github.com/passpoint/kiosk/state"
)

var BuildVersion string = "unknown" // set by ldflags

const heartbeatInterval = 30 * time.Second

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "kiosk.hcl", "")
	flagLogDebug := cmdline.Bool("log-debug", false, "")
	_ = cmdline.Parse(os.Args[1:])

	logLevel := log2.LInfo
	if *flagLogDebug {
		logLevel = log2.LDebug
	}
	log := log2.NewStderr(logLevel)
	if sdnotify(log, "STATUS=starting") {
		// under systemd journal, timestamps are redundant
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Infof("kiosk version=%s", BuildVersion)

	ctx, g := state.NewContext(log)
	g.BuildVersion = BuildVersion
	g.MustInit(ctx, state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))

	display := g.MustTextDisplay()
	display.SetLines("boot", BuildVersion)

	if g.Tele != nil {
		updch := make(chan lcd.State, 16)
		display.SetUpdateChan(updch)
		go mirrorScreen(g.Tele, updch)
		go heartbeat(g)
	}

	uiFront := new(ui.UI)
	if err := uiFront.Init(ctx); err != nil {
		g.Log.Fatal(errors.ErrorStack(errors.Annotate(err, "ui init")))
	}

	sdnotify(log, daemon.SdNotifyReady)
	uiFront.Loop(ctx)

	sdnotify(log, daemon.SdNotifyStopping)
	if !g.StopWait(5 * time.Second) {
		log.Errorf("stop timeout")
	}
	log.Infof("stopped")
}

type screenMirror interface {
	Screen(l1, l2 string)
}

// mirrorScreen forwards every display flush to the host mirror. No stop
// condition on purpose: the ui goroutine still flushes during shutdown
// (the power-off screen), and a flush blocks once the update buffer has
// no receiver. The goroutine ends with the process.
func mirrorScreen(m screenMirror, updch <-chan lcd.State) {
	for s := range updch {
		m.Screen(string(s.L1), string(s.L2))
	}
}

func heartbeat(g *state.Global) {
	gg, err := g.Gauge()
	if err != nil {
		g.Error(err)
		return
	}
	tick := time.NewTicker(heartbeatInterval)
	defer tick.Stop()
	stopch := g.Alive.StopChan()
	for {
		select {
		case <-tick.C:
			var percent, volts float32
			if gg != nil {
				if percent, err = gg.Percent(); err != nil {
					g.Error(err)
					continue
				}
				if volts, err = gg.Voltage(); err != nil {
					g.Error(err)
					continue
				}
			}
			g.Tele.Heartbeat(percent, volts)
		case <-stopch:
			return
		}
	}
}

func sdnotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
