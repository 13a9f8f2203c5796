package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/passpoint/kiosk/hardware/gauge"
	"github.com/passpoint/kiosk/hardware/i2c"
	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/hardware/keypad"
	"github.com/passpoint/kiosk/hardware/lcd"
	"github.com/passpoint/kiosk/head/allowlist"
	"github.com/passpoint/kiosk/helpers"
	"github.com/passpoint/kiosk/log2"
	"github.com/passpoint/kiosk/tele"
)

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Allowlist    *allowlist.Table
	Log          *log2.Log
	Tele         *tele.Tele

	Hardware struct {
		Input  *input.Dispatch
		Keypad *keypad.Scanner

		bus struct {
			once sync.Once
			err  error
			b    i2c.I2CBus
		}
		display struct {
			once sync.Once
			err  error
			dev  *lcd.LCD
			d    *lcd.TextDisplay
		}
		gauge struct {
			once sync.Once
			err  error
			g    *gauge.Gauge
		}
	}

	// set only by NewTestContext, not used in production code
	XXX_MockDevicer *lcd.MockDevicer

	initInputOnce sync.Once
}

const ContextKey = "run/state-global"

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	ctx := context.WithValue(context.Background(), ContextKey, g)
	return ctx, g
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	errs := make([]error, 0)

	// Tele goes first so later failures are mirrored to the host.
	tl, err := tele.NewTele(g.Log, g.Config.Tele)
	if err != nil {
		errs = append(errs, errors.Annotate(err, "tele init"))
	}
	g.Tele = tl

	g.Allowlist = allowlist.NewTable(g.Log, g.Config.Allowlist.Path, g.Config.Allowlist.IDColumn)
	if g.Config.Allowlist.Path != "" {
		// Missing table at boot is not fatal: checks surface a data error
		// until a proctor uploads a working file.
		if _, err := g.Allowlist.Load(); err != nil {
			g.Error(err)
		}
	}

	g.initInput()

	return helpers.FoldErrors(errs)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
	}
}

func (g *Global) Stop() {
	g.Alive.Stop()
	if g.Hardware.Keypad != nil {
		g.Hardware.Keypad.Stop()
	}
	g.Tele.Close()
}

func (g *Global) StopWait(timeout time.Duration) bool {
	g.Stop()
	select {
	case <-g.Alive.WaitChan():
		return true
	case <-time.After(timeout):
		return false
	}
}

func (g *Global) Bus() (i2c.I2CBus, error) {
	x := &g.Hardware.bus
	x.once.Do(func() {
		b := i2c.NewI2CBus(byte(g.Config.Hardware.I2CBus))
		if err := b.Init(); err != nil {
			x.err = errors.Annotatef(err, "i2c bus=%d", g.Config.Hardware.I2CBus)
			return
		}
		x.b = b
	})
	return x.b, x.err
}

func (g *Global) MustTextDisplay() *lcd.TextDisplay {
	d, err := g.TextDisplay()
	if err != nil {
		g.Log.Fatal(err)
	}
	if d == nil {
		g.Log.Fatal("text display is not available")
	}
	return d
}

func (g *Global) TextDisplay() (*lcd.TextDisplay, error) {
	x := &g.Hardware.display
	x.once.Do(func() {
		if x.d != nil { // preset by tests
			return
		}

		devConfig := &g.Config.Hardware.LCD
		if !devConfig.Enable {
			g.Log.Infof("lcd display is disabled")
			return
		}

		bus, err := g.Bus()
		if err != nil {
			x.err = errors.Annotate(err, "lcd")
			return
		}
		width := devConfig.Width
		if width == 0 {
			width = 16
		}
		devWrap, err := lcd.NewLCD(bus, g.Log, uint8(width), 2)
		if err != nil {
			x.err = errors.Annotatef(err, "lcd.NewLCD config=%#v", devConfig)
			return
		}
		x.dev = devWrap

		displayConfig := &lcd.TextDisplayConfig{
			Width:    uint32(width),
			Codepage: devConfig.Codepage,
		}
		d, err := lcd.NewTextDisplay(displayConfig)
		if err != nil {
			x.err = errors.Annotatef(err, "lcd.NewTextDisplay config=%#v", displayConfig)
			return
		}
		d.SetDevice(devWrap)
		x.d = d
	})
	return x.d, x.err
}

// SetTextDisplay presets the display, tests only.
func (g *Global) SetTextDisplay(d *lcd.TextDisplay) {
	g.Hardware.display.d = d
}

func (g *Global) Gauge() (*gauge.Gauge, error) {
	x := &g.Hardware.gauge
	x.once.Do(func() {
		if !g.Config.Hardware.Gauge.Enable {
			g.Log.Infof("battery gauge is disabled")
			return
		}
		bus, err := g.Bus()
		if err != nil {
			x.err = errors.Annotate(err, "gauge")
			return
		}
		x.g = gauge.NewGauge(bus)
	})
	return x.g, x.err
}

func (g *Global) initInput() {
	g.initInputOnce.Do(func() {
		g.Hardware.Input = input.NewDispatch(g.Log, g.Alive.StopChan())

		// support more input sources here
		sources := make([]input.Source, 0, 2)

		if src, err := g.initKeypad(); err != nil {
			g.Log.Error(errors.ErrorStack(err))
		} else if src != nil {
			sources = append(sources, src)
		}

		if !g.Config.Hardware.Input.DevInputEvent.Enable {
			g.Log.Infof("input=%s disabled", input.DevInputEventTag)
		} else {
			src, err := input.NewDevInputEventSource(g.Config.Hardware.Input.DevInputEvent.Device)
			if err != nil {
				g.Log.Error(errors.ErrorStack(errors.Annotatef(err, "input=%s", input.DevInputEventTag)))
			} else if src != nil {
				sources = append(sources, src)
			}
		}

		go g.Hardware.Input.Run(sources)
	})
}

func (g *Global) initKeypad() (input.Source, error) {
	kpConfig := &g.Config.Hardware.Keypad
	if !kpConfig.Enable {
		g.Log.Infof("input=%s disabled", keypad.SourceTag)
		return nil, nil
	}

	rows, err := helpers.ParseUint32List(kpConfig.Rows)
	if err != nil {
		return nil, errors.Annotatef(err, "config: keypad.rows=%s", kpConfig.Rows)
	}
	cols, err := helpers.ParseUint32List(kpConfig.Cols)
	if err != nil {
		return nil, errors.Annotatef(err, "config: keypad.cols=%s", kpConfig.Cols)
	}
	scanner, err := keypad.NewScanner(keypad.Config{
		PinChip:       kpConfig.PinChip,
		Rows:          rows,
		Cols:          cols,
		ScanInterval:  helpers.IntMillisecondDefault(kpConfig.ScanIntervalMs, 0),
		DebounceScans: uint8(kpConfig.DebounceScans),
	}, g.Log)
	if err != nil {
		return nil, errors.Annotatef(err, "input=%s config=%#v", keypad.SourceTag, kpConfig)
	}
	g.Hardware.Keypad = scanner
	go scanner.Run()
	return scanner, nil
}
