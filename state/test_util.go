package state

import (
	"context"
	"testing"

	"github.com/passpoint/kiosk/hardware/lcd"
	"github.com/passpoint/kiosk/log2"
)

func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)

	d, mock := lcd.NewMockTextDisplay(&lcd.TextDisplayConfig{Width: 16})
	g.SetTextDisplay(d)
	g.XXX_MockDevicer = mock

	g.MustInit(ctx, MustReadConfig(log, fs, "test-inline"))

	return ctx, g
}
