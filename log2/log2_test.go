package log2

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFilter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	l := NewWriter(buf, LInfo)
	l.SetFlags(0)
	l.Debugf("hidden %d", 1)
	l.Infof("visible %d", 2)
	l.Errorf("also visible")

	s := buf.String()
	assert.NotContains(t, s, "hidden")
	assert.Contains(t, s, "visible 2")
	assert.Contains(t, s, "error: also visible")
}

func TestNilSafe(t *testing.T) {
	t.Parallel()

	var l *Log
	assert.False(t, l.Enabled(LError))
	l.SetLevel(LDebug)
	l.SetFlags(0)
	l.Errorf("no panic")
}

func TestSetLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	l := NewWriter(buf, LError)
	l.SetFlags(0)
	l.Infof("one")
	l.SetLevel(LDebug)
	l.Infof("two")
	lines := strings.TrimSpace(buf.String())
	assert.Equal(t, "two", lines)
}
