package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passpoint/kiosk/hardware/input"
	"github.com/passpoint/kiosk/log2"
)

type fakeReader struct {
	// mask per row, mutated by the test between scans
	masks [5]uint8
}

func (f *fakeReader) ScanRow(row int) (uint8, error) { return f.masks[row], nil }
func (f *fakeReader) Close() error                   { return nil }

func testConfig() Config {
	return Config{
		Rows:          []uint32{13, 12, 11, 10, 9},
		Cols:          []uint32{8, 14, 15, 16},
		DebounceScans: 2,
	}
}

func TestDebouncedPressRelease(t *testing.T) {
	t.Parallel()

	f := &fakeReader{}
	s := newScanner(testConfig(), log2.NewTest(t, log2.LDebug), f)

	// Enter key: row 3, col 3 -> identity 15
	f.masks[3] = 1 << 3
	require.NoError(t, s.scanOnce())
	_, ok := s.Poll()
	assert.False(t, ok, "one scan must not pass debounce")

	require.NoError(t, s.scanOnce())
	e, ok := s.Poll()
	require.True(t, ok)
	assert.Equal(t, input.Key(15), e.Key)
	assert.False(t, e.Up)

	// held key emits nothing further
	require.NoError(t, s.scanOnce())
	_, ok = s.Poll()
	assert.False(t, ok)

	f.masks[3] = 0
	require.NoError(t, s.scanOnce())
	require.NoError(t, s.scanOnce())
	e, ok = s.Poll()
	require.True(t, ok)
	assert.Equal(t, input.Key(15), e.Key)
	assert.True(t, e.Up)
}

func TestStopUnblocksRead(t *testing.T) {
	t.Parallel()

	f := &fakeReader{}
	s := newScanner(testConfig(), log2.NewTest(t, log2.LDebug), f)
	go s.Stop()

	// normal stop is reported with the sentinel, not a device failure
	_, err := s.Read()
	assert.Equal(t, input.ErrSourceClosed, err)
}

func TestGlitchFiltered(t *testing.T) {
	t.Parallel()

	f := &fakeReader{}
	s := newScanner(testConfig(), log2.NewTest(t, log2.LDebug), f)

	// single-scan bounce on key 0 (row 0, col 0)
	f.masks[0] = 1
	require.NoError(t, s.scanOnce())
	f.masks[0] = 0
	require.NoError(t, s.scanOnce())
	require.NoError(t, s.scanOnce())

	_, ok := s.Poll()
	assert.False(t, ok, "glitch shorter than debounce window must be dropped")
}

func TestAlternatingTransitions(t *testing.T) {
	t.Parallel()

	f := &fakeReader{}
	s := newScanner(testConfig(), log2.NewTest(t, log2.LDebug), f)

	var got []bool
	for i := 0; i < 3; i++ {
		f.masks[4] = 1 // key 16
		require.NoError(t, s.scanOnce())
		require.NoError(t, s.scanOnce())
		f.masks[4] = 0
		require.NoError(t, s.scanOnce())
		require.NoError(t, s.scanOnce())
	}
	for {
		e, ok := s.Poll()
		if !ok {
			break
		}
		require.Equal(t, input.Key(16), e.Key)
		got = append(got, e.Up)
	}
	require.Len(t, got, 6)
	for i, up := range got {
		assert.Equal(t, i%2 == 1, up, "press and release alternate")
	}
}
