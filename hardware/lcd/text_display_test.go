package lcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	t.Parallel()

	d, mock := NewMockTextDisplay(&TextDisplayConfig{Width: 16})
	d.WriteText(0, "Student ID:123", true)
	d.WriteText(1, "hello", true)
	assert.Equal(t, "Student ID:123  \nhello           ", mock.String())

	// clearLine=false keeps the tail of the previous content
	d.WriteText(1, "HE", false)
	assert.Equal(t, "HEllo           ", string(mock.l2))

	d.Clear()
	assert.Equal(t, "                \n                ", mock.String())
}

func TestMessageRestores(t *testing.T) {
	t.Parallel()

	d, mock := NewMockTextDisplay(&TextDisplayConfig{Width: 8})
	d.SetLines("idle", "screen")
	d.Message("allowed", "B3", func() {
		assert.Equal(t, "allowed \nB3      ", mock.String())
	})
	assert.Equal(t, "idle    \nscreen  ", mock.String())
}

func TestBacklight(t *testing.T) {
	t.Parallel()

	d, mock := NewMockTextDisplay(&TextDisplayConfig{Width: 16})
	d.SetBacklight(0, 255, 0)
	r, g, b := mock.Backlight()
	assert.Equal(t, [3]byte{0, 255, 0}, [3]byte{r, g, b})
}

func TestPadSpace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1234", string(PadSpace([]byte("123456"), 4)))
	assert.Equal(t, "12  ", string(PadSpace([]byte("12"), 4)))
	assert.Equal(t, "    ", string(PadSpace(nil, 4)))
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	_, err := NewTextDisplay(&TextDisplayConfig{Width: 0})
	require.Error(t, err)
	_, err = NewTextDisplay(nil)
	require.Error(t, err)
}
