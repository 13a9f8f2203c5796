package helpers

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	err := FoldErrors([]error{errors.New("one"), nil, errors.New("two")})
	require.Error(t, err)
	assert.Equal(t, "one\ntwo", err.Error())
}

func TestIntSecondDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3*time.Second, IntSecondDefault(0, 3*time.Second))
	assert.Equal(t, 7*time.Second, IntSecondDefault(7, 3*time.Second))
}

func TestParseUint32List(t *testing.T) {
	t.Parallel()

	xs, err := ParseUint32List("13, 12,11")
	require.NoError(t, err)
	assert.Equal(t, []uint32{13, 12, 11}, xs)

	_, err = ParseUint32List("")
	assert.Error(t, err)
	_, err = ParseUint32List("13,oops")
	assert.Error(t, err)
}
