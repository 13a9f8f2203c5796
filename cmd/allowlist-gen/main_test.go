package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passpoint/kiosk/head/allowlist"
	"github.com/passpoint/kiosk/log2"
)

func TestGeneratedTableLoads(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, generate(&buf, 50, rand.New(rand.NewSource(42))))

	path := filepath.Join(t.TempDir(), "Allowlist.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	table := allowlist.NewTable(log2.NewTest(t, log2.LDebug), path, "")
	n, err := table.Load()
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "STUDENT_PIN,A,B,log", lines[0])
	seen := make(map[string]bool, 50)
	for _, line := range lines[1:] {
		id := strings.SplitN(line, ",", 2)[0]
		require.Len(t, id, 5)
		assert.Equal(t, byte('1'), id[0], "first digit is fixed")
		assert.False(t, seen[id], "ids are unique")
		seen[id] = true

		// max block is 1..4, so block 4 always permits
		res := table.Check(id, 'A', 4)
		assert.Equal(t, allowlist.Allowed, res.Decision)
		res = table.Check(id, 'B', 4)
		assert.Equal(t, allowlist.Allowed, res.Decision)
	}
}

func TestGenerateCountBound(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := generate(&buf, 10001, rand.New(rand.NewSource(1)))
	assert.Error(t, err, "only 10000 distinct 5-digit ids share a first digit")
}
