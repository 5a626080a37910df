package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestKeyCommand(t *testing.T) {
	out := execute(t, newKeyCmd(), "--seed", "42")
	assert.Contains(t, out, "key[0] = 0xdc663db3035c950e")
	assert.Contains(t, out, "key[1] = 0x0000000000000000")
	assert.NotContains(t, out, "0x00dc")

	out = execute(t, newKeyCmd(), "--algorithm", "threefry", "--bitness", "32", "--key", "1,2,3")
	assert.Contains(t, out, "key[2] = 0x00000003")
}

func TestKeyCommandRejectsPhilox2x32(t *testing.T) {
	cmd := newKeyCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--bitness", "32", "--words", "2", "--seed", "1"})
	assert.Error(t, cmd.Execute())
}

func TestRootsCommand(t *testing.T) {
	out := execute(t, newRootsCmd(), "3")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "+0.00000000000000000e+00")
}

func TestRandomCommand(t *testing.T) {
	out := execute(t, newRandomCmd(&options{workers: 2}), "--seed", "5", "--shape", "64", "--batch", "32", "--dist", "normal_bm")
	assert.Contains(t, out, "samples  2048")
	assert.Contains(t, out, "median")
}

func TestRandomCommandIntegers(t *testing.T) {
	out := execute(t, newRandomCmd(&options{}), "--seed", "5", "--dist", "uniform_integer", "--dtype", "int32", "--a", "-4", "--b", "4")
	assert.Contains(t, out, "min      -4")
	assert.Contains(t, out, "max      4")
}

func TestDHTCommand(t *testing.T) {
	out := execute(t, newDHTCmd(&options{}), "--modes", "4,5")
	assert.Contains(t, out, "plan dht_forward_order1")
	assert.Contains(t, out, "matrixmul")
	assert.Contains(t, out, "transpose")
}

func TestGridAndDeviceCommands(t *testing.T) {
	out := execute(t, newGridCmd(), "--modes", "5", "--order", "2")
	assert.Contains(t, out, "7 points for 5 modes at order 2")
	out = execute(t, newDeviceCmd())
	assert.Contains(t, out, "workers")
}
