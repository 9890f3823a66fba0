package fsuipc_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrig/fsuipcgen/fsuipc"
)

const controlList = `Controls list for MSFS 2020
  (sorted by number)

65536  AXIS_ELEVATOR_SET
65725  AP_PANEL_HEADING_HOLD
123    TOO_SHORT
65879  HEADING_BUG_INC   extra words
66000  DUPLICATE
66001  DUPLICATE
`

func TestParseControlTable(t *testing.T) {
	tab, err := fsuipc.ParseControlTable("Sim", strings.NewReader(controlList), fsuipc.TableOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, tab.Len())
	assert.Equal(t, []string{"AP_PANEL_HEADING_HOLD", "AXIS_ELEVATOR_SET", "DUPLICATE", "HEADING_BUG_INC"}, tab.Names())

	c, err := tab.Lookup("HEADING_BUG_INC")
	require.NoError(t, err)
	assert.Equal(t, "C65879", c.CtrlCode())
	assert.Equal(t, 65879, fsuipc.Val(c))

	dup, err := tab.Lookup("DUPLICATE")
	require.NoError(t, err)
	assert.Equal(t, 66001, dup.Code)

	_, err = tab.Lookup("TOO_SHORT")
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
}

func TestParseControlTableStripPrefix(t *testing.T) {
	in := "Ctrl#\tEvent\tGroup\n" +
		"32768\tMobiFlight.AS1000_PFD_ENT_Push\tAS1000\n" +
		"32769\tMobiFlight.AS1000_PFD_CLR\tAS1000\n"
	tab, err := fsuipc.ParseControlTable("MF", strings.NewReader(in), fsuipc.TableOptions{
		NameFilter: fsuipc.StripPrefix("MobiFlight.", true),
	})
	require.NoError(t, err)

	c, err := tab.Lookup("AS1000_PFD_ENT_Push")
	require.NoError(t, err)
	assert.Equal(t, 32768, c.Code)
	assert.Equal(t, "MobiFlight.AS1000_PFD_ENT_Push", c.FullName)
}

func TestParseControlTablePrefix(t *testing.T) {
	tab, err := fsuipc.ParseControlTable("Keys", strings.NewReader("1070 LUA_SET\n"), fsuipc.TableOptions{Prefix: "L"})
	require.NoError(t, err)
	c, err := tab.Lookup("LUA_SET")
	require.NoError(t, err)
	assert.Equal(t, "L1070", c.CtrlCode())
}

func TestParseControlTableBadPattern(t *testing.T) {
	_, err := fsuipc.ParseControlTable("X", strings.NewReader(""), fsuipc.TableOptions{NamePattern: "("})
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestLoadControlTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controls.txt")
	require.NoError(t, os.WriteFile(path, []byte(controlList), 0o644))

	tab, err := fsuipc.LoadControlTable("Sim", path, fsuipc.TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, tab.Len())

	_, err = fsuipc.LoadControlTable("Sim", filepath.Join(dir, "missing.txt"), fsuipc.TableOptions{})
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewControlTable(t *testing.T) {
	tab := fsuipc.NewControlTable("Fsuipc", "", map[string]int{"BUTTON_FLAG_TOGGLE": 1003})
	c, err := tab.Lookup("BUTTON_FLAG_TOGGLE")
	require.NoError(t, err)
	assert.Equal(t, "C1003", c.CtrlCode())
}

func TestStripPrefix(t *testing.T) {
	f := fsuipc.StripPrefix("MobiFlight.", true)
	assert.Equal(t, "AS1000_PFD_ENT", f("mobiflight.AS1000_PFD_ENT (push)"))
	assert.Equal(t, "OTHER", f("OTHER"))

	keep := fsuipc.StripPrefix("", false)
	assert.Equal(t, "A B", keep("A B"))
}
