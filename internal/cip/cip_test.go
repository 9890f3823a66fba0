package cip

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrig/fsuipcgen/fsuipc"
	"github.com/flightrig/fsuipcgen/ini"
)

const sample = `STANDARD:GROUP
AP_MASTER
TOGGLE_GPS_DRIVES_NAV1
AS1000:GROUP
AS1000_PFD_ENT_Push
AS1000_PFD_CLR

AS1000_MFD_ENT_Push
Carenado M20R:GROUP
MOONEY_AP_HDG
`

func TestParseCIP(t *testing.T) {
	groups, err := ParseCIP(strings.NewReader("STRAY\n" + sample))
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "STANDARD", groups[0].Name)
	assert.Equal(t, []string{"AS1000_PFD_ENT_Push", "AS1000_PFD_CLR", "AS1000_MFD_ENT_Push"}, groups[1].Events)
	assert.Equal(t, "Carenado M20R", groups[2].Name)

	idx := GroupIndex(groups)
	assert.Equal(t, "AS1000", idx["MobiFlight.AS1000_PFD_CLR"])
	assert.Equal(t, "STANDARD", idx["MobiFlight.AP_MASTER"])
}

func TestPaginate(t *testing.T) {
	big := Group{Name: "BIG"}
	for i := 0; i < 600; i++ {
		big.Events = append(big.Events, fmt.Sprintf("EV_%d", i))
	}
	files := Paginate([]Group{{Name: SkipGroup, Events: []string{"X"}}, big})
	require.Len(t, files, 3)
	assert.Equal(t, "000_MB", files[0].Name)
	assert.Equal(t, "002_MB", files[2].Name)
	assert.Len(t, files[0].Events, 256)
	assert.Len(t, files[1].Events, 256)
	assert.Len(t, files[2].Events, 88)
	assert.Equal(t, "EV_256", files[1].Events[0])
}

func TestWriteEventFiles(t *testing.T) {
	groups, err := ParseCIP(strings.NewReader(sample))
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := WriteEventFiles(dir, groups, true)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "000_MB.evt")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "[Events]\r\n"+
		"0=MobiFlight.AS1000_PFD_ENT_Push\r\n"+
		"1=MobiFlight.AS1000_PFD_CLR\r\n"+
		"2=MobiFlight.AS1000_MFD_ENT_Push\r\n"+
		"3=MobiFlight.MOONEY_AP_HDG\r\n", string(data))

	evts, err := ReadEventFile(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Event{Num: 3, Name: "MobiFlight.MOONEY_AP_HDG"}, evts[3])
}

func TestEventFileNames(t *testing.T) {
	in := "[General]\nUpdatedByVersion=7.3\n\n[EventFiles]\n1=000_MB\n2=001_MB\n\n[Buttons]\n1=P0,1,C1,0\n"
	names, err := EventFileNames(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"000_MB", "001_MB"}, names)
}

func TestControlInfo(t *testing.T) {
	groups, err := ParseCIP(strings.NewReader(sample))
	require.NoError(t, err)

	files := [][]Event{
		{{Num: 0, Name: "MobiFlight.AS1000_PFD_ENT_Push"}, {Num: 1, Name: "MobiFlight.AS1000_PFD_CLR"}},
		{{Num: 5, Name: "Other.UNKNOWN"}},
	}
	var buf bytes.Buffer
	require.NoError(t, ControlInfo(ini.NewWriter(&buf, false), files, GroupIndex(groups)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Ctrl#\tEvent "))
	assert.True(t, strings.HasSuffix(lines[0], "\tGroup"))
	assert.True(t, strings.HasPrefix(lines[2], "32768\tMobiFlight.AS1000_PFD_ENT_Push "))
	assert.True(t, strings.HasSuffix(lines[2], "\tAS1000"))
	assert.True(t, strings.HasPrefix(lines[4], "33029\tOther.UNKNOWN"))
	assert.True(t, strings.HasSuffix(lines[4], "\t-"))

	tab, err := fsuipc.ParseControlTable("MF", strings.NewReader(buf.String()), fsuipc.TableOptions{
		NameFilter: fsuipc.StripPrefix(Module+".", true),
	})
	require.NoError(t, err)
	c, err := tab.Lookup("AS1000_PFD_CLR")
	require.NoError(t, err)
	assert.Equal(t, "C32769", c.CtrlCode())
}
