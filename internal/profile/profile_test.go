package profile_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrig/fsuipcgen/fsuipc"
	"github.com/flightrig/fsuipcgen/ini"
	"github.com/flightrig/fsuipcgen/internal/profile"
	_ "github.com/flightrig/fsuipcgen/internal/registry"
)

const simControls = `65725  AP_PANEL_HEADING_HOLD
65879  HEADING_BUG_INC
65880  HEADING_BUG_DEC
`

// Line numbers matter: they show up in the trace comments.
const bravoProfile = `controls:
  - name: Sim
    file: %q
  - name: Fsuipc
    codes:
      BUTTON_FLAG_TOGGLE: 1003
devices:
  - name: Bravo
    joy: B
    layout: honeycomb/bravo
  - name: Virt
    joy: "64"
    buttons:
      SHIFT: 0
offsets:
  - name: Mode
    offset: 0x66C0
    size: Byte
    values:
      HDG: 0
      CRS: 1
      ALT: 2
conditions:
  shifted:
    - Virt.SHIFT
    - Mode.ALT
groups:
  - name: enc
    slow_dec: Bravo.ROTENC_DECR
    slow_inc: Bravo.ROTENC_INCR
    fast_dec: Bravo.ROTENC_DECR
    fast_inc: Bravo.ROTENC_INCR
sections:
  - name: Buttons.Bravo
    preamble:
      PollInterval: 25
    map:
      - button: Bravo.HDG
        control: Sim.AP_PANEL_HEADING_HOLD
      - button: Bravo.AP
        control: Fsuipc.BUTTON_FLAG_TOGGLE
        param: flag:Virt.SHIFT
        action: press_and_release
      - group: enc
        dec: Sim.HEADING_BUG_DEC
        inc: Sim.HEADING_BUG_INC
        when: "@shifted"
        fast_events: 2
`

func writeControls(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "controls.txt")
	require.NoError(t, os.WriteFile(path, []byte(simControls), 0o644))
	return path
}

func parse(t *testing.T, src string) *profile.Profile {
	t.Helper()
	p, err := profile.Parse([]byte(src), "profile.yaml")
	require.NoError(t, err)
	return p
}

func TestCompile(t *testing.T) {
	p := parse(t, fmt.Sprintf(bravoProfile, writeControls(t)))

	var buf bytes.Buffer
	var seen []ini.Record
	res, err := profile.Compile(p, &buf, profile.Options{Observer: func(r ini.Record) { seen = append(seen, r) }}, nil)
	require.NoError(t, err)

	want := strings.Join([]string{
		"",
		"[Buttons.Bravo]",
		"PollInterval=25 ;a36",
		"1=PB,0,C65725,0 ;a38",
		"2=PB,7,C1003,16384 ;a40",
		"3=UB,7,C1003,16384 ;a40",
		"4=B66C0=2 CP(+64,0)B,13,C65880,0 ;a28;a44",
		"5=B66C0=2 CP(+64,0)B,12,C65879,0 ;a28;a44",
		"6=B66C0=2 CP(+64,0)B,13,C65880,0 ;a28;a44",
		"7=B66C0=2 CP(+64,0)B,13,C65880,0 ;a28;a44",
		"8=B66C0=2 CP(+64,0)B,12,C65879,0 ;a28;a44",
		"9=B66C0=2 CP(+64,0)B,12,C65879,0 ;a28;a44",
		"10=;a>profile.yaml",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
	assert.Equal(t, []string{"Buttons.Bravo"}, res.Sections)
	assert.Equal(t, 10, res.Entries)
	assert.Len(t, seen, 10)
}

func TestCompileCRLF(t *testing.T) {
	p := parse(t, `
sections:
  - name: Keys
    map:
      - button: 0,1
        control: "66587"
`)
	var buf bytes.Buffer
	_, err := profile.Compile(p, &buf, profile.Options{CRLF: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "\r\n[Keys]\r\n1=P0,1,C66587,0 ;a5\r\n2=;a>profile.yaml\r\n", buf.String())
}

func TestCompileErrorWritesNothing(t *testing.T) {
	p := parse(t, `
controls:
  - name: Sim
    codes:
      AP_MASTER: 65580
sections:
  - name: Buttons
    map:
      - button: 0,1
        control: Sim.AP_MASTER
      - button: 0,2
        control: Sim.AP_MISTER
`)
	var buf bytes.Buffer
	_, err := profile.Compile(p, &buf, profile.Options{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
	assert.Contains(t, err.Error(), "profile.yaml:11")
	assert.Empty(t, buf.String())
}

func TestEntryNeedsButtonOrGroup(t *testing.T) {
	p := parse(t, `
sections:
  - name: Buttons
    map:
      - control: "1"
`)
	_, err := profile.Compile(p, &bytes.Buffer{}, profile.Options{}, nil)
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestNewEnvCollectsErrors(t *testing.T) {
	p := parse(t, `
controls:
  - name: Missing
    files: [nope.txt, also-nope.txt]
devices:
  - name: Alpha
    joy: A
    layout: honeycomb/gamma
conditions:
  a: "@b"
  b: "@a"
`)
	_, err := profile.NewEnv(p, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "honeycomb/gamma")
	assert.Contains(t, err.Error(), "includes itself")
}

func TestControlTableFirstExistingFile(t *testing.T) {
	path := writeControls(t)
	p := parse(t, fmt.Sprintf(`
controls:
  - name: Sim
    files: [%q, %q]
`, filepath.Join(filepath.Dir(path), "missing.txt"), path))
	env, err := profile.NewEnv(p, nil)
	require.NoError(t, err)

	c, err := env.Control(&profile.ControlSpec{Ref: "Sim.HEADING_BUG_INC"}, "")
	require.NoError(t, err)
	assert.Equal(t, "C65879", c.CtrlCode())
}

const envProfile = `
devices:
  - name: Virt
    joy: "64"
    buttons:
      SHIFT: 0
  - name: Alpha
    joy: A
    buttons:
      MAG_BOTH: 133
keys:
  GEAR:
    key: G
    mods: [ctrl]
offsets:
  - name: Mode
    offset: 0x66C0
    size: Byte
    values:
      HDG: 0
      CRS: 1
      ALT: 2
  - name: Trim
    offset: "0x0BC0"
    size: Int16
    min: -16383
    max: 16383
`

func newEnv(t *testing.T) *profile.Env {
	t.Helper()
	env, err := profile.NewEnv(parse(t, envProfile), nil)
	require.NoError(t, err)
	return env
}

func TestEnvControls(t *testing.T) {
	env := newEnv(t)
	tests := []struct {
		spec  profile.ControlSpec
		param string
		code  string
		value string
	}{
		{profile.ControlSpec{Ref: "key:GEAR"}, "", "K71", "10"},
		{profile.ControlSpec{Ref: "key:SHIFT+F1"}, "", "K112", "9"},
		{profile.ControlSpec{Ref: "virt:press:Virt.SHIFT"}, "", "Cx07003340", "x00000001"},
		{profile.ControlSpec{Ref: "virt:toggle:64,3"}, "", "Cx0F003340", "x00000008"},
		{profile.ControlSpec{Offset: "Mode", Op: "IncrementCyclic", Operand: "1"}, "", "Cx510066C0", "x00020001"},
		{profile.ControlSpec{Offset: "Mode", Op: "Set", Operand: "ALT"}, "", "Cx010066C0", "x00000002"},
		{profile.ControlSpec{Offset: "Trim", Op: "DecrementSigned", Operand: "128"}, "", "Cx42000BC0", "xC0010080"},
		{profile.ControlSpec{Ref: "66587"}, "key:GEAR", "C66587", "2631"},
		{profile.ControlSpec{Ref: "66587"}, "0x10", "C66587", "16"},
	}
	for _, tt := range tests {
		t.Run(tt.spec.String(), func(t *testing.T) {
			spec := tt.spec
			c, err := env.Control(&spec, tt.param)
			require.NoError(t, err)
			assert.Equal(t, tt.code, c.CtrlCode())
			pc, ok := c.(fsuipc.ParamControl)
			require.True(t, ok)
			assert.Equal(t, tt.value, pc.CtrlParam())
		})
	}

	_, err := env.Control(&profile.ControlSpec{Ref: "virt:press:Alpha.MAG_BOTH"}, "")
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
	_, err = env.Control(&profile.ControlSpec{Ref: "Sim.X"}, "")
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
	_, err = env.Control(nil, "")
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
	_, err = env.Control(&profile.ControlSpec{Ref: "1"}, "flag:Alpha.MAG_BOTH")
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestEnvConditions(t *testing.T) {
	var logs bytes.Buffer
	p := parse(t, envProfile)
	env, err := profile.NewEnv(p, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	conds, err := env.Conditions(profile.CondList{
		{Ref: "Alpha.MAG_BOTH"},
		{Ref: "!Alpha.MAG_BOTH"},
		{Ref: "flag:Virt.SHIFT"},
		{Ref: "!flag:Virt.SHIFT"},
		{Ref: "Mode.CRS"},
		{Ref: "!Mode.HDG"},
		{Ref: "raw:(-C,4)"},
		{Offset: "Mode", Test: "!=", Value: "ALT"},
		{Offset: "0x3340", Size: "DWord", Test: ">", Value: "0", Mask: "0xF0"},
	})
	require.NoError(t, err)

	assert.Equal(t, "B66C0=1 B66C0!0 B66C0!2 D3340&xF0>0 CP(+A,133)(-A,133)(F+64,0)(F-64,0)(-C,4)",
		fsuipc.Prefix("P", conds))
	assert.Contains(t, logs.String(), "Raw condition passed through unchecked")

	for _, bad := range []profile.CondSpec{
		{Ref: "Nope.X"},
		{Ref: "Mode.TAXI"},
		{Ref: "@missing"},
		{Offset: "0x3340", Test: "=", Value: "1"},
		{Offset: "Mode", Test: "~", Value: "1"},
	} {
		_, err := env.Conditions(profile.CondList{bad})
		assert.Error(t, err, bad.String())
	}
}

func TestExampleProfile(t *testing.T) {
	p, err := profile.Load("../../examples/honeycomb/profile.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := profile.Compile(p, &buf, profile.Options{CRLF: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buttons.Honeycomb"}, res.Sections)
	// Eight single entries, NAV pressed and released, encoder groups of
	// 1+1+4+4 and 1+1+5+5, one file code.
	assert.Equal(t, 8+2+10+12+1, res.Entries)
	assert.Contains(t, buf.String(), "=PA,3,Cx0F003340,x00000001 ;")
}

func TestLoadMissing(t *testing.T) {
	_, err := profile.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := profile.Parse([]byte("sections: []\nbuttons: []\n"), "p.yaml")
	assert.Error(t, err)
	_, err = profile.Parse(nil, "p.yaml")
	assert.Error(t, err)
}
