package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrig/fsuipcgen/device"
	"github.com/flightrig/fsuipcgen/fsuipc"
)

func TestParseLayout(t *testing.T) {
	l, err := device.ParseLayout([]byte(`
name: test/panel
description: two buttons
buttons:
  ON: 1
  OFF: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "test/panel", l.Name)
	assert.Equal(t, []string{"OFF", "ON"}, l.Names())

	device.Register(l)
	assert.Same(t, l, device.Lookup("TEST/PANEL"))
	assert.Nil(t, device.Lookup("test/missing"))
}

func TestParseLayoutErrors(t *testing.T) {
	tests := map[string]string{
		"no name":      "buttons:\n  A: 1\n",
		"out of range": "name: x\nbuttons:\n  A: 300\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := device.ParseLayout([]byte(in))
			assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
		})
	}

	_, err := device.ParseLayout([]byte("name: [\n"))
	assert.Error(t, err)
}
