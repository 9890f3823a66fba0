// Package honeycomb registers the Honeycomb Alpha yoke and Bravo throttle
// quadrant layouts.
package honeycomb

import (
	_ "embed"

	"github.com/flightrig/fsuipcgen/device"
)

var (
	//go:embed alpha.yaml
	alphaYAML []byte
	//go:embed bravo.yaml
	bravoYAML []byte
)

func init() {
	device.MustRegisterYAML(alphaYAML)
	device.MustRegisterYAML(bravoYAML)
}
