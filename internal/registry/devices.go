// Package registry imports every device layout package for its
// registration side effect.
package registry

import (
	_ "github.com/flightrig/fsuipcgen/device/honeycomb" // Register Honeycomb Alpha and Bravo layouts
)
