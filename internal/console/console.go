//go:build !windows

// Package console detects how the program was started.
package console

// LaunchedFromExplorer reports whether the program was started by
// double-clicking it rather than from a shell. Only Windows has such a
// launch.
func LaunchedFromExplorer() bool {
	return false
}
