package device

import (
	"sort"
	"strings"
	"sync"
)

var (
	layoutRegistry   = make(map[string]*Layout)
	layoutRegistryMu sync.RWMutex
)

// Register adds a layout under its name.
// This should be called from layout package init() functions.
// The name is case-insensitive and will be lowercased.
func Register(l *Layout) {
	layoutRegistryMu.Lock()
	defer layoutRegistryMu.Unlock()
	layoutRegistry[strings.ToLower(l.Name)] = l
}

// MustRegisterYAML parses and registers an embedded layout, panicking on
// malformed data.
func MustRegisterYAML(data []byte) {
	l, err := ParseLayout(data)
	if err != nil {
		panic(err)
	}
	Register(l)
}

// Lookup returns the named layout, or nil if none is registered.
// Name lookup is case-insensitive.
func Lookup(name string) *Layout {
	layoutRegistryMu.RLock()
	defer layoutRegistryMu.RUnlock()
	return layoutRegistry[strings.ToLower(name)]
}

// Names returns the registered layout names, sorted.
func Names() []string {
	layoutRegistryMu.RLock()
	defer layoutRegistryMu.RUnlock()
	names := make([]string, 0, len(layoutRegistry))
	for name := range layoutRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
