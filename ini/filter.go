package ini

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var sectionHeader = regexp.MustCompile(`^\[([^.\]]+).*?\]`)

// BaseName returns the part of a section name before the first '.', so
// "Buttons.Twin" and "Buttons" share the base "Buttons".
func BaseName(section string) string {
	base, _, _ := strings.Cut(section, ".")
	return base
}

// FilterSections copies r to w line by line, leaving out every section
// whose base name is one of names. Lines before the first header are kept.
func FilterSections(r io.Reader, w *Writer, names ...string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[BaseName(n)] = true
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	keep := true
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			keep = !drop[m[1]]
		}
		if keep {
			w.Line(line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("filter ini: %w", err)
	}
	return w.Err()
}

// KeyValue is one "key=value" line.
type KeyValue struct {
	Key   string
	Value string
}

// ReadSection returns the key/value lines of section name, in file order.
// The name is matched case-insensitively; comment lines starting with ';'
// or '#' are skipped. A missing section yields no pairs and no error.
func ReadSection(r io.Reader, name string) ([]KeyValue, error) {
	var out []KeyValue
	in := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			in = strings.EqualFold(line[1:len(line)-1], name)
			continue
		}
		if !in {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out = append(out, KeyValue{Key: strings.TrimSpace(k), Value: strings.TrimSpace(v)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ini section %s: %w", name, err)
	}
	return out, nil
}
