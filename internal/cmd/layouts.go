package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/flightrig/fsuipcgen/device"
	"github.com/flightrig/fsuipcgen/fsuipc"
)

// Layouts lists the registered device layouts, or the buttons of one.
type Layouts struct {
	Name string `arg:"" optional:"" help:"Layout to show the buttons of"`
}

// Run is called by Kong when the layouts command is executed.
func (l *Layouts) Run() error {
	return l.write(os.Stdout)
}

func (l *Layouts) write(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if l.Name == "" {
		for _, n := range device.Names() {
			fmt.Fprintf(w, "%s\t%s\n", n, device.Lookup(n).Description)
		}
		return w.Flush()
	}

	lay := device.Lookup(l.Name)
	if lay == nil {
		return fmt.Errorf("%w: layout %s", fsuipc.ErrNotFound, l.Name)
	}
	names := lay.Names()
	sort.SliceStable(names, func(i, j int) bool { return lay.Buttons[names[i]] < lay.Buttons[names[j]] })
	for _, n := range names {
		fmt.Fprintf(w, "%d\t%s\n", lay.Buttons[n], n)
	}
	return w.Flush()
}
