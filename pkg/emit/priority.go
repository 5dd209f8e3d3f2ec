package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dfaudit/sigtrack/pkg/sigconfig"
)

// WritePriorityFile writes one "<plate>|<field>|<priority>" line per field
// named by every registered configuration: priority 1 for each ignored
// field, and priority 3 for each signature field when the configuration's
// signature plate is the covered plate itself, matching esc_priority_file
// in esig.c.
func WritePriorityFile(w io.Writer, registry *sigconfig.Registry) error {
	bw := bufio.NewWriter(w)
	for _, cfg := range registry.All() {
		for _, iv := range cfg.IgnoreFields.Intervals() {
			for field := iv.Min; field <= iv.Max; field++ {
				if _, err := fmt.Fprintf(bw, "%d|%d|1\n", cfg.Plate, field); err != nil {
					return err
				}
			}
		}
		if cfg.SigPlate != cfg.Plate {
			continue
		}
		for _, iv := range cfg.SigFields.Intervals() {
			for field := iv.Min; field <= iv.Max; field++ {
				if _, err := fmt.Fprintf(bw, "%d|%d|3\n", cfg.Plate, field); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}
