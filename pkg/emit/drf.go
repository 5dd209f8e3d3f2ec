// Package emit writes the output artifacts produced from an evaluated
// signature-node tree: the re-signing worklist, the priority file, the
// decorated workbook, and the relational audit mirror.
package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dfaudit/sigtrack/pkg/sigmodel"
)

// WriteDRF writes one "<patient>|<visit>|<sig_plate>" line per signature
// node that needs a fresh signature collected: its signature was removed,
// or it remains signed but carries a declined change against the normal
// (non-error/lost/deleted) record, matching write_drf in main.c.
func WriteDRF(w io.Writer, tree *sigmodel.Tree) error {
	bw := bufio.NewWriter(w)
	var writeErr error
	tree.Ascend(func(n *sigmodel.Node) bool {
		if !needsResigning(n) {
			return true
		}
		_, writeErr = fmt.Fprintf(bw, "%d|%d|%d\n", n.Patient, n.Visit, n.Config.SigPlate)
		return writeErr == nil
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}

func needsResigning(n *sigmodel.Node) bool {
	if n.Status.Signature == sigmodel.SigInvalidated {
		return true
	}
	return n.Status.Signature == sigmodel.SigComplete &&
		n.Status.Rec == sigmodel.RecNormal &&
		n.Status.Change == sigmodel.ChangeDeclined
}
