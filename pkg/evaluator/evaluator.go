// Package evaluator implements the post-ingestion status propagation
// pass: bubbling each field change's status up to its covered plate, and
// each plate's status up to its signature node, matching evaluate_tree in
// the original toolkit.
package evaluator

import "github.com/dfaudit/sigtrack/pkg/sigmodel"

// Evaluate walks every signature node in tree and recomputes its status
// triple (and those of its covered plates and field changes) from the
// ingested data. allowSignerChanges exempts a change from requiring
// re-signing when it was made by the same person who holds the
// signature; resignAtFinal defers a declined change to
// ChangeDeclinedAtFinal until the record reaches its final state.
func Evaluate(tree *sigmodel.Tree, allowSignerChanges, resignAtFinal bool) {
	tree.Ascend(func(n *sigmodel.Node) bool {
		n.Status.Change = sigmodel.ChangeNone

		n.Plates.Ascend(func(cp *sigmodel.CoveredPlate) bool {
			cp.Status.Signature = n.Status.Signature
			cp.FieldChangeCount = 0

			cp.Changes.Ascend(func(fc *sigmodel.FieldChange) bool {
				cp.FieldChangeCount++

				if resignAtFinal && !cp.IsFinal && fc.Status.Change == sigmodel.ChangeDeclined {
					fc.Status.Change = sigmodel.ChangeDeclinedAtFinal
				}

				fc.Status.Rec = cp.Status.Rec
				fc.Status.Signature = cp.Status.Signature

				if allowSignerChanges && fc.Who != "" && n.Signer != "" && fc.Who == n.Signer {
					fc.Comment = "Changed by Signer"
					fc.Status.Change = sigmodel.ChangeAccepted
				}

				if fc.Status.Change > cp.Status.Change {
					cp.Status.Change = fc.Status.Change
				}
				return true
			})

			if n.Config.SigPlate == cp.Plate {
				n.Status.Rec = cp.Status.Rec
			}

			if cp.Status.Change > n.Status.Change {
				n.Status.Change = cp.Status.Change
			}
			return true
		})
		return true
	})
}
