package ingest

import (
	"github.com/dfaudit/sigtrack/pkg/exclusions"
	"github.com/dfaudit/sigtrack/pkg/sigmodel"
	"github.com/dfaudit/sigtrack/pkg/tokenrec"
)

// Sign records that one signature field was filled in, and completes the
// node's signature once every configured signature field has a value,
// matching esn_sign.
func Sign(n *sigmodel.Node, rec tokenrec.Record, field int, txnID uint64) {
	completed := 0
	for i := range n.Fields {
		if n.Fields[i].Field == field {
			n.Fields[i].Completed = true
			n.Fields[i].Desc = rec.Value(FieldFieldDesc)
			n.Fields[i].Value = rec.Value(FieldNewValue)
		}
		if n.Fields[i].Completed {
			completed++
		}
	}

	if completed != len(n.Fields) {
		return
	}

	n.Status.Signature = sigmodel.SigComplete
	n.TxnID = txnID
	n.Signer = rec.Value(FieldUser)
	n.Date = rec.Value(FieldDate)
	n.Time = rec.Value(FieldTime)
}

// Unsign clears one signature field and invalidates a completed
// signature, matching esn_unsign.
func Unsign(n *sigmodel.Node, field int) {
	for i := range n.Fields {
		if n.Fields[i].Field == field {
			n.Fields[i].Completed = false
			n.Fields[i].Value = ""
		}
	}

	if n.Status.Signature == sigmodel.SigComplete {
		n.Status.Signature = sigmodel.SigInvalidated
	}
	n.TxnID = 0
}

// FreeSignedValues clears field changes and resets recStatus to normal on
// every covered plate of the node once its signing transaction commits —
// not only the covered plates whose changes originated in the signing
// transaction — matching esn_free_signed_values.
func FreeSignedValues(n *sigmodel.Node, txnID uint64) {
	if n.TxnID != txnID {
		return
	}
	n.Plates.Ascend(func(cp *sigmodel.CoveredPlate) bool {
		cp.Changes.Clear()
		cp.Status.Rec = sigmodel.RecNormal
		cp.Status.Change = sigmodel.ChangeNone
		return true
	})
}

// DataChange records a data change made to a covered-plate field,
// matching esn_datachange.
func DataChange(n *sigmodel.Node, rec tokenrec.Record, plate, field int, txnID uint64, excl *exclusions.Registry) {
	cp := n.Plates.InsertOrGet(plate)

	recStatus := atoi(rec.Value(FieldStatus))
	recLevel := atoi(rec.Value(FieldLevel))
	cp.Status.Rec = sigmodel.RecNormal

	if recStatus == 0 || recStatus == 1 {
		cp.IsFinal = true
	} else {
		cp.IsFinal = false
	}

	switch {
	case recStatus == 3 && recLevel == 7: // pending + level 7
		if n.Status.Signature != sigmodel.SigNone {
			cp.Status.Change = sigmodel.ChangeDeclined
		}
		cp.Status.Rec = sigmodel.RecError
	case recStatus == 7: // error
		if n.Status.Signature != sigmodel.SigNone {
			cp.Status.Change = sigmodel.ChangeDeclined
		}
		cp.Status.Rec = sigmodel.RecDeleted
		cp.Changes.Clear()
	case recStatus == 0: // lost
		if n.Status.Signature != sigmodel.SigNone {
			cp.Status.Change = sigmodel.ChangeDeclined
		}
		cp.Status.Rec = sigmodel.RecLost
		cp.Changes.Clear()
	}

	// If this change belongs to our signing transaction, it counts
	// towards the changes covered by this signing.
	if txnID == n.TxnID {
		return
	}

	// We don't track changes to status/validation fields.
	if field < 7 {
		return
	}

	fc := &sigmodel.FieldChange{Field: field}
	existing, inserted := cp.Changes.InsertOrGet(fc)
	if inserted {
		existing.OldValue = decodeValue(rec, FieldOldValue, FieldOldDecode)
	}

	existing.Who = rec.Value(FieldUser)
	existing.Date = rec.Value(FieldDate)
	existing.Time = rec.Value(FieldTime)
	existing.Desc = rec.Value(FieldFieldDesc)
	existing.NewValue = decodeValue(rec, FieldNewValue, FieldNewDecode)

	if inserted && excl.IsExcluded(plate, field, rec.Value(FieldUser), rec.Value(FieldDate), rec.Value(FieldOldValue)) {
		existing.Comment = "Administratively exempted"
		existing.Status.Change = sigmodel.ChangeAccepted
	} else {
		existing.Comment = ""
		existing.Status.Change = sigmodel.ChangeDeclined
	}
}
