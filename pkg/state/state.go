// Package state provides the pure state-name lookup function used by the
// workbook and CLI summary, matching esn_get_state's string table.
package state

import "github.com/dfaudit/sigtrack/pkg/sigmodel"

// Describe returns the human-readable state name for a node's current
// status triple. sdvMode selects the SDV-reworded string table used for
// "source data verification" studies in place of the signing-oriented
// wording.
func Describe(status sigmodel.Status, sdvMode bool) string {
	if sdvMode {
		return describeSDV(status)
	}
	return describeSigning(status)
}

func describeSigning(s sigmodel.Status) string {
	switch s.Signature {
	case sigmodel.SigNone:
		switch s.Rec {
		case sigmodel.RecNormal:
			return "NEVER SIGNED"
		case sigmodel.RecError:
			return "UNSIGNED ERROR RECORD"
		case sigmodel.RecLost:
			return "UNSIGNED LOST RECORD"
		case sigmodel.RecDeleted:
			return "UNSIGNED DELETED RECORD"
		}
	case sigmodel.SigInvalidated:
		switch s.Rec {
		case sigmodel.RecNormal:
			return "SIGNATURE REMOVED"
		case sigmodel.RecError:
			return "SIG. REMOVED, ERROR RECORD"
		case sigmodel.RecLost:
			return "SIG. REMOVED, LOST RECORD"
		case sigmodel.RecDeleted:
			return "SIG. REMOVED, DELETED RECORD"
		}
	case sigmodel.SigComplete:
		switch s.Rec {
		case sigmodel.RecNormal:
			switch s.Change {
			case sigmodel.ChangeNone:
				return "SIGNATURE OK"
			case sigmodel.ChangeAccepted:
				return "ADMIN EXEMPTED RE-SIGN"
			case sigmodel.ChangeDeclinedAtFinal:
				return "RE-SIGN REQD WHEN FINAL"
			case sigmodel.ChangeDeclined:
				return "RE-SIGN REQD"
			}
		case sigmodel.RecError:
			return "SIGNED IN ERROR"
		case sigmodel.RecLost:
			return "SIGNED, MARKED LOST"
		case sigmodel.RecDeleted:
			return "DELETED SIGNED RECORDS"
		}
	}
	return "STATE UNKNOWN"
}

func describeSDV(s sigmodel.Status) string {
	switch s.Signature {
	case sigmodel.SigNone:
		switch s.Rec {
		case sigmodel.RecNormal:
			return "NEVER VERIFIED"
		case sigmodel.RecError:
			return "NEVER VERIFIED (ERROR REC)"
		case sigmodel.RecLost:
			return "NEVER VERIFIED (LOST REC)"
		case sigmodel.RecDeleted:
			return "NEVER VERIFIED (DELETED REC)"
		}
	case sigmodel.SigInvalidated:
		switch s.Rec {
		case sigmodel.RecNormal:
			return "RE-VERIFICATION REQD"
		case sigmodel.RecError:
			return "RE-VERIFICATION REQD (ERROR REC)"
		case sigmodel.RecLost:
			return "RE-VERIFICATION REQD (LOST REC)"
		case sigmodel.RecDeleted:
			return "RE-VERIFICATION REQD (DELETED REC)"
		}
	case sigmodel.SigComplete:
		switch s.Rec {
		case sigmodel.RecNormal:
			switch s.Change {
			case sigmodel.ChangeNone:
				return "SDV OK"
			case sigmodel.ChangeAccepted:
				return "ADMIN EXEMPTED RE-VERIFICATION"
			case sigmodel.ChangeDeclinedAtFinal:
				return "RE-VERIFICATION REQD WHEN FINAL"
			case sigmodel.ChangeDeclined:
				return "RE-VERIFICATION REQD"
			}
		case sigmodel.RecError:
			return "SDV OK (ERROR REC)"
		case sigmodel.RecLost:
			return "SDV OK (LOST REC)"
		case sigmodel.RecDeleted:
			return "SDV OK (DELETED REC)"
		}
	}
	return "STATE UNKNOWN"
}

// Color is the 7-color workbook palette, matching xls.c's get_color.
type Color int

const (
	ColorWhite Color = iota
	ColorLtRed
	ColorLtGreen
	ColorLtPurple
	ColorLtYellow
	ColorRed
	ColorLtOrange
)

// ColorFor returns the cell-fill color for a status triple, matching
// get_color in xls.c.
func ColorFor(s sigmodel.Status) Color {
	switch s.Signature {
	case sigmodel.SigNone:
		switch s.Rec {
		case sigmodel.RecNormal:
			return ColorLtYellow
		case sigmodel.RecError:
			return ColorLtPurple
		case sigmodel.RecLost:
			return ColorWhite
		case sigmodel.RecDeleted:
			return ColorRed
		}
	case sigmodel.SigInvalidated:
		switch s.Rec {
		case sigmodel.RecNormal:
			return ColorLtRed
		case sigmodel.RecError:
			return ColorLtPurple
		case sigmodel.RecLost:
			return ColorWhite
		case sigmodel.RecDeleted:
			return ColorRed
		}
	case sigmodel.SigComplete:
		switch s.Rec {
		case sigmodel.RecNormal:
			switch s.Change {
			case sigmodel.ChangeNone, sigmodel.ChangeAccepted:
				return ColorLtGreen
			case sigmodel.ChangeDeclinedAtFinal:
				return ColorLtOrange
			case sigmodel.ChangeDeclined:
				return ColorLtRed
			}
		case sigmodel.RecError:
			return ColorLtPurple
		case sigmodel.RecLost:
			return ColorWhite
		case sigmodel.RecDeleted:
			return ColorRed
		}
	}
	return ColorWhite
}
