// Package ingest implements the per-audit-record state machine that
// reconstructs signature-node state from a stream of DFaudittrace
// records, matching process_input and the esn_sign/esn_unsign/
// esn_datachange/esn_free_signed_values family in the original toolkit.
package ingest

import (
	"strconv"

	"github.com/dfaudit/sigtrack/pkg/tokenrec"
)

// Field positions within one DFaudittrace record (zero-indexed), matching
// the AUDITREC_* constants in esig.h.
const (
	FieldRecType   = 0
	FieldDate      = 1
	FieldTime      = 2
	FieldUser      = 3
	FieldPID       = 4
	FieldVisit     = 5
	FieldPlate     = 6
	FieldFieldRef  = 7
	FieldUniqueID  = 8
	FieldStatus    = 9
	FieldLevel     = 10
	FieldMaxLevel  = 11
	FieldOldValue  = 14
	FieldNewValue  = 15
	FieldFieldPos  = 16
	FieldFieldDesc = 17
	FieldOldDecode = 18
	FieldNewDecode = 19
)

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// decodeValue appends the decode label to a value when present, matching
// decode_value: "value" alone, or "value=decode" when a decode exists.
func decodeValue(rec tokenrec.Record, valuePos, decodePos int) string {
	value := rec.Value(valuePos)
	decode := rec.Value(decodePos)
	if decode != "" {
		return value + "=" + decode
	}
	return value
}
