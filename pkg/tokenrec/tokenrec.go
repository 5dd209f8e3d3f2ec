// Package tokenrec reads delimited token records (one logical line, split
// on a single-byte delimiter) from a stream, the Go analogue of the
// original toolkit's StringList/sl_read.
package tokenrec

import (
	"bufio"
	"io"
)

// Record is a single delimited line split into fields.
type Record []string

// Value returns the nth field or "" if out of range, matching sl_value.
func (r Record) Value(n int) string {
	if n < 0 || n >= len(r) {
		return ""
	}
	return r[n]
}

// Reader reads successive delimited records from an underlying stream.
type Reader struct {
	br        *bufio.Reader
	delimiter byte
}

// NewReader wraps r, splitting records on delimiter and lines on '\n'.
func NewReader(r io.Reader, delimiter byte) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 4096), delimiter: delimiter}
}

// Read returns the next record, or io.EOF once the stream is exhausted
// with no partial record pending, matching sl_read's contract.
func (rd *Reader) Read() (Record, error) {
	var rec Record
	var field []byte
	sawAny := false

	for {
		c, err := rd.br.ReadByte()
		if err != nil {
			if err == io.EOF {
				if !sawAny && len(rec) == 0 && len(field) == 0 {
					return nil, io.EOF
				}
				rec = append(rec, string(field))
				return rec, nil
			}
			return nil, err
		}
		sawAny = true
		switch c {
		case '\n':
			rec = append(rec, string(field))
			return rec, nil
		case rd.delimiter:
			rec = append(rec, string(field))
			field = field[:0]
		default:
			field = append(field, c)
		}
	}
}
