// Package sigerr adapts the teacher's error-wrapping pair (a stack-traced
// wrap for top-level reporting, a coded error for callers that need to
// distinguish failure kinds) to this tool's four exit-code categories,
// matching pkg/commands/errors.go.
package sigerr

import (
	"fmt"

	"github.com/go-errors/errors"
	"golang.org/x/xerrors"
)

// Exit codes, matching spec.md §7.
const (
	ExitSuccess     = 0
	ExitConfigError = 2
	ExitInputError  = 3
	ExitOutputError = 4
)

// WrapError wraps err with a stack trace for top-level reporting. go-errors
// doesn't return nil when wrapping a non-error, so we guard it here.
func WrapError(err error) error {
	if err == nil {
		return err
	}
	return errors.Wrap(err, 0)
}

// ComplexError is an error carrying an exit code, so the caller at main()
// can decide how the process should terminate without string-matching the
// message, adapted from pkg/commands/errors.go's ComplexError.
type ComplexError struct {
	Message string
	Code    int
	frame   xerrors.Frame
}

// NewComplexError captures the call site's frame along with code and
// message.
func NewComplexError(code int, format string, args ...any) ComplexError {
	return ComplexError{
		Message: fmt.Sprintf(format, args...),
		Code:    code,
		frame:   xerrors.Caller(1),
	}
}

func (ce ComplexError) FormatError(p xerrors.Printer) error {
	p.Printf("%d %s", ce.Code, ce.Message)
	ce.frame.Format(p)
	return nil
}

func (ce ComplexError) Format(f fmt.State, c rune) {
	xerrors.FormatError(ce, f, c)
}

func (ce ComplexError) Error() string {
	return fmt.Sprint(ce)
}

// ExitCode returns the exit code carried by err if it (or something it
// wraps) is a ComplexError, or ExitInputError otherwise.
func ExitCode(err error) int {
	var ce ComplexError
	if xerrors.As(err, &ce) {
		return ce.Code
	}
	return ExitInputError
}
