package errs

import (
	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr so errors.Is(err, markErr) holds while keeping the cause chain
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(&marked{cause: err, mark: markErr}, markErr)
}

// marked surfaces the mark to the standard library's errors.Is via multi-error
// Unwrap; cr.Mark alone is only visible to cockroachdb's own Is.
type marked struct {
	cause error
	mark  error
}

func (m *marked) Error() string   { return m.cause.Error() }
func (m *marked) Unwrap() []error { return []error{m.cause, m.mark} }
