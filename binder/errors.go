package binder

import (
	"errors"
	"fmt"
	"io"
)

// DeclError is a problem found while entering declarations, tied to a source offset.
type DeclError struct {
	Pos int
	Msg string
}

func declErrorf(pos int, format string, args ...any) *DeclError {
	return &DeclError{
		Pos: pos,
		Msg: fmt.Sprintf(format, args...),
	}
}

func (e *DeclError) Error() string {
	return fmt.Sprintf("pos %d: %s", e.Pos, e.Msg)
}

type ErrorCollector struct {
	// Errors found so far, in discovery order
	Errors []error

	// Errors past this count are dropped
	// 0 => no limit
	MaxErrors int
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}

// WriteErrors prints one error per line.
func (c *ErrorCollector) WriteErrors(w io.Writer) {
	for _, err := range c.Errors {
		fmt.Fprintln(w, err)
	}
}

func (c *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if c.MaxErrors > 0 && len(c.Errors) >= c.MaxErrors {
			return
		}
		c.Errors = append(c.Errors, err)
	}
}

func (c *ErrorCollector) Errorf(pos int, format string, args ...any) bool {
	c.AddErrors(declErrorf(pos, format, args...))
	return false
}

// Err joins the collected errors, or returns nil when there are none.
func (c *ErrorCollector) Err() error {
	return errors.Join(c.Errors...)
}
