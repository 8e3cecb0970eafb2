/*
Package chunkparse is an incremental parser-combinator library.

Input may arrive in arbitrarily sized chunks (e.g. from a socket or a slow file read).
A matcher that cannot decide yet returns an indeterminate outcome together with a resume handle;
the caller appends more text (or marks the end of input) and calls the handle again.
Work already done is never repeated and no character is consumed twice.

Consists of subpackages:
  - stream: append-only rune buffer with read cursor, end-of-input flag, marks, and line index;
  - match: outcome algebra, matcher protocol, terminal matchers, and combinators;
  - feed: drivers feeding text or io.Reader content to matchers;
  - report: human-readable rendering of match failures;
  - grammar: stock grammars built with match;
  - cmd/chunkmatch: console utility running stock grammars over files.

Typical usage is:

1. Build a grammar from match combinators once, it may be shared by any number of streams.

2. Create a stream, append available text, and call Match on the grammar.

3. If the outcome is indeterminate, append more text (or call AppendEnd) and call outcome.Resume().Match.
Repeat until the outcome is matched or failed.
*/
package chunkparse

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	StreamErrors  = 1   // used by stream
	MatchErrors   = 101 // used by match
	FeedErrors    = 201 // used by feed
	GrammarErrors = 301 // used by grammar
)

// Error is the error type used by chunkparse subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source or 0.
	Line int

	// Col contains column number in source or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// stream.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	return &Error{code, msg + positionSuffix(name, line, col), name, line, col}
}

func positionSuffix(name string, line, col int) string {
	switch {
	case line == 0 || col == 0:
		return ""
	case name == "":
		return fmt.Sprintf(" at line %d col %d", line, col)
	default:
		return fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Reason returns error message without source name and position information.
func (e *Error) Reason() string {
	return strings.TrimSuffix(e.Message, positionSuffix(e.SourceName, e.Line, e.Col))
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// HasCode tells whether e is (or wraps) an *Error with given code.
func HasCode(e error, code int) bool {
	var ce *Error
	return errors.As(e, &ce) && ce.Code == code
}
