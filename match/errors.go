package match

import (
	"github.com/ava12/chunkparse"
)

// Error codes used by match:
const (
	// ErrInvalidArgument indicates an attempt to construct a matcher with missing or invalid arguments.
	ErrInvalidArgument = chunkparse.MatchErrors + iota

	// ErrNoMatch is the code of errors created for failed outcomes.
	ErrNoMatch

	// ErrIncomplete indicates that a matcher remained indeterminate after the end of input.
	ErrIncomplete

	// ErrUnknownOutcome indicates an outcome of unknown kind (e.g. a zero Outcome value).
	ErrUnknownOutcome

	// ErrUnsetRef indicates an attempt to use Ref before Set was called.
	ErrUnsetRef
)

func invalidArgumentError(matcher, msg string, params ...any) *chunkparse.Error {
	return chunkparse.FormatError(ErrInvalidArgument, matcher+": "+msg, params...)
}

func nilMatcherError(matcher, role string) *chunkparse.Error {
	return invalidArgumentError(matcher, "%s matcher is nil", role)
}

func unknownOutcomeError(k Kind) *chunkparse.Error {
	return chunkparse.FormatError(ErrUnknownOutcome, "unknown outcome kind %d", int(k))
}

func unsetRefError() *chunkparse.Error {
	return chunkparse.FormatError(ErrUnsetRef, "reference matcher is not set")
}
