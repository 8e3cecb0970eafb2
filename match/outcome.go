package match

import (
	"fmt"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/stream"
)

// Kind tells which variant an Outcome holds. The zero Kind is invalid.
type Kind int8

const (
	// Matched means the matcher accepted input; value and consumed rune count are available.
	Matched Kind = iota + 1
	// Failed means the input can never match; offset and message are available.
	Failed
	// Indeterminate means more input is needed; resume handle is available.
	Indeterminate
)

func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Failed:
		return "failed"
	case Indeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the immutable result of Matcher.Match.
// Exactly one variant is populated, use constructors to create outcomes.
type Outcome[T any] struct {
	kind     Kind
	value    T
	present  bool
	consumed int
	offset   int
	message  string
	resume   Matcher[T]
}

// Success creates matched outcome with a value.
func Success[T any](value T, consumed int) Outcome[T] {
	return Outcome[T]{kind: Matched, value: value, present: true, consumed: consumed}
}

// Absent creates matched outcome without a value.
func Absent[T any](consumed int) Outcome[T] {
	return Outcome[T]{kind: Matched, consumed: consumed}
}

// Failure creates failed outcome. offset is the absolute stream offset of the failure.
func Failure[T any](offset int, message string) Outcome[T] {
	return Outcome[T]{kind: Failed, offset: offset, message: message}
}

// Pending creates indeterminate outcome. Panics with ErrInvalidArgument if resume is nil.
func Pending[T any](resume Matcher[T]) Outcome[T] {
	if resume == nil {
		panic(nilMatcherError("Pending", "resume"))
	}
	return Outcome[T]{kind: Indeterminate, resume: resume}
}

// Kind returns outcome kind.
func (o Outcome[T]) Kind() Kind {
	return o.kind
}

// Value returns matched value and a flag telling whether the value is present.
// Returns zero value and false for absent values and for non-matched outcomes.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.present
}

// Consumed returns the number of runes consumed by a matched outcome.
func (o Outcome[T]) Consumed() int {
	return o.consumed
}

// Offset returns absolute offset of a failure.
func (o Outcome[T]) Offset() int {
	return o.offset
}

// Message returns failure message.
func (o Outcome[T]) Message() string {
	return o.message
}

// Resume returns resume handle of an indeterminate outcome or nil.
func (o Outcome[T]) Resume() Matcher[T] {
	return o.resume
}

// Err returns nil for non-failed outcomes and *chunkparse.Error with ErrNoMatch code for failed ones.
// s is used to add position information, it may be nil.
func (o Outcome[T]) Err(s *stream.Stream) error {
	if o.kind != Failed {
		return nil
	}

	if s == nil {
		return chunkparse.FormatError(ErrNoMatch, "%s at offset %d", o.message, o.offset)
	}
	return chunkparse.FormatErrorPos(s.PosAt(o.offset), ErrNoMatch, "%s", o.message)
}

func (o Outcome[T]) String() string {
	switch o.kind {
	case Matched:
		if o.present {
			return fmt.Sprintf("matched %v (%d)", o.value, o.consumed)
		}
		return fmt.Sprintf("matched nothing (%d)", o.consumed)
	case Failed:
		return fmt.Sprintf("failed at %d: %s", o.offset, o.message)
	case Indeterminate:
		return "indeterminate"
	}
	return o.kind.String()
}

// failedAs converts failed outcome to another value type.
func failedAs[U, T any](o Outcome[T]) Outcome[U] {
	return Failure[U](o.offset, o.message)
}
