package match

import (
	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/stream"
)

// Matcher is a composable unit recognizing a fragment of a grammar.
type Matcher[T any] interface {
	// Match tries to match text at the stream cursor.
	Match(s *stream.Stream) Outcome[T]

	// Expected returns human-readable description of expected text, e.g. 'abc' or end of input.
	Expected() string
}

// Must returns m or panics if e is not nil.
// It simplifies declaration of grammars in package variables.
func Must[M any](m M, e error) M {
	if e != nil {
		panic(e)
	}
	return m
}

// Parse matches the whole text (followed by the end of input) with m.
// Unmatched trailing text is not an error, use End to require it.
// Returns *chunkparse.Error with ErrNoMatch code if m fails.
func Parse[T any](m Matcher[T], name, text string) (T, error) {
	s := stream.New(name)
	s.Append(text)
	s.AppendEnd()
	return Finish(m, s)
}

// Finish runs m (which may be a resume handle) on ended stream s and returns matched value.
// Absent value is returned as zero value.
func Finish[T any](m Matcher[T], s *stream.Stream) (T, error) {
	var zero T
	o := m.Match(s)
	switch o.Kind() {
	case Matched:
		v, _ := o.Value()
		return v, nil
	case Failed:
		return zero, o.Err(s)
	case Indeterminate:
		return zero, chunkparse.FormatErrorPos(s.Position(), ErrIncomplete, "matcher %s is still indeterminate", m.Expected())
	}
	panic(unknownOutcomeError(o.Kind()))
}

func checkMatchers[T any](matcher, role string, ms []Matcher[T]) error {
	if len(ms) == 0 {
		return invalidArgumentError(matcher, "no %s matchers", role)
	}
	for _, m := range ms {
		if m == nil {
			return nilMatcherError(matcher, role)
		}
	}
	return nil
}
