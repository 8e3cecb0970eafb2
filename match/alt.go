package match

import (
	"slices"
	"strings"

	"github.com/ava12/chunkparse/stream"
)

type alt[T any] struct {
	candidates []Matcher[T]
}

// altState is the resume handle of alternation holding the index of the active candidate.
// The stream holds a mark at the start of the attempt until it is finished.
type altState[T any] struct {
	alt   *alt[T]
	index int
	child Matcher[T]
	start int
}

// Alt creates matcher trying candidates in order at the same position.
// The first matched candidate wins. A failed candidate leaves no cursor side effects.
// If a candidate is indeterminate, the alternation is indeterminate too and later candidates
// are not tried until that candidate is decided.
// If all candidates fail, the alternation fails at its start with "expected one of: ..." message.
func Alt[T any](ms ...Matcher[T]) (Matcher[T], error) {
	if e := checkMatchers("Alt", "candidate", ms); e != nil {
		return nil, e
	}
	return &alt[T]{slices.Clone(ms)}, nil
}

func (a *alt[T]) Expected() string {
	if len(a.candidates) == 1 {
		return a.candidates[0].Expected()
	}

	parts := make([]string, len(a.candidates))
	for i, c := range a.candidates {
		parts[i] = c.Expected()
	}
	return "one of: " + strings.Join(parts, ", ")
}

func (a *alt[T]) Match(s *stream.Stream) Outcome[T] {
	s.Mark()
	return altState[T]{alt: a, start: s.Offset()}.Match(s)
}

func (st altState[T]) Expected() string {
	return st.alt.candidates[st.index].Expected()
}

func (st altState[T]) Match(s *stream.Stream) Outcome[T] {
	for st.index < len(st.alt.candidates) {
		var o Outcome[T]
		if st.child == nil {
			o = st.alt.candidates[st.index].Match(s)
		} else {
			o = st.child.Match(s)
			st.child = nil
		}

		switch o.Kind() {
		case Matched:
			s.DiscardMark()
			return o

		case Failed:
			s.ResetToMark()
			st.index++
			continue

		case Indeterminate:
			st.child = o.Resume()
			return Pending[T](st)
		}
		panic(unknownOutcomeError(o.Kind()))
	}

	s.DiscardMark()
	return Failure[T](st.start, "expected "+st.alt.Expected())
}
