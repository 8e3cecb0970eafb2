package match

import (
	"slices"

	"github.com/ava12/chunkparse/stream"
)

type repeat[T any] struct {
	element Matcher[T]
	min     int
}

// repeatState is the resume handle of repetition.
// While an element attempt is indeterminate the stream holds a mark at the start of that element.
type repeatState[T any] struct {
	rep    *repeat[T]
	count  int
	values []T
	child  Matcher[T]
	start  int
}

// ZeroOrMore creates matcher accepting m repeatedly until it fails.
// The value is the list of present element values. It never fails.
// An element matching empty text ends the repetition.
func ZeroOrMore[T any](m Matcher[T]) (Matcher[[]T], error) {
	if m == nil {
		return nil, nilMatcherError("ZeroOrMore", "element")
	}
	return &repeat[T]{element: m}, nil
}

// OneOrMore is like ZeroOrMore, but fails with the element's failure if no elements are matched.
func OneOrMore[T any](m Matcher[T]) (Matcher[[]T], error) {
	if m == nil {
		return nil, nilMatcherError("OneOrMore", "element")
	}
	return &repeat[T]{element: m, min: 1}, nil
}

func (r *repeat[T]) Expected() string {
	return r.element.Expected()
}

func (r *repeat[T]) Match(s *stream.Stream) Outcome[[]T] {
	return repeatState[T]{rep: r, start: s.Offset()}.Match(s)
}

func (st repeatState[T]) Expected() string {
	return st.rep.element.Expected()
}

func (st repeatState[T]) Match(s *stream.Stream) Outcome[[]T] {
	for {
		var o Outcome[T]
		if st.child == nil {
			s.Mark()
			o = st.rep.element.Match(s)
		} else {
			o = st.child.Match(s)
			st.child = nil
		}

		switch o.Kind() {
		case Matched:
			s.DiscardMark()
			if v, present := o.Value(); present {
				st.values = append(st.values, v)
			}
			st.count++
			if o.Consumed() == 0 {
				return Success(st.values, s.Offset()-st.start)
			}
			continue

		case Failed:
			s.ResetToMark()
			s.DiscardMark()
			if st.count < st.rep.min {
				return failedAs[[]T](o)
			}
			return Success(st.values, s.Offset()-st.start)

		case Indeterminate:
			st.child = o.Resume()
			st.values = slices.Clip(st.values)
			return Pending[[]T](st)
		}
		panic(unknownOutcomeError(o.Kind()))
	}
}

type optional[T any] struct {
	m Matcher[T]
}

// Optional creates matcher accepting m or nothing.
// If m fails, the cursor is restored and the outcome is matched with absent value.
func Optional[T any](m Matcher[T]) (Matcher[T], error) {
	if m == nil {
		return nil, nilMatcherError("Optional", "wrapped")
	}
	return &optional[T]{m}, nil
}

func (opt *optional[T]) Expected() string {
	return opt.m.Expected()
}

func (opt *optional[T]) Match(s *stream.Stream) Outcome[T] {
	s.Mark()
	return optionalState[T]{opt.m}.Match(s)
}

// optionalState is the resume handle of Optional, the stream holds a mark at the start of the attempt.
type optionalState[T any] struct {
	child Matcher[T]
}

func (st optionalState[T]) Expected() string {
	return st.child.Expected()
}

func (st optionalState[T]) Match(s *stream.Stream) Outcome[T] {
	o := st.child.Match(s)
	switch o.Kind() {
	case Matched:
		s.DiscardMark()
		return o

	case Failed:
		s.ResetToMark()
		s.DiscardMark()
		return Absent[T](0)

	case Indeterminate:
		return Pending[T](optionalState[T]{o.Resume()})
	}
	panic(unknownOutcomeError(o.Kind()))
}
