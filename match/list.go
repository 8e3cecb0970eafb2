package match

import (
	"slices"

	"github.com/ava12/chunkparse/stream"
)

type listPhase int8

const (
	listPrefix listPhase = iota
	listElement
	listSeparator
	listPostfix
)

type list[E, D any] struct {
	prefix, separator, postfix Matcher[D]
	element                    Matcher[E]
}

// List creates matcher accepting delimited list: prefix, element, then any number of separator and element pairs,
// then postfix. At least one element is required. The value is the list of present element values.
// A failure message tells which part of the list was expected.
func List[E, D any](prefix Matcher[D], element Matcher[E], separator, postfix Matcher[D]) (Matcher[[]E], error) {
	switch {
	case prefix == nil:
		return nil, nilMatcherError("List", "prefix")
	case element == nil:
		return nil, nilMatcherError("List", "element")
	case separator == nil:
		return nil, nilMatcherError("List", "separator")
	case postfix == nil:
		return nil, nilMatcherError("List", "postfix")
	}
	return &list[E, D]{prefix: prefix, element: element, separator: separator, postfix: postfix}, nil
}

func (l *list[E, D]) Expected() string {
	return l.prefix.Expected()
}

func (l *list[E, D]) Match(s *stream.Stream) Outcome[[]E] {
	s.Mark()
	return listState[E, D]{list: l, start: s.Offset()}.Match(s)
}

// listState is the resume handle of List.
// The stream holds a mark at the start of the list and another one at the start of a separator
// while that separator is indeterminate.
type listState[E, D any] struct {
	list      *list[E, D]
	phase     listPhase
	values    []E
	delimiter Matcher[D]
	element   Matcher[E]
	start     int
}

func (st listState[E, D]) Expected() string {
	switch st.phase {
	case listPrefix:
		return st.list.prefix.Expected()
	case listElement:
		return st.list.element.Expected()
	case listSeparator:
		return st.list.separator.Expected()
	}
	return st.list.postfix.Expected()
}

func (st listState[E, D]) fail(s *stream.Stream, offset int, message string) Outcome[[]E] {
	s.ResetToMark()
	s.DiscardMark()
	return Failure[[]E](offset, message)
}

func (st listState[E, D]) suspend() Outcome[[]E] {
	st.values = slices.Clip(st.values)
	return Pending[[]E](st)
}

func (st listState[E, D]) matchDelimiter(s *stream.Stream, m Matcher[D]) Outcome[D] {
	if st.delimiter == nil {
		return m.Match(s)
	}
	return st.delimiter.Match(s)
}

func (st listState[E, D]) Match(s *stream.Stream) Outcome[[]E] {
	l := st.list
	for {
		switch st.phase {
		case listPrefix:
			o := st.matchDelimiter(s, l.prefix)
			st.delimiter = nil
			switch o.Kind() {
			case Matched:
				st.phase = listElement
				continue
			case Failed:
				return st.fail(s, o.Offset(), "expected list prefix "+l.prefix.Expected())
			case Indeterminate:
				st.delimiter = o.Resume()
				return st.suspend()
			}
			panic(unknownOutcomeError(o.Kind()))

		case listElement:
			var o Outcome[E]
			if st.element == nil {
				o = l.element.Match(s)
			} else {
				o = st.element.Match(s)
				st.element = nil
			}
			switch o.Kind() {
			case Matched:
				if v, present := o.Value(); present {
					st.values = append(st.values, v)
				}
				st.phase = listSeparator
				continue
			case Failed:
				return st.fail(s, o.Offset(), "expected list element "+l.element.Expected())
			case Indeterminate:
				st.element = o.Resume()
				return st.suspend()
			}
			panic(unknownOutcomeError(o.Kind()))

		case listSeparator:
			if st.delimiter == nil {
				s.Mark()
			}
			o := st.matchDelimiter(s, l.separator)
			st.delimiter = nil
			switch o.Kind() {
			case Matched:
				s.DiscardMark()
				st.phase = listElement
				continue
			case Failed:
				s.ResetToMark()
				s.DiscardMark()
				st.phase = listPostfix
				continue
			case Indeterminate:
				st.delimiter = o.Resume()
				return st.suspend()
			}
			panic(unknownOutcomeError(o.Kind()))

		default: // listPostfix
			o := st.matchDelimiter(s, l.postfix)
			st.delimiter = nil
			switch o.Kind() {
			case Matched:
				s.DiscardMark()
				return Success(st.values, s.Offset()-st.start)
			case Failed:
				return st.fail(s, o.Offset(), "expected list separator "+l.separator.Expected()+" or postfix "+l.postfix.Expected())
			case Indeterminate:
				st.delimiter = o.Resume()
				return st.suspend()
			}
			panic(unknownOutcomeError(o.Kind()))
		}
	}
}
