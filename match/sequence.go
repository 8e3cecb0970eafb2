package match

import (
	"slices"

	"github.com/ava12/chunkparse/stream"
)

type sequence[T any] struct {
	children []Matcher[T]
}

func newSequence[T any](name string, ms []Matcher[T]) (*sequence[T], error) {
	if e := checkMatchers(name, "child", ms); e != nil {
		return nil, e
	}
	return &sequence[T]{slices.Clone(ms)}, nil
}

func (q *sequence[T]) Expected() string {
	return q.children[0].Expected()
}

// seqState holds a sequence attempt: the index of active child, its resume handle (if any),
// and present values of already matched children.
// The stream holds a mark at the start of the attempt until it is finished.
type seqState[T any] struct {
	seq    *sequence[T]
	index  int
	child  Matcher[T]
	values []T
	start  int
}

func (q *sequence[T]) begin(s *stream.Stream) seqState[T] {
	s.Mark()
	return seqState[T]{seq: q, start: s.Offset()}
}

// run advances the attempt as far as buffered text allows.
// The returned state is the resume state for Indeterminate.
func (st seqState[T]) run(s *stream.Stream) (Outcome[[]T], seqState[T]) {
	for st.index < len(st.seq.children) {
		var o Outcome[T]
		if st.child == nil {
			o = st.seq.children[st.index].Match(s)
		} else {
			o = st.child.Match(s)
			st.child = nil
		}

		switch o.Kind() {
		case Matched:
			if v, present := o.Value(); present {
				st.values = append(st.values, v)
			}
			st.index++
			continue

		case Failed:
			s.ResetToMark()
			s.DiscardMark()
			return failedAs[[]T](o), st

		case Indeterminate:
			st.child = o.Resume()
			st.values = slices.Clip(st.values)
			return Outcome[[]T]{kind: Indeterminate}, st
		}
		panic(unknownOutcomeError(o.Kind()))
	}

	s.DiscardMark()
	return Success(st.values, s.Offset()-st.start), st
}

type all[T any] struct {
	*sequence[T]
}

type allState[T any] struct {
	seqState[T]
}

// All creates matcher accepting all children in order.
// The value is the list of present child values.
// The first failed child fails the whole sequence at the child's offset with the child's message.
func All[T any](ms ...Matcher[T]) (Matcher[[]T], error) {
	q, e := newSequence("All", ms)
	if e != nil {
		return nil, e
	}
	return all[T]{q}, nil
}

func (a all[T]) Match(s *stream.Stream) Outcome[[]T] {
	return allState[T]{a.begin(s)}.Match(s)
}

func (st allState[T]) Match(s *stream.Stream) Outcome[[]T] {
	o, next := st.run(s)
	switch o.Kind() {
	case Matched, Failed:
		return o
	case Indeterminate:
		return Pending[[]T](allState[T]{next})
	}
	panic(unknownOutcomeError(o.Kind()))
}

func (st allState[T]) Expected() string {
	return st.seq.children[st.index].Expected()
}

type first[T any] struct {
	*sequence[T]
}

type firstState[T any] struct {
	seqState[T]
}

// First creates matcher accepting all children in order like All.
// The value is the value of the first child having present value; it is absent if there is no such child.
func First[T any](ms ...Matcher[T]) (Matcher[T], error) {
	q, e := newSequence("First", ms)
	if e != nil {
		return nil, e
	}
	return first[T]{q}, nil
}

func (f first[T]) Match(s *stream.Stream) Outcome[T] {
	return firstState[T]{f.begin(s)}.Match(s)
}

func (st firstState[T]) Match(s *stream.Stream) Outcome[T] {
	o, next := st.run(s)
	switch o.Kind() {
	case Matched:
		values, _ := o.Value()
		if len(values) == 0 {
			return Absent[T](o.Consumed())
		}
		return Success(values[0], o.Consumed())
	case Failed:
		return failedAs[T](o)
	case Indeterminate:
		return Pending[T](firstState[T]{next})
	}
	panic(unknownOutcomeError(o.Kind()))
}

func (st firstState[T]) Expected() string {
	return st.seq.children[st.index].Expected()
}
