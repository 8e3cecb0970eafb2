package match

import (
	"github.com/tliron/commonlog"

	"github.com/ava12/chunkparse/stream"
)

type discard[T, U any] struct {
	m Matcher[U]
}

// Discard creates matcher accepting the same text as m, but producing no value.
// The result value type is T, so discarded parts may be used in sequences of any value type.
func Discard[T, U any](m Matcher[U]) (Matcher[T], error) {
	if m == nil {
		return nil, nilMatcherError("Discard", "wrapped")
	}
	return discard[T, U]{m}, nil
}

func (d discard[T, U]) Expected() string {
	return d.m.Expected()
}

func (d discard[T, U]) Match(s *stream.Stream) Outcome[T] {
	o := d.m.Match(s)
	switch o.Kind() {
	case Matched:
		return Absent[T](o.Consumed())
	case Failed:
		return failedAs[T](o)
	case Indeterminate:
		return Pending[T](discard[T, U]{o.Resume()})
	}
	panic(unknownOutcomeError(o.Kind()))
}

type mapped[T, U any] struct {
	m  Matcher[T]
	fn func(T) U
}

// Map creates matcher accepting the same text as m and converting present values with fn.
// Absent values stay absent.
func Map[T, U any](m Matcher[T], fn func(T) U) (Matcher[U], error) {
	if m == nil {
		return nil, nilMatcherError("Map", "wrapped")
	}
	if fn == nil {
		return nil, invalidArgumentError("Map", "function is nil")
	}
	return mapped[T, U]{m, fn}, nil
}

func (mp mapped[T, U]) Expected() string {
	return mp.m.Expected()
}

func (mp mapped[T, U]) Match(s *stream.Stream) Outcome[U] {
	o := mp.m.Match(s)
	switch o.Kind() {
	case Matched:
		v, present := o.Value()
		if !present {
			return Absent[U](o.Consumed())
		}
		return Success(mp.fn(v), o.Consumed())
	case Failed:
		return failedAs[U](o)
	case Indeterminate:
		return Pending[U](mapped[T, U]{o.Resume(), mp.fn})
	}
	panic(unknownOutcomeError(o.Kind()))
}

// Any converts matcher to one producing untyped values, e.g. to combine matchers of different types.
func Any[T any](m Matcher[T]) (Matcher[any], error) {
	return Map(m, func(v T) any { return v })
}

type callback[T any] struct {
	m     Matcher[T]
	fn    func(value T, line int)
	start int
}

// OnMatch creates matcher calling fn once every time m matches.
// fn receives zero value if matched value is absent. fn is never called for failed or indeterminate outcomes.
// fn must not modify the stream.
func OnMatch[T any](m Matcher[T], fn func(value T)) (Matcher[T], error) {
	if fn == nil {
		return nil, invalidArgumentError("OnMatch", "function is nil")
	}
	return OnMatchLine(m, func(v T, _ int) { fn(v) })
}

// OnMatchLine is like OnMatch, but fn also receives the line number where matched text starts.
func OnMatchLine[T any](m Matcher[T], fn func(value T, line int)) (Matcher[T], error) {
	if m == nil {
		return nil, nilMatcherError("OnMatch", "wrapped")
	}
	if fn == nil {
		return nil, invalidArgumentError("OnMatch", "function is nil")
	}
	return &callback[T]{m: m, fn: fn}, nil
}

func (c *callback[T]) Expected() string {
	return c.m.Expected()
}

func (c *callback[T]) Match(s *stream.Stream) Outcome[T] {
	return callbackState[T]{c, c.m, s.Offset()}.Match(s)
}

type callbackState[T any] struct {
	cb    *callback[T]
	child Matcher[T]
	start int
}

func (st callbackState[T]) Expected() string {
	return st.child.Expected()
}

func (st callbackState[T]) Match(s *stream.Stream) Outcome[T] {
	o := st.child.Match(s)
	switch o.Kind() {
	case Matched:
		v, _ := o.Value()
		line, _ := s.LineCol(st.start)
		st.cb.fn(v, line)
		return o
	case Failed:
		return o
	case Indeterminate:
		return Pending[T](callbackState[T]{st.cb, o.Resume(), st.start})
	}
	panic(unknownOutcomeError(o.Kind()))
}

// Ref is a forward reference to a matcher used to build recursive grammars.
// The zero Ref is ready to use; Set must be called before matching.
type Ref[T any] struct {
	m Matcher[T]
}

// Set sets referenced matcher. It may be called only once.
func (r *Ref[T]) Set(m Matcher[T]) error {
	if m == nil {
		return nilMatcherError("Ref", "referenced")
	}
	if r.m != nil {
		return invalidArgumentError("Ref", "matcher is already set")
	}
	r.m = m
	return nil
}

func (r *Ref[T]) Expected() string {
	if r.m == nil {
		return "unset reference"
	}
	return r.m.Expected()
}

// Match panics with ErrUnsetRef if Set was not called.
func (r *Ref[T]) Match(s *stream.Stream) Outcome[T] {
	if r.m == nil {
		panic(unsetRefError())
	}
	return r.m.Match(s)
}

type trace[T any] struct {
	name string
	m    Matcher[T]
	log  commonlog.Logger
}

// Trace creates matcher logging every outcome of m at debug level under the given name.
func Trace[T any](name string, m Matcher[T]) (Matcher[T], error) {
	if m == nil {
		return nil, nilMatcherError("Trace", "wrapped")
	}
	return trace[T]{name, m, commonlog.GetLogger("chunkparse.match")}, nil
}

func (t trace[T]) Expected() string {
	return t.m.Expected()
}

func (t trace[T]) Match(s *stream.Stream) Outcome[T] {
	pos := s.Position()
	o := t.m.Match(s)
	t.log.Debugf("%s at %s: %s", t.name, pos, o)
	if o.Kind() == Indeterminate {
		return Pending[T](trace[T]{t.name, o.Resume(), t.log})
	}
	return o
}

type label[T any] struct {
	name string
	m    Matcher[T]
}

// Label creates matcher accepting the same text as m, but describing expected text with name.
// Failures of m are reported at their original offset with "expected <name>" message.
func Label[T any](name string, m Matcher[T]) (Matcher[T], error) {
	if m == nil {
		return nil, nilMatcherError("Label", "wrapped")
	}
	if name == "" {
		return nil, invalidArgumentError("Label", "empty name")
	}
	return label[T]{name, m}, nil
}

func (l label[T]) Expected() string {
	return l.name
}

func (l label[T]) Match(s *stream.Stream) Outcome[T] {
	o := l.m.Match(s)
	switch o.Kind() {
	case Matched:
		return o
	case Failed:
		return Failure[T](o.Offset(), "expected "+l.name)
	case Indeterminate:
		return Pending[T](label[T]{l.name, o.Resume()})
	}
	panic(unknownOutcomeError(o.Kind()))
}
