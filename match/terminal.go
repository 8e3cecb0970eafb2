package match

import (
	"unicode/utf8"

	"github.com/ava12/chunkparse/stream"
)

type literal struct {
	text  string
	runes []rune
}

// Literal creates matcher accepting exact text. The value is the text itself.
// A mismatch fails at the offset where the literal starts, leaving the cursor unchanged.
func Literal(text string) (Matcher[string], error) {
	if text == "" {
		return nil, invalidArgumentError("Literal", "empty text")
	}
	if !utf8.ValidString(text) {
		return nil, invalidArgumentError("Literal", "invalid UTF-8 text %q", text)
	}
	return &literal{text, []rune(text)}, nil
}

func (l *literal) Expected() string {
	return "'" + l.text + "'"
}

func (l *literal) Match(s *stream.Stream) Outcome[string] {
	for i, expected := range l.runes {
		r, ok := s.RuneAt(i)
		if !ok {
			if s.Ended() {
				break
			}
			return Pending[string](l)
		}
		if r != expected {
			break
		}
		if i == len(l.runes)-1 {
			s.Consume(len(l.runes))
			return Success(l.text, len(l.runes))
		}
	}
	return Failure[string](s.Offset(), "expected "+l.Expected())
}

type end[T any] struct{}

// End creates matcher accepting the end of input. The value is always absent.
func End[T any]() Matcher[T] {
	return end[T]{}
}

func (end[T]) Expected() string {
	return "end of input"
}

func (e end[T]) Match(s *stream.Stream) Outcome[T] {
	if s.Available() > 0 {
		return Failure[T](s.Offset(), "expected end of input")
	}
	if s.Ended() {
		return Absent[T](0)
	}
	return Pending[T](e)
}

// run matches the longest sequence of runes satisfying pred.
type run[T any] struct {
	name  string
	pred  func(rune) bool
	min   int
	value func(s *stream.Stream, n int) T
}

// runState is the resume handle of run, n runes after the cursor are already checked.
type runState[T any] struct {
	run *run[T]
	n   int
}

func (r *run[T]) Expected() string {
	return r.name
}

func (r *run[T]) Match(s *stream.Stream) Outcome[T] {
	return runState[T]{run: r}.Match(s)
}

func (st runState[T]) Expected() string {
	return st.run.name
}

func (st runState[T]) Match(s *stream.Stream) Outcome[T] {
	r := st.run
	for {
		c, ok := s.RuneAt(st.n)
		if !ok {
			if !s.Ended() {
				return Pending[T](st)
			}
			break
		}
		if !r.pred(c) {
			break
		}
		st.n++
	}

	if st.n < r.min {
		return Failure[T](s.Offset(), "expected "+r.name)
	}
	value := r.value(s, st.n)
	s.Consume(st.n)
	return Success(value, st.n)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func runLength(_ *stream.Stream, n int) int {
	return n
}

func runText(s *stream.Stream, n int) string {
	return string(s.Peek(n))
}

var (
	blanks = &run[int]{name: "whitespace", pred: isBlank, value: runLength}
	spaces = &run[int]{name: "whitespace", pred: isSpace, value: runLength}
)

// Whitespace creates matcher skipping spaces and tabs. The value is the number of skipped runes.
// It never fails; it is indeterminate while buffered text ends with whitespace and the end is not signaled.
func Whitespace() Matcher[int] {
	return blanks
}

// WhitespaceNL is like Whitespace, but also skips line feeds and carriage returns.
func WhitespaceNL() Matcher[int] {
	return spaces
}

// While creates matcher accepting the longest run of at least min runes satisfying pred.
// The value is the accepted text. name describes expected text in failure messages.
func While(name string, pred func(rune) bool, min int) (Matcher[string], error) {
	if pred == nil {
		return nil, invalidArgumentError("While", "predicate is nil")
	}
	if min < 0 {
		return nil, invalidArgumentError("While", "negative minimal length %d", min)
	}
	if name == "" {
		name = "matching text"
	}
	return &run[string]{name: name, pred: pred, min: min, value: runText}, nil
}
