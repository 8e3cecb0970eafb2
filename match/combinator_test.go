package match

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/chunkparse/internal/test"
	"github.com/ava12/chunkparse/stream"
)

func TestSequenceResumesAfterMoreInput(t *testing.T) {
	m := must[Matcher[[]string]](t)(All(lit(t, "a1"), lit(t, "a2")))

	s := stream.New("")
	s.Append("a1")
	h := expectPending(t, m.Match(s))
	assert.Equal(t, "'a2'", h.Expected())

	s.Append("a2")
	expectMatched(t, h.Match(s), []string{"a1", "a2"}, 4)
	assert.Equal(t, 4, s.Offset())
	assert.Zero(t, s.Marks())
}

func TestSequenceFailureRestoresCursor(t *testing.T) {
	m := must[Matcher[[]string]](t)(All(lit(t, "ab"), lit(t, "cd")))
	o, s := drive(m, []string{"abce"}, false)
	expectFailed(t, o, 2, "expected 'cd'")
	assert.Equal(t, 0, s.Offset())
	assert.Zero(t, s.Marks())
	assert.Equal(t, "'ab'", m.Expected())
}

func TestFirstKeepsFirstPresentValue(t *testing.T) {
	m := must[Matcher[string]](t)(First(
		must[Matcher[string]](t)(Discard[string](Whitespace())),
		lit(t, "x"),
		must[Matcher[string]](t)(Discard[string, string](lit(t, ";"))),
		lit(t, "y"),
	))

	for _, chunks := range test.Splits("  x;y") {
		o, s := drive(m, chunks, true)
		expectMatched(t, o, "x", 5)
		assert.Zero(t, s.Marks())
	}

	nothing := must[Matcher[string]](t)(First(must[Matcher[string]](t)(Discard[string, string](lit(t, ";")))))
	o, _ := drive(nothing, []string{";"}, false)
	require.Equal(t, Matched, o.Kind())
	_, present := o.Value()
	assert.False(t, present)
	assert.Equal(t, 1, o.Consumed())
}

func TestAltTriesCandidatesInOrder(t *testing.T) {
	a1 := lit(t, "a1")
	m := must[Matcher[string]](t)(Alt(a1, lit(t, "a2")))

	o, _ := drive(a1, []string{"a2"}, true)
	expectFailed(t, o, 0, "expected 'a1'")

	for _, chunks := range test.Splits("a2") {
		o, s := drive(m, chunks, true)
		expectMatched(t, o, "a2", 2)
		assert.Equal(t, 2, s.Offset())
		assert.Zero(t, s.Marks())
	}

	o, s := drive(m, []string{"a3"}, true)
	expectFailed(t, o, 0, "expected one of: 'a1', 'a2'")
	assert.Equal(t, 0, s.Offset())
	assert.Zero(t, s.Marks())
}

func TestAltDoesNotSkipIndeterminateCandidate(t *testing.T) {
	m := must[Matcher[string]](t)(Alt(lit(t, "abc"), lit(t, "ab"), lit(t, "x")))

	o, s := drive(m, []string{"ab"}, false)
	h := expectPending(t, o)
	assert.Equal(t, "'abc'", h.Expected())
	assert.Equal(t, 1, s.Marks())

	s.AppendEnd()
	expectMatched(t, h.Match(s), "ab", 2)
	assert.Zero(t, s.Marks())

	o, _ = drive(m, []string{"abd"}, false)
	expectMatched(t, o, "ab", 2)

	// "x" would fail at once, but "abc" is still undecided
	o, _ = drive(m, []string{"a"}, false)
	expectPending(t, o)
}

func TestAltFailureOffsetAfterPrefix(t *testing.T) {
	m := must[Matcher[[]string]](t)(All(lit(t, "k"), must[Matcher[string]](t)(Alt(lit(t, "1"), lit(t, "2")))))
	o, s := drive(m, []string{"k3"}, false)
	expectFailed(t, o, 1, "expected one of: '1', '2'")
	assert.Equal(t, 0, s.Offset())
}

func TestZeroOrMoreNeverFails(t *testing.T) {
	m := must[Matcher[[]string]](t)(ZeroOrMore(lit(t, "ab")))
	samples := []struct {
		input    string
		values   []string
		consumed int
	}{
		{"", nil, 0},
		{"x", nil, 0},
		{"a", nil, 0},
		{"ab", []string{"ab"}, 2},
		{"ababa", []string{"ab", "ab"}, 4},
		{"abababx", []string{"ab", "ab", "ab"}, 6},
	}

	for _, sample := range samples {
		for _, chunks := range test.Splits(sample.input) {
			o, s := drive(m, chunks, true)
			require.Equal(t, Matched, o.Kind(), "input %q split as %q", sample.input, chunks)
			v, _ := o.Value()
			if d := cmp.Diff(sample.values, v); d != "" {
				t.Errorf("input %q split as %q (-want +got):\n%s", sample.input, chunks, d)
			}
			assert.Equal(t, sample.consumed, o.Consumed())
			assert.Equal(t, sample.consumed, s.Offset())
			assert.Zero(t, s.Marks())
		}
	}
}

func TestOneOrMore(t *testing.T) {
	m := must[Matcher[[]string]](t)(OneOrMore(lit(t, "ab")))

	o, s := drive(m, []string{"abx"}, false)
	expectMatched(t, o, []string{"ab"}, 2)
	assert.Zero(t, s.Marks())

	o, s = drive(m, []string{"x"}, false)
	expectFailed(t, o, 0, "expected 'ab'")
	assert.Zero(t, s.Marks())

	o, s = drive(m, []string{"ab", "a"}, false)
	h := expectPending(t, o)
	s.AppendEnd()
	expectMatched(t, h.Match(s), []string{"ab"}, 2)
	assert.Equal(t, 2, s.Offset())
}

func TestRepetitionStopsOnEmptyMatch(t *testing.T) {
	m := must[Matcher[[]int]](t)(ZeroOrMore(Whitespace()))
	o, _ := drive(m, []string{"  x"}, false)
	expectMatched(t, o, []int{2, 0}, 2)
}

func TestRepetitionRestoresPartialElement(t *testing.T) {
	pair := must[Matcher[[]string]](t)(All(lit(t, "a"), lit(t, "b")))
	m := must[Matcher[[][]string]](t)(ZeroOrMore(pair))
	o, s := drive(m, []string{"aba", "c"}, false)
	expectMatched(t, o, [][]string{{"a", "b"}}, 2)
	assert.Equal(t, 2, s.Offset())
	assert.Zero(t, s.Marks())
}

func TestOptional(t *testing.T) {
	m := must[Matcher[string]](t)(Optional(lit(t, "abc")))
	assert.Equal(t, "'abc'", m.Expected())

	o, s := drive(m, []string{"ab"}, true)
	require.Equal(t, Matched, o.Kind())
	_, present := o.Value()
	assert.False(t, present)
	assert.Zero(t, o.Consumed())
	assert.Equal(t, 0, s.Offset())
	assert.Zero(t, s.Marks())

	o, s = drive(m, []string{"ab"}, false)
	h := expectPending(t, o)
	assert.Equal(t, 1, s.Marks())
	s.Append("c")
	expectMatched(t, h.Match(s), "abc", 3)
	assert.Zero(t, s.Marks())

	never := must[Matcher[[]string]](t)(All(lit(t, "a"), lit(t, "z")))
	opt := must[Matcher[[]string]](t)(Optional(never))
	seq, s := drive(opt, []string{"ab"}, true)
	require.Equal(t, Matched, seq.Kind())
	_, present = seq.Value()
	assert.False(t, present)
	assert.Equal(t, 0, s.Offset())
	assert.Zero(t, s.Marks())
}

func TestList(t *testing.T) {
	m := must[Matcher[[]string]](t)(List(lit(t, "+"), lit(t, "e1"), lit(t, ","), lit(t, ";")))
	assert.Equal(t, "'+'", m.Expected())

	for _, chunks := range test.Splits("+e1,e1,e1;") {
		o, s := drive(m, chunks, false)
		expectMatched(t, o, []string{"e1", "e1", "e1"}, 10)
		assert.Equal(t, 10, s.Offset())
		assert.Zero(t, s.Marks())
	}

	failures := []struct {
		input   string
		offset  int
		message string
	}{
		{"e1;", 0, "expected list prefix '+'"},
		{"+;", 1, "expected list element 'e1'"},
		{"+e1,;", 4, "expected list element 'e1'"},
		{"+e1,e1", 6, "expected list separator ',' or postfix ';'"},
		{"+e1 ;", 3, "expected list separator ',' or postfix ';'"},
		{"+", 1, "expected list element 'e1'"},
	}
	for _, f := range failures {
		for _, chunks := range test.Splits(f.input) {
			o, s := drive(m, chunks, true)
			expectFailed(t, o, f.offset, f.message)
			assert.Equal(t, 0, s.Offset())
			assert.Zero(t, s.Marks())
		}
	}
}

func TestListPendingInsideSeparator(t *testing.T) {
	m := must[Matcher[[]string]](t)(List(lit(t, "<"), lit(t, "x"), lit(t, "::"), lit(t, ">")))
	o, s := drive(m, []string{"<x:"}, false)
	h := expectPending(t, o)
	assert.Equal(t, "'::'", h.Expected())
	assert.Equal(t, 2, s.Marks())

	s.Append(":x>")
	expectMatched(t, h.Match(s), []string{"x", "x"}, 6)
	assert.Zero(t, s.Marks())
}

func TestListConstruction(t *testing.T) {
	x := lit(t, "x")
	samples := [][4]Matcher[string]{
		{nil, x, x, x},
		{x, nil, x, x},
		{x, x, nil, x},
		{x, x, x, nil},
	}
	for i, sample := range samples {
		t.Run(fmt.Sprintf("nil #%d", i), func(t *testing.T) {
			_, e := List(sample[0], sample[1], sample[2], sample[3])
			test.ExpectErrorCode(t, ErrInvalidArgument, e)
		})
	}
}

func TestConstructionErrors(t *testing.T) {
	x := lit(t, "x")
	errs := []error{}
	collect := func(_ any, e error) {
		errs = append(errs, e)
	}

	collect(All[string]())
	collect(All(x, nil))
	collect(First[string]())
	collect(Alt[string]())
	collect(Alt(nil, x))
	collect(ZeroOrMore[string](nil))
	collect(OneOrMore[string](nil))
	collect(Optional[string](nil))
	collect(Discard[string, string](nil))
	collect(Map[string, int](nil, func(string) int { return 0 }))
	collect(Map[string, int](x, nil))
	collect(OnMatch(x, nil))
	collect(OnMatchLine(x, nil))
	collect(OnMatch[string](nil, func(string) {}))
	collect(Trace[string]("x", nil))
	collect(nil, new(Ref[string]).Set(nil))

	for i, e := range errs {
		t.Run(fmt.Sprintf("case #%d", i), func(t *testing.T) {
			test.ExpectErrorCode(t, ErrInvalidArgument, e)
		})
	}

	assert.Panics(t, func() { Must(All[string]()) })
	assert.NotPanics(t, func() { Must(All(x)) })
}
