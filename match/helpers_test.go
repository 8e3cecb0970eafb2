package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/chunkparse/stream"
)

// drive appends chunks one by one resuming the active matcher after each of them.
// If end is set, the end of input is signaled after the last chunk.
func drive[T any](m Matcher[T], chunks []string, end bool) (Outcome[T], *stream.Stream) {
	s := stream.New("test")
	active := m
	var o Outcome[T]
	for _, c := range chunks {
		s.Append(c)
		o = active.Match(s)
		if o.Kind() != Indeterminate {
			return o, s
		}
		active = o.Resume()
	}
	if end {
		s.AppendEnd()
		o = active.Match(s)
	}
	return o, s
}

func lit(t testing.TB, text string) Matcher[string] {
	t.Helper()
	m, e := Literal(text)
	require.NoError(t, e)
	return m
}

func must[T any](t testing.TB) func(m T, e error) T {
	return func(m T, e error) T {
		t.Helper()
		require.NoError(t, e)
		return m
	}
}

func expectMatched[T any](t testing.TB, o Outcome[T], value T, consumed int) {
	t.Helper()
	require.Equal(t, Matched, o.Kind(), "outcome: %s", o)
	v, present := o.Value()
	require.True(t, present, "outcome: %s", o)
	require.Equal(t, value, v)
	require.Equal(t, consumed, o.Consumed())
	require.Nil(t, o.Resume())
}

func expectFailed[T any](t testing.TB, o Outcome[T], offset int, message string) {
	t.Helper()
	require.Equal(t, Failed, o.Kind(), "outcome: %s", o)
	require.Equal(t, offset, o.Offset())
	require.Equal(t, message, o.Message())
	require.Nil(t, o.Resume())
	_, present := o.Value()
	require.False(t, present)
}

func expectPending[T any](t testing.TB, o Outcome[T]) Matcher[T] {
	t.Helper()
	require.Equal(t, Indeterminate, o.Kind(), "outcome: %s", o)
	require.NotNil(t, o.Resume())
	require.Empty(t, o.Message())
	_, present := o.Value()
	require.False(t, present)
	return o.Resume()
}
