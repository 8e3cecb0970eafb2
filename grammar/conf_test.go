package grammar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/chunkparse/feed"
	"github.com/ava12/chunkparse/internal/test"
	"github.com/ava12/chunkparse/match"
	"github.com/ava12/chunkparse/stream"
)

const confSample = `# service settings
name = chunkmatch
debug=yes

[server]
  port = 8080
timeout = 1m30s ; not a comment
; comment line
	ratio = 0.75

[ client ]
greeting = "hello, \"world\""
enabled = true
[server]
port = 9090
`

func TestConf(t *testing.T) {
	c, _, e := ParseConf(context.Background(), "app.ini", strings.NewReader(confSample), feed.Options{ChunkSize: 5})
	require.NoError(t, e)

	expectedKeys := []string{"name", "debug", "server.port", "server.timeout", "server.ratio", "client.greeting", "client.enabled"}
	if d := cmp.Diff(expectedKeys, c.Keys()); d != "" {
		t.Errorf("keys (-expected +got):\n%s", d)
	}
	assert.Equal(t, []string{"server", "client"}, c.Sections())
	assert.Equal(t, 7, c.Len())

	v, found := c.Get("client.greeting")
	assert.True(t, found)
	assert.Equal(t, `hello, "world"`, v)
	v, _ = c.Get("server.timeout")
	assert.Equal(t, "1m30s ; not a comment", v)

	port, e := c.Int("server.port")
	require.NoError(t, e)
	assert.Equal(t, 9090, port)
	assert.Equal(t, 15, c.Line("server.port"))

	ratio, e := c.Float("server.ratio")
	require.NoError(t, e)
	assert.Equal(t, 0.75, ratio)

	enabled, e := c.Bool("client.enabled")
	require.NoError(t, e)
	assert.True(t, enabled)

	_, e = c.Bool("debug")
	test.ExpectErrorCode(t, ErrConversion, e)
	assert.Contains(t, e.Error(), "in app.ini at line 3 col 1")

	_, e = c.Duration("server.timeout")
	test.ExpectErrorCode(t, ErrConversion, e)
	_, e = c.Int("missing")
	test.ExpectErrorCode(t, ErrKeyNotFound, e)

	m := c.Map()
	assert.Equal(t, "chunkmatch", m["name"])
	assert.Len(t, m, 7)
}

func TestConfDuration(t *testing.T) {
	c := NewConf("")
	keys, e := match.Parse(ConfMatcher(c), "", "wait = 1m30s\r\n")
	require.NoError(t, e)
	assert.Equal(t, []string{"wait"}, keys)
	d, e := c.Duration("wait")
	require.NoError(t, e)
	assert.Equal(t, 90*time.Second, d)
}

// driveChunks appends chunks one by one resuming m, then signals the end of input.
func driveChunks[T any](t *testing.T, m match.Matcher[T], chunks []string) T {
	t.Helper()
	s := stream.New("")
	active := m
	for _, chunk := range chunks {
		s.Append(chunk)
		o := active.Match(s)
		if o.Kind() != match.Indeterminate {
			require.Equal(t, match.Matched, o.Kind(), "outcome %s", o)
			v, _ := o.Value()
			return v
		}
		active = o.Resume()
	}
	s.AppendEnd()
	v, e := match.Finish(active, s)
	require.NoError(t, e)
	return v
}

func TestConfFragmentation(t *testing.T) {
	input := "a = 1\n[s]\n b=2 \n#x\n\nc = \"3\""
	for _, chunks := range test.Splits(input) {
		c := NewConf("")
		keys := driveChunks(t, ConfMatcher(c), chunks)
		assert.Equal(t, []string{"a", "s.b", "s.c"}, keys, "split as %q", chunks)
		assert.Equal(t, map[string]string{"a": "1", "s.b": "2", "s.c": "3"}, c.Map(), "split as %q", chunks)
		assert.Equal(t, 6, c.Line("s.c"))
	}
}

func TestConfErrors(t *testing.T) {
	samples := []struct {
		input, message string
		keys           []string
	}{
		{"a = 1\noops\n", "expected [section] or key = value in conf at line 2 col 1", []string{"a"}},
		{"[s\nb = 2", "expected [section] or key = value in conf at line 1 col 1", nil},
		{"a = 1\n[s] x", "expected [section] or key = value in conf at line 2 col 1", []string{"a"}},
	}

	for _, s := range samples {
		c := NewConf("conf")
		_, e := match.Parse(ConfMatcher(c), "conf", s.input)
		test.ExpectErrorCode(t, match.ErrNoMatch, e)
		assert.Equal(t, s.message, e.Error())
		assert.Equal(t, s.keys, c.Keys())
	}
}

func TestWords(t *testing.T) {
	m, e := Words("[", ",", "]")
	require.NoError(t, e)
	for _, chunks := range test.Splits(" [ one,two ,\nthree_3 ]") {
		keys := driveChunks(t, m, chunks)
		assert.Equal(t, []string{"one", "two", "three_3"}, keys, "split as %q", chunks)
	}

	_, e = match.Parse(m, "words", "[one two]")
	test.ExpectErrorCode(t, match.ErrNoMatch, e)
	assert.Equal(t, "expected list separator ',' or postfix ']' in words at line 1 col 6", e.Error())

	_, e = Words("", ",", "]")
	test.ExpectErrorCode(t, match.ErrInvalidArgument, e)
}
