package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/chunkparse/match"
	"github.com/ava12/chunkparse/stream"
)

func render(t *testing.T, r Renderer, s *stream.Stream, e error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, s, e))
	return buf.String()
}

func failure(t *testing.T, name, text string, m match.Matcher[[]string]) (*stream.Stream, error) {
	t.Helper()
	s := stream.New(name)
	s.Append(text)
	s.AppendEnd()
	_, e := match.Finish(m, s)
	require.Error(t, e)
	return s, e
}

func TestRenderCaret(t *testing.T) {
	key := match.Must(match.Literal("key"))
	eq := match.Must(match.Literal("="))
	value := match.Must(match.Literal("value"))
	ws := match.Must(match.Discard[string](match.Whitespace()))
	m := match.Must(match.All(ws, key, ws, eq, ws, value))

	samples := []struct {
		name, text, expected string
	}{
		{"plain", "key = valu", "plain:1:7: expected 'value'\nkey = valu\n      ^\n"},
		{"tabs", "\tkey\t= x", "tabs:1:8: expected 'value'\n    key = x\n          ^\n"},
		{"wide", "key=ключ", "wide:1:5: expected 'value'\nkey=ключ\n    ^\n"},
		{"", "key:", "1:4: expected '='\nkey:\n   ^\n"},
	}

	for _, sample := range samples {
		t.Run(sample.name, func(t *testing.T) {
			s, e := failure(t, sample.name, sample.text, m)
			assert.Equal(t, sample.expected, render(t, Renderer{}, s, e))
		})
	}
}

func TestRenderWideRunes(t *testing.T) {
	m := match.Must(match.All(match.Must(match.Literal("日本")), match.Must(match.Literal("!"))))
	s, e := failure(t, "cjk", "日本?", m)
	assert.Equal(t, "cjk:1:3: expected '!'\n日本?\n    ^\n", render(t, Renderer{}, s, e))
}

func TestRenderLaterLine(t *testing.T) {
	line := match.Must(match.Literal("ok\n"))
	m := match.Must(match.All(line, line, match.Must(match.Literal("end"))))
	s, e := failure(t, "lines", "ok\nok\n\tEND\r\n", m)
	assert.Equal(t, "lines:3:1: expected 'end'\n        END\n^\n", render(t, Renderer{TabWidth: 8}, s, e))
}

func TestRenderWithoutSource(t *testing.T) {
	m := match.Must(match.All(match.Must(match.Literal("a"))))
	_, e := failure(t, "src", "b", m)
	assert.Equal(t, "src:1:1: expected 'a'\n", render(t, Renderer{}, nil, e))

	assert.Equal(t, "reading: boom\n", render(t, Renderer{}, nil, errors.Wrap(errors.New("boom"), "reading")))
	assert.Empty(t, render(t, Renderer{}, nil, nil))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, errors.New("plain")))
	assert.Equal(t, "plain", strings.TrimSpace(buf.String()))
}
