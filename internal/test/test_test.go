package test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ava12/chunkparse"
)

func TestChunks(t *testing.T) {
	samples := []struct {
		text     string
		size     int
		expected []string
	}{
		{"", 1, []string{""}},
		{"abc", 0, []string{"abc"}},
		{"abc", 5, []string{"abc"}},
		{"abcde", 2, []string{"ab", "cd", "e"}},
		{"абв", 1, []string{"а", "б", "в"}},
	}

	for _, s := range samples {
		if d := cmp.Diff(s.expected, Chunks(s.text, s.size)); d != "" {
			t.Errorf("Chunks(%q, %d) mismatch (-want +got):\n%s", s.text, s.size, d)
		}
	}
}

func TestSplitsPreserveText(t *testing.T) {
	text := "a,bc;"
	splits := Splits(text)
	assert.Len(t, splits, 4+len(text)-1)
	for _, chunks := range splits {
		joined := ""
		for _, c := range chunks {
			joined += c
		}
		assert.Equal(t, text, joined)
	}
}

func TestExpectations(t *testing.T) {
	ExpectErrorCode(t, chunkparse.MatchErrors, chunkparse.FormatError(chunkparse.MatchErrors, "x"))
	ExpectPanicCode(t, chunkparse.StreamErrors, func() {
		panic(chunkparse.FormatError(chunkparse.StreamErrors, "x"))
	})
}
