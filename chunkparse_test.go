package chunkparse

import (
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type testPos struct {
	name      string
	line, col int
}

func (p testPos) SourceName() string { return p.name }
func (p testPos) Line() int          { return p.line }
func (p testPos) Col() int           { return p.col }

func TestErrorMessages(t *testing.T) {
	samples := []struct {
		err      *Error
		expected string
	}{
		{FormatError(MatchErrors, "plain"), "plain"},
		{FormatError(MatchErrors, "got %d", 3), "got 3"},
		{FormatErrorPos(testPos{"src", 2, 5}, MatchErrors, "bad"), "bad in src at line 2 col 5"},
		{FormatErrorPos(testPos{"", 1, 1}, MatchErrors, "bad"), "bad at line 1 col 1"},
		{NewError(MatchErrors, "no pos", "src", 0, 0), "no pos"},
	}

	for i, s := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			assert.Equal(t, s.expected, s.err.Error())
			assert.Equal(t, MatchErrors, s.err.Code)
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "bad", FormatErrorPos(testPos{"src", 2, 5}, MatchErrors, "bad").Reason())
	assert.Equal(t, "bad", FormatErrorPos(testPos{"", 2, 5}, MatchErrors, "bad").Reason())
	assert.Equal(t, "got 3", FormatError(MatchErrors, "got %d", 3).Reason())
}

func TestHasCode(t *testing.T) {
	e := FormatError(FeedErrors+1, "failed")
	assert.True(t, HasCode(e, FeedErrors+1))
	assert.False(t, HasCode(e, FeedErrors))
	assert.True(t, HasCode(pkgerrors.Wrap(e, "reading"), FeedErrors+1))
	assert.True(t, HasCode(fmt.Errorf("outer: %w", e), FeedErrors+1))
	assert.False(t, HasCode(fmt.Errorf("plain"), FeedErrors+1))
	assert.False(t, HasCode(nil, FeedErrors+1))
}
