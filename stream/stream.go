// Package stream defines append-only rune stream consumed by matchers.
package stream

import (
	"fmt"
	"slices"

	"github.com/tidwall/btree"

	"github.com/ava12/chunkparse"
)

// Error codes used by stream. All of them indicate misuse of the stream by its driver,
// corresponding *chunkparse.Error values are raised as panics.
const (
	// ErrAppendAfterEnd indicates an attempt to append text after AppendEnd was called.
	ErrAppendAfterEnd = chunkparse.StreamErrors + iota

	// ErrNoMark indicates ResetToMark or DiscardMark call with empty mark stack.
	ErrNoMark

	// ErrOverrun indicates an attempt to consume more runes than are buffered.
	ErrOverrun
)

// compactThreshold is the minimal size of consumed prefix that Append may compact.
const compactThreshold = 4096

// Stream is an append-only rune buffer with a read cursor.
//
// Text is appended by the driver as it arrives, AppendEnd tells that no more text will ever arrive.
// Matchers advance the cursor only after committing to a match.
// Marks form a stack of saved cursor positions used to roll back bounded lookahead.
// Runes before the cursor and before the lowest mark may be discarded by Compact.
//
// All offsets are absolute rune offsets counted from the start of input,
// they stay valid after compaction.
//
// Stream is not safe for concurrent use.
type Stream struct {
	name      string
	buf       []rune
	base      int
	cursor    int
	ended     bool
	marks     []int
	lines     btree.Map[int, int]
	lineCount int
}

// New creates empty stream. name is used in error messages, it may be empty.
func New(name string) *Stream {
	s := &Stream{name: name, lineCount: 1}
	s.lines.Set(0, 1)
	return s
}

// Name returns stream name.
func (s *Stream) Name() string {
	return s.name
}

// Append appends text to the end of buffer and returns the stream itself.
// Panics with ErrAppendAfterEnd if AppendEnd was called before.
func (s *Stream) Append(text string) *Stream {
	return s.AppendRunes([]rune(text))
}

// AppendRunes appends runes to the end of buffer and returns the stream itself.
// Panics with ErrAppendAfterEnd if AppendEnd was called before.
func (s *Stream) AppendRunes(text []rune) *Stream {
	if s.ended {
		panic(chunkparse.FormatError(ErrAppendAfterEnd, "cannot append to %s after end of input", s.displayName()))
	}
	if len(text) == 0 {
		return s
	}

	s.compactIfWasteful()
	end := s.End()
	for i, r := range text {
		if r == '\n' {
			s.lineCount++
			s.lines.Set(end+i+1, s.lineCount)
		}
	}
	s.buf = append(s.buf, text...)
	return s
}

// AppendEnd tells that no more text will be appended. Repeated calls do nothing.
func (s *Stream) AppendEnd() {
	s.ended = true
}

// Ended tells whether AppendEnd was called.
func (s *Stream) Ended() bool {
	return s.ended
}

// Exhausted tells whether all buffered runes are consumed and no more runes will arrive.
func (s *Stream) Exhausted() bool {
	return s.ended && s.cursor >= len(s.buf)
}

// Offset returns absolute cursor offset.
func (s *Stream) Offset() int {
	return s.base + s.cursor
}

// End returns absolute offset of the end of buffered text.
func (s *Stream) End() int {
	return s.base + len(s.buf)
}

// Available returns the number of buffered runes at or after the cursor.
func (s *Stream) Available() int {
	return len(s.buf) - s.cursor
}

// RuneAt returns buffered rune at i-th position after the cursor (0 is the rune at cursor).
// Returns false if the rune is not buffered yet.
func (s *Stream) RuneAt(i int) (rune, bool) {
	i += s.cursor
	if i < s.cursor || i >= len(s.buf) {
		return 0, false
	}
	return s.buf[i], true
}

// Peek returns up to n buffered runes starting at the cursor.
// The result shares memory with the buffer and is valid until the next Append or Compact call.
func (s *Stream) Peek(n int) []rune {
	if n <= 0 {
		return nil
	}
	end := min(s.cursor+n, len(s.buf))
	return slices.Clip(s.buf[s.cursor:end])
}

// Consume advances the cursor by n runes.
// Must be called only for runes already accepted by a matcher.
// Panics with ErrOverrun if n is negative or exceeds the number of available runes.
func (s *Stream) Consume(n int) {
	if n < 0 || n > s.Available() {
		panic(chunkparse.FormatError(ErrOverrun, "cannot consume %d runes of %s, %d available", n, s.displayName(), s.Available()))
	}
	s.cursor += n
}

// Mark pushes current cursor position to the mark stack.
func (s *Stream) Mark() {
	s.marks = append(s.marks, s.Offset())
}

// ResetToMark moves the cursor to the position saved by the last Mark call.
// The mark stays on the stack.
// Panics with ErrNoMark if the stack is empty.
func (s *Stream) ResetToMark() {
	s.cursor = s.topMark("reset") - s.base
}

// DiscardMark removes the last saved position from the mark stack without moving the cursor.
// Panics with ErrNoMark if the stack is empty.
func (s *Stream) DiscardMark() {
	s.topMark("discard")
	s.marks = s.marks[:len(s.marks)-1]
}

// Marks returns the depth of the mark stack.
func (s *Stream) Marks() int {
	return len(s.marks)
}

func (s *Stream) topMark(op string) int {
	if len(s.marks) == 0 {
		panic(chunkparse.FormatError(ErrNoMark, "cannot %s mark of %s: no marks", op, s.displayName()))
	}
	return s.marks[len(s.marks)-1]
}

// Compact discards buffered runes preceding both the cursor and the lowest mark.
func (s *Stream) Compact() {
	keep := s.cursor
	if len(s.marks) > 0 {
		// marks never decrease from bottom to top, the first one is the lowest
		keep = min(keep, s.marks[0]-s.base)
	}
	if keep <= 0 {
		return
	}

	live := len(s.buf) - keep
	if cap(s.buf) > compactThreshold && live < cap(s.buf)>>2 {
		buf := make([]rune, live, live<<1)
		copy(buf, s.buf[keep:])
		s.buf = buf
	} else {
		copy(s.buf, s.buf[keep:])
		s.buf = s.buf[:live]
	}
	s.base += keep
	s.cursor -= keep
	s.dropLines()
}

func (s *Stream) compactIfWasteful() {
	dead := s.cursor
	if len(s.marks) > 0 {
		dead = min(dead, s.marks[0]-s.base)
	}
	if dead >= compactThreshold && dead<<1 >= len(s.buf) {
		s.Compact()
	}
}

func (s *Stream) dropLines() {
	floor, _ := s.lineStart(s.base)
	for {
		k, _, ok := s.lines.Min()
		if !ok || k >= floor {
			return
		}
		s.lines.Delete(k)
	}
}

func (s *Stream) lineStart(offset int) (start, line int) {
	start = -1
	s.lines.Descend(offset, func(k, v int) bool {
		start, line = k, v
		return false
	})
	if start < 0 {
		start, line, _ = s.lines.Min()
	}
	return
}

// LineCol returns 1-based line and column numbers for absolute offset.
// Offsets outside of known text are clamped.
func (s *Stream) LineCol(offset int) (line, col int) {
	offset = max(0, min(offset, s.End()))
	start, line := s.lineStart(offset)
	if offset < start {
		offset = start
	}
	return line, offset - start + 1
}

// LineText returns buffered text of the line containing absolute offset, without line terminator.
// Returns false if the start of the line is already compacted.
// The line may be incomplete if its end is not buffered yet.
func (s *Stream) LineText(offset int) (string, bool) {
	offset = max(0, min(offset, s.End()))
	start, _ := s.lineStart(offset)
	if start < s.base || offset < start {
		return "", false
	}

	i := start - s.base
	j := i
	for j < len(s.buf) && s.buf[j] != '\n' {
		j++
	}
	if j > i && s.buf[j-1] == '\r' {
		j--
	}
	return string(s.buf[i:j]), true
}

// LineStart returns absolute offset of the start of 1-based line.
// Returns false if the line is not buffered yet or its start is already compacted.
func (s *Stream) LineStart(line int) (int, bool) {
	start, found := 0, false
	s.lines.Scan(func(k, v int) bool {
		if v == line {
			start, found = k, true
		}
		return v < line
	})
	return start, found && start >= s.base
}

// Position returns cursor position.
func (s *Stream) Position() Pos {
	return s.PosAt(s.Offset())
}

// PosAt returns position for absolute offset.
func (s *Stream) PosAt(offset int) Pos {
	line, col := s.LineCol(offset)
	return Pos{s.name, offset, line, col}
}

func (s *Stream) displayName() string {
	if s.name == "" {
		return "stream"
	}
	return fmt.Sprintf("stream %q", s.name)
}

// Pos is a position in a stream; it implements chunkparse.SourcePos.
type Pos struct {
	name              string
	offset, line, col int
}

// SourceName returns stream name.
func (p Pos) SourceName() string {
	return p.name
}

// Offset returns absolute rune offset.
func (p Pos) Offset() int {
	return p.offset
}

// Line returns 1-based line number.
func (p Pos) Line() int {
	return p.line
}

// Col returns 1-based column number counted in runes.
func (p Pos) Col() int {
	return p.col
}

func (p Pos) String() string {
	if p.name == "" {
		return fmt.Sprintf("%d:%d", p.line, p.col)
	}
	return fmt.Sprintf("%s:%d:%d", p.name, p.line, p.col)
}
