// Package report renders match failures for humans: a position header,
// the offending source line, and a caret under the failure column.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/stream"
)

// DefaultTabWidth is the tab width used by Render.
const DefaultTabWidth = 4

// Renderer renders errors. The zero Renderer uses DefaultTabWidth.
type Renderer struct {
	// TabWidth is the distance between tab stops in display columns.
	TabWidth int
}

// Render renders e using default settings, see Renderer.Render.
func Render(w io.Writer, s *stream.Stream, e error) error {
	return Renderer{}.Render(w, s, e)
}

// Render writes e to w.
// Positioned *chunkparse.Error is rendered as "name:line:col: message" followed by the source line
// and a caret if the line is still buffered in s. Other errors are rendered as a single line.
// s may be nil.
func (r Renderer) Render(w io.Writer, s *stream.Stream, e error) error {
	if e == nil {
		return nil
	}

	var ce *chunkparse.Error
	if !errors.As(e, &ce) || ce.Line == 0 {
		_, err := fmt.Fprintln(w, e.Error())
		return err
	}

	header := fmt.Sprintf("%d:%d: %s", ce.Line, ce.Col, ce.Reason())
	if ce.SourceName != "" {
		header = ce.SourceName + ":" + header
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	text, ok := r.lineText(s, ce.Line)
	if !ok {
		return nil
	}
	line, _ := r.expand(text)
	prefix := []rune(text)
	if ce.Col-1 < len(prefix) {
		prefix = prefix[:ce.Col-1]
	}
	_, indent := r.expand(string(prefix))
	_, err := fmt.Fprintf(w, "%s\n%s^\n", line, strings.Repeat(" ", indent))
	return err
}

func (r Renderer) lineText(s *stream.Stream, line int) (string, bool) {
	if s == nil {
		return "", false
	}
	start, ok := s.LineStart(line)
	if !ok {
		return "", false
	}
	return s.LineText(start)
}

// expand replaces tabs with spaces and returns the result with its display width.
func (r Renderer) expand(text string) (string, int) {
	tab := r.TabWidth
	if tab <= 0 {
		tab = DefaultTabWidth
	}

	var sb strings.Builder
	width := 0
	state := -1
	rest := text
	for rest != "" {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			n := tab - width%tab
			sb.WriteString(strings.Repeat(" ", n))
			width += n
			continue
		}
		sb.WriteString(cluster)
		width += w
	}
	return sb.String(), width
}
