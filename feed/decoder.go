// Package feed drives matchers over text arriving in chunks.
//
// Decoder matches a sequence of units (statements, records, entries) and queues their values
// as soon as each unit is complete. Read matches a single value taken from an io.Reader.
package feed

import (
	"github.com/tliron/commonlog"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/internal/queue"
	"github.com/ava12/chunkparse/match"
	"github.com/ava12/chunkparse/stream"
)

// Error codes used by feed:
const (
	// ErrIncomplete indicates that the input ended in the middle of a unit.
	ErrIncomplete = chunkparse.FeedErrors + iota

	// ErrStalled indicates that the root matcher matched empty text while more input is available.
	ErrStalled

	// ErrClosed indicates an attempt to write to a closed decoder.
	ErrClosed
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("chunkparse.feed")
}

// Decoder matches consecutive units of input with the same root matcher.
// After each matched unit the root matcher is restarted at the cursor.
// Present unit values are queued until fetched with Next.
type Decoder[T any] struct {
	s      *stream.Stream
	root   match.Matcher[T]
	active match.Matcher[T]
	values queue.Queue[T]
	units  int
	err    error
}

// NewDecoder creates decoder reading units from s with m.
func NewDecoder[T any](s *stream.Stream, m match.Matcher[T]) *Decoder[T] {
	return &Decoder[T]{s: s, root: m}
}

// Stream returns the stream the decoder reads.
func (d *Decoder[T]) Stream() *stream.Stream {
	return d.s
}

// Write appends text and matches as many units as possible.
// Returns *chunkparse.Error with match.ErrNoMatch code if a unit fails,
// the decoder returns the same error for all subsequent calls.
func (d *Decoder[T]) Write(text string) error {
	if d.err != nil {
		return d.err
	}
	if d.s.Ended() {
		return chunkparse.FormatErrorPos(d.s.Position(), ErrClosed, "decoder is closed")
	}

	d.s.Append(text)
	return d.advance()
}

// WriteRunes is like Write, but takes decoded runes.
func (d *Decoder[T]) WriteRunes(text []rune) error {
	if d.err != nil {
		return d.err
	}
	if d.s.Ended() {
		return chunkparse.FormatErrorPos(d.s.Position(), ErrClosed, "decoder is closed")
	}

	d.s.AppendRunes(text)
	return d.advance()
}

// Close signals the end of input and matches remaining units.
// Returns ErrIncomplete error if the input ends in the middle of a unit.
func (d *Decoder[T]) Close() error {
	if d.err != nil {
		return d.err
	}

	d.s.AppendEnd()
	if e := d.advance(); e != nil {
		return e
	}
	if d.active != nil {
		d.err = chunkparse.FormatErrorPos(d.s.Position(), ErrIncomplete, "unexpected end of input, expected %s", d.active.Expected())
	}
	return d.err
}

// Next returns the oldest queued unit value. Returns false if there are no queued values.
func (d *Decoder[T]) Next() (T, bool) {
	return d.values.Shift()
}

// Len returns the number of queued values.
func (d *Decoder[T]) Len() int {
	return d.values.Len()
}

// Units returns the number of matched units including the ones with absent values.
func (d *Decoder[T]) Units() int {
	return d.units
}

// Pending tells whether a unit is started but not finished yet.
func (d *Decoder[T]) Pending() bool {
	return d.active != nil
}

func (d *Decoder[T]) advance() error {
	for {
		m := d.active
		if m == nil {
			if d.s.Available() == 0 {
				return nil
			}
			m = d.root
		}

		o := m.Match(d.s)
		switch o.Kind() {
		case match.Matched:
			d.active = nil
			d.units++
			if v, present := o.Value(); present {
				d.values.Push(v)
			}
			if o.Consumed() == 0 {
				if d.s.Ended() && d.s.Available() == 0 {
					return nil
				}
				d.err = chunkparse.FormatErrorPos(d.s.Position(), ErrStalled, "%s matched empty text", d.root.Expected())
				return d.err
			}
			logger().Debugf("%s: unit %d ends at %s", d.s.Name(), d.units, d.s.Position())
			continue

		case match.Failed:
			d.active = nil
			d.err = o.Err(d.s)
			return d.err

		case match.Indeterminate:
			d.active = o.Resume()
			return nil
		}
		panic(chunkparse.FormatError(match.ErrUnknownOutcome, "unknown outcome kind %d", int(o.Kind())))
	}
}
