package feed

import (
	"context"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/match"
	"github.com/ava12/chunkparse/stream"
)

// DefaultChunkSize is the number of bytes requested from a reader at once unless Options say otherwise.
const DefaultChunkSize = 4096

// Options control reading.
type Options struct {
	// Name is the source name used in error messages.
	Name string

	// ChunkSize is the number of bytes requested from the reader at once, DefaultChunkSize if not positive.
	ChunkSize int
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// runeReader reads bytes in chunks and decodes them to runes.
// An incomplete UTF-8 sequence at the end of a chunk is carried over to the next one,
// invalid sequences are decoded as utf8.RuneError.
type runeReader struct {
	r     io.Reader
	buf   []byte
	carry []byte
	name  string
	bytes int
	reads int
	runes int
	eof   bool
}

func newRuneReader(r io.Reader, opts Options) *runeReader {
	return &runeReader{r: r, buf: make([]byte, opts.chunkSize()), name: opts.Name}
}

// next returns decoded runes of the next chunk, the result may be empty.
// eof is set after the reader is exhausted, any carried bytes are returned at that moment.
func (rr *runeReader) next(ctx context.Context) ([]rune, error) {
	if e := ctx.Err(); e != nil {
		return nil, errors.Wrapf(e, "reading %s", rr.displayName())
	}

	n, e := rr.r.Read(rr.buf)
	rr.reads++
	rr.bytes += n
	if e == io.EOF {
		rr.eof = true
		e = nil
	}

	data := append(rr.carry, rr.buf[:n]...)
	runes := make([]rune, 0, len(data))
	for len(data) > 0 {
		if !rr.eof && !utf8.FullRune(data) {
			break
		}
		r, size := utf8.DecodeRune(data)
		runes = append(runes, r)
		data = data[size:]
	}
	rr.carry = append(rr.carry[:0:0], data...)
	rr.runes += len(runes)

	if e != nil {
		return runes, errors.Wrapf(e, "reading %s", rr.displayName())
	}
	logger().Debugf("%s: read %d bytes, %d runes decoded, %d bytes carried", rr.displayName(), n, len(runes), len(rr.carry))
	return runes, nil
}

func (rr *runeReader) displayName() string {
	if rr.name == "" {
		return "input"
	}
	return rr.name
}

// Stats describe consumed input.
type Stats struct {
	Bytes int
	Reads int
	Runes int
}

// Read matches the content of r with m and returns the matched value.
// The content is read in chunks and the matcher is resumed after each of them.
// Reading stops as soon as the outcome is determined, the rest of the content is not read.
// Returns *chunkparse.Error with match.ErrNoMatch code if m fails,
// wrapped I/O or context errors otherwise.
func Read[T any](ctx context.Context, r io.Reader, m match.Matcher[T], opts Options) (T, Stats, error) {
	return ReadStream(ctx, stream.New(opts.Name), r, m, opts)
}

// ReadStream is like Read, but appends the content to s, so that the caller may inspect s afterwards.
// s must not be ended. opts.Name defaults to the stream name.
func ReadStream[T any](ctx context.Context, s *stream.Stream, r io.Reader, m match.Matcher[T], opts Options) (T, Stats, error) {
	var zero T
	if opts.Name == "" {
		opts.Name = s.Name()
	}
	rr := newRuneReader(r, opts)
	active := m

	for {
		runes, e := rr.next(ctx)
		if len(runes) > 0 {
			s.AppendRunes(runes)
		}
		if e != nil {
			return zero, rr.stats(), e
		}
		if rr.eof {
			s.AppendEnd()
		}

		o := active.Match(s)
		switch o.Kind() {
		case match.Matched:
			v, _ := o.Value()
			return v, rr.stats(), nil
		case match.Failed:
			return zero, rr.stats(), o.Err(s)
		case match.Indeterminate:
			if rr.eof {
				return zero, rr.stats(), chunkparse.FormatErrorPos(s.Position(), match.ErrIncomplete, "matcher %s is still indeterminate", active.Expected())
			}
			active = o.Resume()
			continue
		}
		panic(chunkparse.FormatError(match.ErrUnknownOutcome, "unknown outcome kind %d", int(o.Kind())))
	}
}

// ReadFrom reads the content of r into the decoder and closes it.
// Decoded unit values are available with Next as soon as ReadFrom returns, even if it returns an error.
func (d *Decoder[T]) ReadFrom(ctx context.Context, r io.Reader, opts Options) (Stats, error) {
	if opts.Name == "" {
		opts.Name = d.s.Name()
	}
	rr := newRuneReader(r, opts)
	for !rr.eof {
		runes, e := rr.next(ctx)
		if len(runes) > 0 {
			if we := d.WriteRunes(runes); we != nil {
				return rr.stats(), we
			}
		}
		if e != nil {
			return rr.stats(), e
		}
	}
	return rr.stats(), d.Close()
}

func (rr *runeReader) stats() Stats {
	return Stats{Bytes: rr.bytes, Reads: rr.reads, Runes: rr.runes}
}
