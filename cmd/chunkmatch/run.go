package main

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/chunkparse/feed"
	"github.com/ava12/chunkparse/grammar"
	"github.com/ava12/chunkparse/stream"
)

// result is the outcome of matching a single file.
type result struct {
	File  string `yaml:"file" json:"file"`
	Bytes string `yaml:"bytes" json:"bytes"`
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
	Error string `yaml:"error,omitempty" json:"error,omitempty"`

	size   uint64
	stream *stream.Stream
	err    error
}

// matchFunc matches the content of r appending it to s.
type matchFunc func(ctx context.Context, s *stream.Stream, r io.Reader, opts feed.Options) (any, feed.Stats, error)

func matchConf(ctx context.Context, s *stream.Stream, r io.Reader, opts feed.Options) (any, feed.Stats, error) {
	c := grammar.NewConf(s.Name())
	_, stats, err := feed.ReadStream(ctx, s, r, grammar.ConfMatcher(c), opts)
	return c.Map(), stats, err
}

func matchCalc(ctx context.Context, s *stream.Stream, r io.Reader, opts feed.Options) (any, feed.Stats, error) {
	d := feed.NewDecoder(s, grammar.Statement())
	stats, err := d.ReadFrom(ctx, r, opts)

	calc := grammar.NewCalculator()
	results := []number{}
	for st, ok := d.Next(); ok; st, ok = d.Next() {
		v, e := calc.Exec(st)
		if e != nil {
			if err == nil {
				err = e
			}
			break
		}
		results = append(results, number(v))
	}
	return results, stats, err
}

// number is a calculator result. JSON has no infinities and NaN, they are encoded as strings.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

func matchWords(prefix, separator, postfix string) (matchFunc, error) {
	m, err := grammar.Words(prefix, separator, postfix)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, s *stream.Stream, r io.Reader, opts feed.Options) (any, feed.Stats, error) {
		v, stats, err := feed.ReadStream(ctx, s, r, m, opts)
		return v, stats, err
	}, nil
}

func selectGrammar(conf *viper.Viper) (matchFunc, error) {
	switch name := conf.GetString(grammarFlag); name {
	case "conf":
		return matchConf, nil
	case "calc":
		return matchCalc, nil
	case "words":
		return matchWords(conf.GetString(prefixFlag), conf.GetString(separatorFlag), conf.GetString(postfixFlag))
	default:
		return nil, errors.Errorf("unknown grammar %q", name)
	}
}

// expandGlobs returns sorted unique names of files matching patterns.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %q", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func matchFile(ctx context.Context, name string, fn matchFunc, opts feed.Options) *result {
	res := &result{File: name, stream: stream.New(name)}
	f, err := os.Open(name)
	if err != nil {
		res.err = errors.WithStack(err)
		return res
	}
	defer f.Close()

	var stats feed.Stats
	res.Value, stats, res.err = fn(ctx, res.stream, f, opts)
	res.size = uint64(stats.Bytes)
	return res
}

// matchFiles matches files concurrently. Results are in the order of files.
// Match failures are reported in results, the returned error is reserved for cancellation.
func matchFiles(ctx context.Context, files []string, fn matchFunc, conf *viper.Viper) ([]*result, error) {
	log := commonlog.GetLogger("chunkmatch")
	opts := feed.Options{ChunkSize: conf.GetInt(chunkSizeFlag)}
	results := make([]*result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, conf.GetInt(jobsFlag)))
	for i, name := range files {
		g.Go(func() error {
			log.Debugf("matching %s", name)
			res := matchFile(ctx, name, fn, opts)
			results[i] = res
			if res.err != nil {
				log.Infof("%s: %s", name, res.err)
			}
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
