package grammar

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/feed"
	"github.com/ava12/chunkparse/match"
)

func keyNotFoundError(c *Conf, key string) *chunkparse.Error {
	return chunkparse.NewError(ErrKeyNotFound, "key "+key+" not found", c.name, 0, 0)
}

func conversionError(c *Conf, key string, e error) *chunkparse.Error {
	return chunkparse.NewError(ErrConversion, "key "+key+": "+e.Error(), c.name, c.entries[key].line, 1)
}

type confEntry struct {
	value string
	line  int
}

// Conf collects entries of an INI-style configuration file:
//
//	# comment
//	; comment
//	top = value
//	[section]
//	key = value
//	quoted = "value with \"escapes\""
//
// Keys of section entries are prefixed with the section name and a dot, e.g. "section.key".
// A repeated key overrides the previous value.
type Conf struct {
	name     string
	section  string
	sections []string
	keys     []string
	entries  map[string]confEntry
}

// NewConf creates empty configuration, name is used in error messages.
func NewConf(name string) *Conf {
	return &Conf{name: name, entries: make(map[string]confEntry)}
}

func (c *Conf) enterSection(name string, _ int) {
	c.section = name
	if !slices.Contains(c.sections, name) {
		c.sections = append(c.sections, name)
	}
}

func (c *Conf) fullKey(key string) string {
	if c.section == "" {
		return key
	}
	return c.section + "." + key
}

func (c *Conf) set(kv [2]string, line int) {
	key := c.fullKey(kv[0])
	if _, found := c.entries[key]; !found {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = confEntry{kv[1], line}
}

func isKeyRune(r rune) bool {
	return isNameRune(r) || r == '-' || r == '.'
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		if v, e := strconv.Unquote(value); e == nil {
			return v
		}
	}
	return value
}

// ConfMatcher returns matcher filling c with entries. The value is the list of entry keys in order of appearance.
// Entries are added to c as soon as they are matched, so c contains entries preceding a syntax error.
func ConfMatcher(c *Conf) match.Matcher[[]string] {
	blanks := match.Must(match.Discard[string](match.Whitespace()))
	eol := match.Must(match.Label("end of line", match.Must(match.Alt(
		literal("\n"), literal("\r\n"), match.End[string](),
	))))
	comment := match.Must(match.Discard[string](match.Must(match.All(
		match.Must(match.Alt(literal("#"), literal(";"))),
		match.Must(match.While("comment", func(r rune) bool { return r != '\n' }, 0)),
	))))
	tail := match.Must(match.First(blanks, match.Must(match.Optional(comment)), match.Must(match.Discard[string](eol))))
	key := match.Must(match.While("key", isKeyRune, 1))

	header := match.Must(match.All(blanks, literal("["), blanks, key, blanks, literal("]"), tail))
	sectionName := match.Must(match.Map(header, func(v []string) string { return v[1] }))
	section := match.Must(match.Discard[string](match.Must(match.OnMatchLine(sectionName, c.enterSection))))

	value := match.Must(match.Map(match.Must(match.While("value", func(r rune) bool { return r != '\n' }, 0)), unquote))
	pair := match.Must(match.All(blanks, key, blanks, literal("="), blanks, value, match.Must(match.Discard[string](eol))))
	kv := match.Must(match.Map(pair, func(v []string) [2]string { return [2]string{v[0], v[2]} }))
	entry := match.Must(match.Map(match.Must(match.OnMatchLine(kv, c.set)), func(kv [2]string) string {
		return c.fullKey(kv[0])
	}))

	line := match.Must(match.Alt(section, entry, tail))
	lines := match.Must(match.ZeroOrMore(line))
	end := match.Must(match.Label("[section] or key = value", match.End[[]string]()))
	return match.Must(match.First(lines, end))
}

// ParseConf reads configuration from r.
// Returns configuration containing entries preceding the first syntax error if there is one.
func ParseConf(ctx context.Context, name string, r io.Reader, opts feed.Options) (*Conf, feed.Stats, error) {
	c := NewConf(name)
	opts.Name = name
	_, stats, e := feed.Read(ctx, r, ConfMatcher(c), opts)
	return c, stats, e
}

// Len returns the number of entries.
func (c *Conf) Len() int {
	return len(c.keys)
}

// Keys returns entry keys in order of first appearance.
func (c *Conf) Keys() []string {
	return slices.Clone(c.keys)
}

// Sections returns section names in order of first appearance.
func (c *Conf) Sections() []string {
	return slices.Clone(c.sections)
}

// Map returns all entries.
func (c *Conf) Map() map[string]string {
	result := make(map[string]string, len(c.entries))
	for k, e := range c.entries {
		result[k] = e.value
	}
	return result
}

// Line returns the line number of the last definition of key or 0.
func (c *Conf) Line(key string) int {
	return c.entries[key].line
}

// Get returns entry value.
func (c *Conf) Get(key string) (string, bool) {
	e, found := c.entries[key]
	return e.value, found
}

func (c *Conf) lookup(key string) (string, error) {
	e, found := c.entries[key]
	if !found {
		return "", keyNotFoundError(c, key)
	}
	return e.value, nil
}

// Int returns entry value converted to int.
func (c *Conf) Int(key string) (int, error) {
	v, e := c.lookup(key)
	if e != nil {
		return 0, e
	}
	res, e := cast.ToIntE(v)
	if e != nil {
		return 0, conversionError(c, key, e)
	}
	return res, nil
}

// Float returns entry value converted to float64.
func (c *Conf) Float(key string) (float64, error) {
	v, e := c.lookup(key)
	if e != nil {
		return 0, e
	}
	res, e := cast.ToFloat64E(v)
	if e != nil {
		return 0, conversionError(c, key, e)
	}
	return res, nil
}

// Bool returns entry value converted to bool: 1, t, true, 0, f, false (case-insensitive) etc.
func (c *Conf) Bool(key string) (bool, error) {
	v, e := c.lookup(key)
	if e != nil {
		return false, e
	}
	res, e := cast.ToBoolE(v)
	if e != nil {
		return false, conversionError(c, key, e)
	}
	return res, nil
}

// Duration returns entry value converted to time.Duration, e.g. 1m30s.
func (c *Conf) Duration(key string) (time.Duration, error) {
	v, e := c.lookup(key)
	if e != nil {
		return 0, e
	}
	res, e := cast.ToDurationE(v)
	if e != nil {
		return 0, conversionError(c, key, e)
	}
	return res, nil
}
