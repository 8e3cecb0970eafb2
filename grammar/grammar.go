// Package grammar contains stock grammars built with match:
// INI-style configuration files (Conf), a line calculator (Calculator), and delimited word lists (Words).
//
// The grammars are incremental like any other matcher: they may be fed with input of any chunk size.
package grammar

import (
	"strings"
	"unicode"

	"github.com/ava12/chunkparse"
	"github.com/ava12/chunkparse/match"
)

// Error codes used by grammar:
const (
	// ErrUnknownVar indicates a reference to undefined calculator variable.
	ErrUnknownVar = chunkparse.GrammarErrors + iota

	// ErrUnknownFunc indicates a call of undefined calculator function.
	ErrUnknownFunc

	// ErrArgCount indicates a function call with wrong number of arguments.
	ErrArgCount

	// ErrArgDefined indicates a function definition with repeated parameter names.
	ErrArgDefined

	// ErrCallDepth indicates too deep recursion of function calls.
	ErrCallDepth

	// ErrKeyNotFound indicates a request for missing configuration key.
	ErrKeyNotFound

	// ErrConversion indicates a configuration value that cannot be converted to requested type.
	ErrConversion
)

func literal(text string) match.Matcher[string] {
	return match.Must(match.Literal(text))
}

// token creates matcher accepting m followed by optional whitespace.
// Line breaks are skipped too if nl is set.
func token[T any](m match.Matcher[T], nl bool) match.Matcher[T] {
	var ws match.Matcher[T]
	if nl {
		ws = match.Must(match.Discard[T](match.WhitespaceNL()))
	} else {
		ws = match.Must(match.Discard[T](match.Whitespace()))
	}
	return match.Must(match.First(m, ws))
}

func join(m match.Matcher[[]string]) match.Matcher[string] {
	return match.Must(match.Map(m, func(parts []string) string {
		return strings.Join(parts, "")
	}))
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// name accepts a letter followed by letters, digits, and underscores.
var name = match.Must(match.Label("name", join(match.Must(match.All(
	match.Must(match.While("name", unicode.IsLetter, 1)),
	match.Must(match.While("name", isNameRune, 0)),
)))))
