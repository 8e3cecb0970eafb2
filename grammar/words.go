package grammar

import (
	"github.com/ava12/chunkparse/match"
)

// Words creates matcher accepting a delimited list of words, e.g. Words("[", ",", "]") accepts "[ one, two,three ]".
// A word contains letters, digits, and underscores. Whitespace including line breaks is allowed around delimiters.
// The value is the list of words.
func Words(prefix, separator, postfix string) (match.Matcher[[]string], error) {
	var delims [3]match.Matcher[string]
	for i, text := range []string{prefix, separator, postfix} {
		m, e := match.Literal(text)
		if e != nil {
			return nil, e
		}
		delims[i] = token(m, true)
	}

	word := token(match.Must(match.While("word", isNameRune, 1)), true)
	list, e := match.List(delims[0], word, delims[1], delims[2])
	if e != nil {
		return nil, e
	}

	leading := match.Must(match.Discard[[]string](match.WhitespaceNL()))
	return match.First(leading, list)
}
