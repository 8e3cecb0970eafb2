// Package test contains helpers shared by package tests.
package test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava12/chunkparse"
)

// Chunks splits text into pieces of at most size runes. size <= 0 means a single piece.
func Chunks(text string, size int) []string {
	runes := []rune(text)
	if size <= 0 || len(runes) <= size {
		return []string{text}
	}

	result := make([]string, 0, (len(runes)+size-1)/size)
	for len(runes) > size {
		result = append(result, string(runes[:size]))
		runes = runes[size:]
	}
	return append(result, string(runes))
}

// Splits returns several ways to deliver text: whole, one rune at a time,
// in pieces of 2 and 3 runes, and split in two at every position.
func Splits(text string) [][]string {
	result := [][]string{
		{text},
		Chunks(text, 1),
		Chunks(text, 2),
		Chunks(text, 3),
	}
	runes := []rune(text)
	for i := 1; i < len(runes); i++ {
		result = append(result, []string{string(runes[:i]), string(runes[i:])})
	}
	return result
}

// ExpectErrorCode fails the test unless e is (or wraps) *chunkparse.Error with given code.
func ExpectErrorCode(t testing.TB, expected int, e error) {
	t.Helper()
	var ce *chunkparse.Error
	require.Truef(t, errors.As(e, &ce), "expecting error code %d, got %v", expected, e)
	require.Equalf(t, expected, ce.Code, "expecting error code %d, got %v", expected, e)
}

// ExpectPanicCode fails the test unless f panics with *chunkparse.Error with given code.
func ExpectPanicCode(t testing.TB, expected int, f func()) {
	t.Helper()
	var recovered any
	func() {
		defer func() {
			recovered = recover()
		}()
		f()
	}()

	e, ok := recovered.(error)
	require.Truef(t, ok, "expecting panic with error code %d, got %v", expected, recovered)
	ExpectErrorCode(t, expected, e)
}
